package repository

import (
	"time"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"gorm.io/gorm"
)

// orderRepository implements the OrderRepository interface. Orders are an
// append-only ledger, so there are no update or delete operations.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByUserID(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) List(offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListBetween(from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Count(&count).Error
	return count, err
}

// RevenueSince sums paid order amounts created at or after the given time.
func (r *orderRepository) RevenueSince(since time.Time) (float64, error) {
	var total float64
	err := r.db.Model(&models.Order{}).
		Where("status = ? AND created_at >= ?", models.OrderStatusPaid, since).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

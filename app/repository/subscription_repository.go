package repository

import (
	"time"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Preload("Plan").First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetByUserID returns the user's subscriptions ordered oldest first. The
// stable creation order matters for entitlement matching.
func (r *subscriptionRepository) GetByUserID(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Preload("Plan").Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) List(offset, limit int) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Preload("Plan").Order("created_at DESC").Offset(offset).Limit(limit).Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) Update(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

// MarkExpired flips active subscriptions whose end date has passed to the
// expired status and returns the number of rows changed.
func (r *subscriptionRepository) MarkExpired(now time.Time) (int64, error) {
	res := r.db.Model(&models.Subscription{}).
		Where("status = ? AND end_date < ?", models.SubscriptionStatusActive, now).
		Update("status", models.SubscriptionStatusExpired)
	return res.RowsAffected, res.Error
}

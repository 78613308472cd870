package billing

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thaiwebseo/unicorn-x/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	GetUser(id uint) (*models.User, error)
	SaveUser(user *models.User) error

	GetPlanByName(name string) (*models.Plan, error)

	GetSubscription(id uint) (*models.Subscription, error)
	GetSubscriptionByCheckoutSession(sessionID string) (*models.Subscription, error)
	GetRenewableSubscription(userID, planID uint) (*models.Subscription, error)
	ListSubscriptionsByUser(userID uint) ([]models.Subscription, error)
	CreateSubscriptionIfAbsent(sub *models.Subscription) (bool, *models.Subscription, error)
	SaveSubscription(sub *models.Subscription) error
	MarkExpiredSubscriptions(now time.Time) (int64, error)

	GetBot(userID, botID uint) (*models.Bot, error)
	GetBotByID(botID uint) (*models.Bot, error)
	ListBotsByUser(userID uint) ([]models.Bot, error)
	EnsureBot(userID uint, name, status string) (*models.Bot, error)
	SaveBot(bot *models.Bot) error

	CreateOrder(order *models.Order) error
	GetOrderByCheckoutSession(sessionID string) (*models.Order, error)

	GetCouponByCode(code string) (*models.Coupon, error)
	CountCouponUsage(couponID uint) (int64, error)
	CountCouponUsageByUser(couponID, userID uint) (int64, error)
	CreateCouponUsage(usage *models.CouponUsage) error

	ResetUserData(userID uint) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) SaveUser(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *gormRepository) GetPlanByName(name string) (*models.Plan, error) {
	return models.FindPlanByName(r.db, name)
}

func (r *gormRepository) GetSubscription(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Preload("Plan").First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) GetSubscriptionByCheckoutSession(sessionID string) (*models.Subscription, error) {
	return models.FindSubscriptionByCheckoutSession(r.db, sessionID)
}

// GetRenewableSubscription finds the most recent subscription of the
// (user, plan) pair, the row a repeat purchase extends.
func (r *gormRepository) GetRenewableSubscription(userID, planID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Preload("Plan").
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Order("end_date DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) ListSubscriptionsByUser(userID uint) ([]models.Subscription, error) {
	return models.FindSubscriptionsByUser(r.db, userID)
}

// CreateSubscriptionIfAbsent inserts the subscription unless a row with
// the same checkout session already exists. Concurrent duplicate
// verification attempts race on the unique key; the loser reads back the
// winner's row.
func (r *gormRepository) CreateSubscriptionIfAbsent(sub *models.Subscription) (bool, *models.Subscription, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "checkout_session_id"}},
		DoNothing: true,
	}).Create(sub)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	stored, err := models.FindSubscriptionByCheckoutSession(r.db, sub.CheckoutSessionID)
	if err != nil {
		return false, nil, err
	}
	return created, stored, nil
}

func (r *gormRepository) SaveSubscription(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *gormRepository) MarkExpiredSubscriptions(now time.Time) (int64, error) {
	tx := r.db.Model(&models.Subscription{}).
		Where("end_date < ? AND status <> ?", now, models.SubscriptionStatusExpired).
		Update("status", models.SubscriptionStatusExpired)
	return tx.RowsAffected, tx.Error
}

func (r *gormRepository) GetBot(userID, botID uint) (*models.Bot, error) {
	var bot models.Bot
	err := r.db.Where("id = ? AND user_id = ?", botID, userID).First(&bot).Error
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

func (r *gormRepository) GetBotByID(botID uint) (*models.Bot, error) {
	var bot models.Bot
	if err := r.db.First(&bot, botID).Error; err != nil {
		return nil, err
	}
	return &bot, nil
}

func (r *gormRepository) ListBotsByUser(userID uint) ([]models.Bot, error) {
	return models.FindBotsByUser(r.db, userID)
}

// EnsureBot provisions a named bot for the user unless one exists.
func (r *gormRepository) EnsureBot(userID uint, name, status string) (*models.Bot, error) {
	var bot models.Bot
	err := r.db.Where(models.Bot{UserID: userID, Name: name}).
		Attrs(models.Bot{Status: status}).
		FirstOrCreate(&bot).Error
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

func (r *gormRepository) SaveBot(bot *models.Bot) error {
	return r.db.Save(bot).Error
}

func (r *gormRepository) CreateOrder(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *gormRepository) GetOrderByCheckoutSession(sessionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("checkout_session_id = ?", sessionID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) GetCouponByCode(code string) (*models.Coupon, error) {
	return models.FindCouponByCode(r.db, code)
}

func (r *gormRepository) CountCouponUsage(couponID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponUsage{}).Where("coupon_id = ?", couponID).Count(&count).Error
	return count, err
}

func (r *gormRepository) CountCouponUsageByUser(couponID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) CreateCouponUsage(usage *models.CouponUsage) error {
	return r.db.Create(usage).Error
}

// ResetUserData removes a user's bots, subscriptions and coupon usage in
// one transaction so a partial reset cannot occur.
func (r *gormRepository) ResetUserData(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Bot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.CouponUsage{}).Error; err != nil {
			return err
		}
		return nil
	})
}

package repository

import (
	"time"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
	GetWithStats(offset, limit int) ([]UserWithStats, error)
	SearchWithStats(query string) ([]UserWithStats, error)
	CountSignupsSince(since time.Time) (int64, error)
}

// PlanRepository defines the interface for subscription plan operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	GetByName(name string) (*models.Plan, error)
	GetAll() ([]models.Plan, error)
	GetActive() ([]models.Plan, error)
	GetActiveByCategory(category string) ([]models.Plan, error)
	Update(plan *models.Plan) error
	Delete(id uint) error
	NameExists(name string) (bool, error)
	NameExistsExceptID(name string, id uint) (bool, error)
}

// SubscriptionRepository defines the interface for subscription operations
type SubscriptionRepository interface {
	GetByID(id uint) (*models.Subscription, error)
	GetByUserID(userID uint) ([]models.Subscription, error)
	List(offset, limit int) ([]models.Subscription, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
	Update(sub *models.Subscription) error
	MarkExpired(now time.Time) (int64, error)
}

// BotRepository defines the interface for bot instance operations
type BotRepository interface {
	GetByID(id uint) (*models.Bot, error)
	GetByUserID(userID uint) ([]models.Bot, error)
	List(offset, limit int) ([]models.Bot, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
	Update(bot *models.Bot) error
	Delete(id uint) error
}

// OrderRepository defines the interface for the append-only order ledger
type OrderRepository interface {
	Create(order *models.Order) error
	GetByUserID(userID uint) ([]models.Order, error)
	List(offset, limit int) ([]models.Order, error)
	ListBetween(from, to time.Time) ([]models.Order, error)
	Count() (int64, error)
	RevenueSince(since time.Time) (float64, error)
}

// CouponRepository defines the interface for coupon management
type CouponRepository interface {
	Create(coupon *models.Coupon) error
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	GetAll() ([]models.Coupon, error)
	Update(coupon *models.Coupon) error
	Delete(id uint) error
	CountUsages(couponID uint) (int64, error)
	CountUsagesByUser(couponID, userID uint) (int64, error)
}

// SettingRepository defines the interface for application settings
type SettingRepository interface {
	Get() (*models.AppSettings, error)
	Save(settings *models.AppSettings) error
	GetValue(key string) (string, error)
	SetValue(key, value string) error
}

// PageRepository defines the interface for page-related operations
type PageRepository interface {
	Create(page *models.Page) error
	GetByID(id uint) (*models.Page, error)
	GetBySlug(slug string) (*models.Page, error)
	GetAll() ([]models.Page, error)
	GetFooter() ([]models.Page, error)
	Update(page *models.Page) error
	Delete(id uint) error
	SlugExists(slug string) (bool, error)
	SlugExistsExceptID(slug string, id uint) (bool, error)
}

// GuideRepository defines the interface for guide-related operations
type GuideRepository interface {
	Create(guide *models.Guide) error
	GetByID(id uint) (*models.Guide, error)
	GetBySlug(slug string) (*models.Guide, error)
	GetPublished() ([]models.Guide, error)
	GetAll() ([]models.Guide, error)
	Update(guide *models.Guide) error
	Delete(id uint) error
	Count() (int64, error)
	SlugExists(slug string) (bool, error)
	SlugExistsExceptID(slug string, id uint) (bool, error)
}

// UserWithStats represents a user with additional account statistics
type UserWithStats struct {
	User              models.User
	SubscriptionCount int64
	BotCount          int64
	ActiveSubs        int64
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Plan         PlanRepository
	Subscription SubscriptionRepository
	Bot          BotRepository
	Order        OrderRepository
	Coupon       CouponRepository
	Setting      SettingRepository
	Page         PageRepository
	Guide        GuideRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Plan:         NewPlanRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Bot:          NewBotRepository(db),
		Order:        NewOrderRepository(db),
		Coupon:       NewCouponRepository(db),
		Setting:      NewSettingRepository(db),
		Page:         NewPageRepository(db),
		Guide:        NewGuideRepository(db),
	}
}

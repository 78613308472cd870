package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	PlanCategoryBots    = "Bots"
	PlanCategoryBundles = "Bundles"
)

// StringList is a []string stored as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Plan is a purchasable subscription product. IncludedBots lists the bot
// names a purchase provisions; when empty a single bot named after the
// plan itself is provisioned.
type Plan struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"name" validate:"required,min=2,max=150"`
	Category     string         `gorm:"type:varchar(50);not null;default:'Bots';index" json:"category" validate:"required,max=50"`
	Tier         string         `gorm:"type:varchar(50)" json:"tier" validate:"max=50"`
	Description  string         `gorm:"type:text" json:"description"`
	PriceMonthly float64        `gorm:"not null;default:0" json:"price_monthly" validate:"gte=0"`
	PriceYearly  float64        `gorm:"not null;default:0" json:"price_yearly" validate:"gte=0"`
	IncludedBots StringList     `gorm:"type:json" json:"included_bots"`
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder    int            `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Plan) Validate() error {
	v := validator.New()
	return v.Struct(p)
}

// IsBundle reports whether the plan entitles more than one bot.
func (p *Plan) IsBundle() bool {
	return p.Category == PlanCategoryBundles || len(p.IncludedBots) > 1
}

// PriceFor returns the price for a billing interval ("month" or "year").
func (p *Plan) PriceFor(interval string) float64 {
	if interval == "year" {
		return p.PriceYearly
	}
	return p.PriceMonthly
}

func FindPlanByName(db *gorm.DB, name string) (*Plan, error) {
	var plan Plan
	err := db.Where("name = ?", name).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func GetActivePlans(db *gorm.DB) ([]Plan, error) {
	var plans []Plan
	err := db.Where("is_active = ?", true).Order("sort_order ASC, name ASC").Find(&plans).Error
	return plans, err
}

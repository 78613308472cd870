package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Guide is a setup/usage article shown in the customer dashboard.
type Guide struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=1,max=255"`
	Slug        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug" validate:"required,min=1,max=255"`
	Content     string         `gorm:"type:longtext;not null" json:"content" validate:"required,min=1"`
	Category    string         `gorm:"type:varchar(100);index" json:"category" validate:"max=100"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`
	ViewCount   int64          `gorm:"default:0" json:"view_count"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (g *Guide) Validate() error {
	v := validator.New()
	return v.Struct(g)
}

func FindGuideBySlug(db *gorm.DB, slug string) (*Guide, error) {
	var guide Guide
	err := db.Where("slug = ? AND is_published = ?", slug, true).First(&guide).Error
	if err != nil {
		return nil, err
	}
	return &guide, nil
}

func GetPublishedGuides(db *gorm.DB) ([]Guide, error) {
	var guides []Guide
	err := db.Where("is_published = ?", true).Order("category ASC, sort_order ASC").Find(&guides).Error
	return guides, err
}

func GetAllGuides(db *gorm.DB) ([]Guide, error) {
	var guides []Guide
	err := db.Order("created_at DESC").Find(&guides).Error
	return guides, err
}

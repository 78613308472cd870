package repository

import (
	"github.com/thaiwebseo/unicorn-x/app/models"
	"gorm.io/gorm"
)

// guideRepository implements the GuideRepository interface
type guideRepository struct {
	db *gorm.DB
}

// NewGuideRepository creates a new guide repository instance
func NewGuideRepository(db *gorm.DB) GuideRepository {
	return &guideRepository{db: db}
}

func (r *guideRepository) Create(guide *models.Guide) error {
	return r.db.Create(guide).Error
}

func (r *guideRepository) GetByID(id uint) (*models.Guide, error) {
	var guide models.Guide
	if err := r.db.First(&guide, id).Error; err != nil {
		return nil, err
	}
	return &guide, nil
}

// GetBySlug retrieves a published guide by its slug
func (r *guideRepository) GetBySlug(slug string) (*models.Guide, error) {
	var guide models.Guide
	err := r.db.Where("slug = ? AND is_published = ?", slug, true).First(&guide).Error
	if err != nil {
		return nil, err
	}
	return &guide, nil
}

func (r *guideRepository) GetPublished() ([]models.Guide, error) {
	var guides []models.Guide
	err := r.db.Where("is_published = ?", true).
		Order("category ASC, sort_order ASC").Find(&guides).Error
	return guides, err
}

func (r *guideRepository) GetAll() ([]models.Guide, error) {
	var guides []models.Guide
	err := r.db.Order("created_at DESC").Find(&guides).Error
	return guides, err
}

func (r *guideRepository) Update(guide *models.Guide) error {
	return r.db.Save(guide).Error
}

func (r *guideRepository) Delete(id uint) error {
	return r.db.Delete(&models.Guide{}, id).Error
}

func (r *guideRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Guide{}).Count(&count).Error
	return count, err
}

func (r *guideRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Guide{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *guideRepository) SlugExistsExceptID(slug string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Guide{}).Where("slug = ? AND id != ?", slug, id).Count(&count).Error
	return count > 0, err
}

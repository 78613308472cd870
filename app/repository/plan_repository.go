package repository

import (
	"github.com/thaiwebseo/unicorn-x/app/models"
	"gorm.io/gorm"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

func (r *planRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetByName(name string) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.Where("name = ?", name).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetAll() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Order("category ASC, sort_order ASC, name ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepository) GetActive() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("is_active = ?", true).Order("category ASC, sort_order ASC, name ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepository) GetActiveByCategory(category string) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("is_active = ? AND category = ?", true, category).
		Order("sort_order ASC, name ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepository) Update(plan *models.Plan) error {
	return r.db.Save(plan).Error
}

func (r *planRepository) Delete(id uint) error {
	return r.db.Delete(&models.Plan{}, id).Error
}

func (r *planRepository) NameExists(name string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Plan{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *planRepository) NameExistsExceptID(name string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Plan{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error
	return count > 0, err
}

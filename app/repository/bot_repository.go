package repository

import (
	"github.com/thaiwebseo/unicorn-x/app/models"
	"gorm.io/gorm"
)

// botRepository implements the BotRepository interface
type botRepository struct {
	db *gorm.DB
}

// NewBotRepository creates a new bot repository instance
func NewBotRepository(db *gorm.DB) BotRepository {
	return &botRepository{db: db}
}

func (r *botRepository) GetByID(id uint) (*models.Bot, error) {
	var bot models.Bot
	if err := r.db.First(&bot, id).Error; err != nil {
		return nil, err
	}
	return &bot, nil
}

func (r *botRepository) GetByUserID(userID uint) ([]models.Bot, error) {
	var bots []models.Bot
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&bots).Error
	return bots, err
}

func (r *botRepository) List(offset, limit int) ([]models.Bot, error) {
	var bots []models.Bot
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&bots).Error
	return bots, err
}

func (r *botRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Bot{}).Count(&count).Error
	return count, err
}

func (r *botRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Bot{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *botRepository) Update(bot *models.Bot) error {
	return r.db.Save(bot).Error
}

func (r *botRepository) Delete(id uint) error {
	return r.db.Delete(&models.Bot{}, id).Error
}

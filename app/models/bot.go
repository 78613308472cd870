package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	BotStatusSettingUp       = "SETTING_UP"
	BotStatusWaitingForSetup = "WAITING_FOR_SETUP"
	BotStatusRunning         = "RUNNING"
	BotStatusSuspended       = "SUSPENDED"
	BotStatusStopped         = "STOPPED"
)

// BotTrialSuffix marks trial-provisioned bot instances. It is part of the
// stored name and stripped before matching against plan entitlements.
const BotTrialSuffix = " (Trial)"

// Bot is one provisioned trading bot instance owned by a user.
type Bot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"type:varchar(150);not null;index" json:"name"`
	Status    string    `gorm:"type:varchar(30);not null;default:'SETTING_UP'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NormalizedName returns the bot name without the trial suffix.
func (b *Bot) NormalizedName() string {
	return NormalizeBotName(b.Name)
}

// IsTrialInstance reports whether the bot was provisioned by a trial.
func (b *Bot) IsTrialInstance() bool {
	return strings.HasSuffix(b.Name, BotTrialSuffix)
}

// NormalizeBotName strips the trailing trial suffix from a bot name.
func NormalizeBotName(name string) string {
	return strings.TrimSuffix(name, BotTrialSuffix)
}

func FindBotsByUser(db *gorm.DB, userID uint) ([]Bot, error) {
	var bots []Bot
	err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&bots).Error
	return bots, err
}

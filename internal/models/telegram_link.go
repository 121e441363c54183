package models

import "time"

// TelegramLink: привязка Telegram-чата к пользователю для бота и уведомлений.
type TelegramLink struct {
	ID               uint `gorm:"primaryKey"`
	UserID           uint `gorm:"uniqueIndex;not null"`
	User             User
	ChatID           int64   `gorm:"uniqueIndex;not null"`
	Username         *string `gorm:"size:100"`
	IsActive         bool    `gorm:"not null;default:true"`
	LastStatusSentAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

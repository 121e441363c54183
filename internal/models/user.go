package models

import "time"

type User struct {
	ID           uint `gorm:"primaryKey"`
	ClientID     uint `gorm:"index;not null"`
	Client       Client
	Email        string  `gorm:"size:30;uniqueIndex;not null"`
	PasswordHash string  `gorm:"size:255;not null"`
	IsActive     bool    `gorm:"not null;default:true"`
	IsAdmin      bool    `gorm:"not null;default:false"`
	Name         *string `gorm:"size:50"`
	Surname      *string `gorm:"size:50"`
	CreatedAt    time.Time `gorm:"type:date"`
}

package models

import "time"

// Cart: корзина пользователя (одна на пользователя, создаётся лениво).
type Cart struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex;not null"`
	User      User
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"`
	CartID    uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	SeriesID  *uint `gorm:"index"`
	Series    *Series
	Quantity  int `gorm:"not null"`
}

package models

import "time"

// Series: производственная партия продукта. Остатки и анализы ведутся по сериям.
type Series struct {
	ID             uint `gorm:"primaryKey"`
	ProductID      uint `gorm:"index;not null"`
	Product        Product
	Name           *string    `gorm:"size:20"`
	ProductionDate *time.Time `gorm:"type:date"`
	ExpireDate     *time.Time `gorm:"type:date"`

	Analysis *Analysis `gorm:"foreignKey:SeriesID"`
	Stocks   []Stock   `gorm:"foreignKey:SeriesID"`
}

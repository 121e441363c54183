package models

type Product struct {
	ID            uint `gorm:"primaryKey"`
	CoatingTypeID uint `gorm:"index;not null"`
	CoatingType   CoatingType
	Name          string `gorm:"size:40;not null"`
	Color         int    `gorm:"not null"` // код цвета RAL (4 цифры)
	Price         int    `gorm:"not null"` // цена за единицу, целые рубли

	Series []Series
}

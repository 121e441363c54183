package models

import "time"

// Stock: строка складской книги — количество одной серии, зарезервированное
// за конкретным клиентом (ClientID != nil) или общедоступное (ClientID == nil).
// Количество не может стать отрицательным: списания выполняет только механизм
// распределения заказов и административные операции.
type Stock struct {
	ID       uint  `gorm:"primaryKey"`
	SeriesID *uint `gorm:"index"`
	Series   *Series
	ClientID *uint `gorm:"index"`
	Client   *Client
	Quantity float64 `gorm:"not null"`
	Reserved bool    `gorm:"not null;default:false"` // информационный флаг "резерв за клиентом"
	UpdatedAt time.Time `gorm:"type:date"`
}

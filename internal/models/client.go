package models

// Client: юридическое лицо-покупатель. Пользователи (Users) привязаны к клиенту.
type Client struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:20;not null"`
	Email string `gorm:"size:30;not null"`

	Users []User
}

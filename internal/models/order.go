package models

import "time"

// Order: заказ клиента. Вместе с позициями и историей статусов образует
// единый агрегат: создаётся атомарно, история только дописывается.
type Order struct {
	ID           uint `gorm:"primaryKey"`
	ClientID     uint `gorm:"index;not null"`
	Client       Client
	Status       string    `gorm:"size:30;not null"`
	CreatedAt    time.Time `gorm:"type:date;index"`
	ShippedAt    *time.Time `gorm:"type:date"`
	DeliveredAt  *time.Time `gorm:"type:date"`
	CancelReason *string    `gorm:"size:100"`

	Items   []OrderItem          `gorm:"foreignKey:OrderID"`
	History []OrderStatusHistory `gorm:"foreignKey:OrderID"`
}

// OrderItem: позиция заказа. Серия опциональна — позиция без серии не
// списывает остатки. После создания не изменяется.
type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	SeriesID  *uint `gorm:"index"`
	Series    *Series
	Quantity  int `gorm:"not null"`
}

// OrderStatusHistory: журнал переходов статуса, только добавление.
// Момент перехода хранится текстом ("2006-01-02 15:04:05"), как в учётной системе.
type OrderStatusHistory struct {
	ID         uint `gorm:"primaryKey"`
	OrderID    uint `gorm:"index;not null"`
	FromStatus string  `gorm:"size:30;not null"`
	ToStatus   string  `gorm:"size:30;not null"`
	ChangedAt  string  `gorm:"size:30;not null"`
	Note       *string `gorm:"size:30"`
}

func (OrderStatusHistory) TableName() string { return "order_status_history" }

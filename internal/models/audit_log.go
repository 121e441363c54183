package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionImport AuditAction = "import"
)

// AuditLog: журнал административных действий (создание/изменение/удаление
// справочников, остатков и заказов). Только добавление, снимки до/после в JSON.
type AuditLog struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	UserEmail   string `gorm:"size:30"`
	EntityType  string `gorm:"size:50;index;not null"` // "product", "series", "stock", "order"...
	EntityID    uint   `gorm:"index"`
	Action      AuditAction `gorm:"size:20;not null"`
	Description string      `gorm:"size:255"`
	BeforeData  string      `gorm:"type:jsonb;default:'null'"`
	AfterData   string      `gorm:"type:jsonb;default:'null'"`
	CreatedAt   time.Time
}

package orders

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"primetop-backend/internal/models"
)

const changedAtLayout = "2006-01-02 15:04:05"

// Clip ограничивает строку limit символами (рунами), как это делают
// колонки фиксированной длины в базе.
func Clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// ParseDate принимает дату в форматах "2006-01-02" и RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// normalizeStatus: пустой или пробельный статус заменяется дефолтным.
func normalizeStatus(raw string) string {
	status := Clip(strings.TrimSpace(raw), 30)
	if status == "" {
		return StatusPending
	}
	return status
}

// initialHistory: первая строка истории нового заказа, переход из "Создан".
func initialHistory(order *models.Order, note string, now time.Time) models.OrderStatusHistory {
	n := Clip(note, 30)
	if n == "" {
		n = DefaultHistoryNote
	}
	return models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: StatusCreated,
		ToStatus:   order.Status,
		ChangedAt:  now.Format(changedAtLayout),
		Note:       &n,
	}
}

// planStatusChange решает, нужна ли новая строка истории: nil, если статус
// не меняется. Заметка остаётся пустой, когда вызывающий её не передал.
func planStatusChange(order *models.Order, newStatus string, note *string, now time.Time) *models.OrderStatusHistory {
	if newStatus == order.Status {
		return nil
	}
	history := &models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: order.Status,
		ToStatus:   newStatus,
		ChangedAt:  now.Format(changedAtLayout),
	}
	if note != nil && strings.TrimSpace(*note) != "" {
		n := Clip(*note, 30)
		history.Note = &n
	}
	return history
}

type OrderItemInput struct {
	ProductID uint
	SeriesID  *uint
	Quantity  int
}

type CreateOrderParams struct {
	ClientID     uint
	Status       string
	Date         *time.Time
	ShippedAt    *time.Time
	DeliveredAt  *time.Time
	CancelReason *string
	Items        []OrderItemInput
	HistoryNote  string
}

// CreateOrder оформляет заказ внутри транзакции tx: валидация позиций,
// списание остатков по сериям, запись заказа и первой строки истории.
// Ошибка любого шага откатывает транзакцию целиком у вызывающей стороны.
func CreateOrder(tx *gorm.DB, p CreateOrderParams) (*models.Order, error) {
	if len(p.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var client models.Client
	if err := tx.First(&client, p.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "клиент", ID: p.ClientID}
		}
		return nil, err
	}

	status := normalizeStatus(p.Status)
	createdAt := time.Now()
	if p.Date != nil {
		createdAt = *p.Date
	}

	order := models.Order{
		ClientID:    p.ClientID,
		Status:      status,
		CreatedAt:   createdAt,
		ShippedAt:   p.ShippedAt,
		DeliveredAt: p.DeliveredAt,
	}
	if p.CancelReason != nil {
		reason := Clip(*p.CancelReason, 100)
		order.CancelReason = &reason
	}

	for _, item := range p.Items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Msg: "количество в позиции должно быть больше нуля"}
		}

		var product models.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "продукт", ID: item.ProductID}
			}
			return nil, err
		}

		if item.SeriesID != nil {
			var series models.Series
			if err := tx.First(&series, *item.SeriesID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, &NotFoundError{Entity: "серия", ID: *item.SeriesID}
				}
				return nil, err
			}
			if series.ProductID != item.ProductID {
				return nil, &SeriesProductMismatchError{SeriesID: series.ID, ProductID: item.ProductID}
			}

			if _, err := Allocate(tx, p.ClientID, series.ID, float64(item.Quantity)); err != nil {
				return nil, err
			}
		}

		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			SeriesID:  item.SeriesID,
			Quantity:  item.Quantity,
		})
	}

	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}

	history := initialHistory(&order, p.HistoryNote, time.Now())
	if err := tx.Create(&history).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

type UpdateOrderParams struct {
	Status       *string
	ShippedAt    *time.Time
	DeliveredAt  *time.Time
	CancelReason *string
	Note         *string
}

// UpdateOrder меняет поля заказа. Смена статуса дописывает строку в историю;
// даты отгрузки/доставки и причина отмены — независимые поля, сервис их
// со статусом не связывает. Возвращает true, если статус действительно
// поменялся (для уведомлений).
func UpdateOrder(tx *gorm.DB, orderID uint, p UpdateOrderParams) (*models.Order, bool, error) {
	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, &NotFoundError{Entity: "заказ", ID: orderID}
		}
		return nil, false, err
	}

	statusChanged := false
	updates := map[string]interface{}{}

	if p.Status != nil {
		newStatus := Clip(strings.TrimSpace(*p.Status), 30)
		if newStatus == "" {
			return nil, false, &ValidationError{Msg: "статус не может быть пустым"}
		}
		if history := planStatusChange(&order, newStatus, p.Note, time.Now()); history != nil {
			if err := tx.Create(history).Error; err != nil {
				return nil, false, err
			}
			updates["status"] = newStatus
			order.Status = newStatus
			statusChanged = true
		}
	}

	if p.ShippedAt != nil {
		updates["shipped_at"] = *p.ShippedAt
		order.ShippedAt = p.ShippedAt
	}
	if p.DeliveredAt != nil {
		updates["delivered_at"] = *p.DeliveredAt
		order.DeliveredAt = p.DeliveredAt
	}
	if p.CancelReason != nil {
		reason := Clip(*p.CancelReason, 100)
		updates["cancel_reason"] = reason
		order.CancelReason = &reason
	}

	if len(updates) > 0 {
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return nil, false, err
		}
	}

	return &order, statusChanged, nil
}

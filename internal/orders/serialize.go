package orders

import (
	"errors"

	"gorm.io/gorm"

	"primetop-backend/internal/models"
)

const dateLayout = "2006-01-02"

type OrderItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Color       int     `json:"color"`
	SeriesID    *uint   `json:"series_id"`
	SeriesName  *string `json:"series_name"`
	Quantity    int     `json:"quantity"`
}

type OrderHistoryResponse struct {
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	ChangedAt  string  `json:"changed_at"`
	Note       *string `json:"note"`
}

type OrderResponse struct {
	ID           uint                   `json:"id"`
	ClientID     uint                   `json:"client_id"`
	ClientName   string                 `json:"client_name"`
	Status       string                 `json:"status"`
	CreatedAt    string                 `json:"created_at"`
	ShippedAt    *string                `json:"shipped_at"`
	DeliveredAt  *string                `json:"delivered_at"`
	CancelReason *string                `json:"cancel_reason"`
	Items        []OrderItemResponse    `json:"items"`
	History      []OrderHistoryResponse `json:"history"`
}

// LoadOrder читает заказ со всеми связями; история — по возрастанию id,
// то есть в порядке наступления событий.
func LoadOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("Client").
		Preload("Items.Product").
		Preload("Items.Series").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "заказ", ID: orderID}
		}
		return nil, err
	}
	return &order, nil
}

// Serialize собирает JSON-представление заказа из загруженной модели.
func Serialize(order *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:           order.ID,
		ClientID:     order.ClientID,
		ClientName:   order.Client.Name,
		Status:       order.Status,
		CreatedAt:    order.CreatedAt.Format(dateLayout),
		CancelReason: order.CancelReason,
	}
	if order.ShippedAt != nil {
		s := order.ShippedAt.Format(dateLayout)
		resp.ShippedAt = &s
	}
	if order.DeliveredAt != nil {
		s := order.DeliveredAt.Format(dateLayout)
		resp.DeliveredAt = &s
	}

	resp.Items = make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		ir := OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Color:       item.Product.Color,
			SeriesID:    item.SeriesID,
			Quantity:    item.Quantity,
		}
		if item.Series != nil {
			ir.SeriesName = item.Series.Name
		}
		resp.Items = append(resp.Items, ir)
	}

	resp.History = make([]OrderHistoryResponse, 0, len(order.History))
	for _, h := range order.History {
		resp.History = append(resp.History, OrderHistoryResponse{
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			ChangedAt:  h.ChangedAt,
			Note:       h.Note,
		})
	}

	return resp
}

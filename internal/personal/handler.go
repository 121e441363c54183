package personal

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/auth"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
	"primetop-backend/internal/orders"
)

func clientOrders(clientID uint) ([]models.Order, error) {
	var list []models.Order
	err := database.DB.
		Preload("Client").
		Preload("Items.Product").
		Preload("Items.Series").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("client_id = ?", clientID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// CurrentOrdersHandler возвращает заказы клиента, которые ещё в работе.
func CurrentOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID, err := auth.ClientID(c)
		if err != nil {
			return err
		}

		list, err := clientOrders(clientID)
		if err != nil {
			return err
		}

		resp := make([]orders.OrderResponse, 0, len(list))
		for i := range list {
			o := &list[i]
			if orders.IsDelivered(o.Status) || orders.IsCancelled(o.Status) {
				continue
			}
			resp = append(resp, orders.Serialize(o))
		}
		return c.JSON(resp)
	}
}

// OrderHistoryHandler возвращает завершённые заказы: доставленные и отменённые.
func OrderHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID, err := auth.ClientID(c)
		if err != nil {
			return err
		}

		list, err := clientOrders(clientID)
		if err != nil {
			return err
		}

		resp := make([]orders.OrderResponse, 0, len(list))
		for i := range list {
			o := &list[i]
			if !orders.IsDelivered(o.Status) && !orders.IsCancelled(o.Status) {
				continue
			}
			resp = append(resp, orders.Serialize(o))
		}
		return c.JSON(resp)
	}
}

type myStockResponse struct {
	SeriesID    uint    `json:"series_id"`
	SeriesName  *string `json:"series_name"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Color       int     `json:"color"`
	Quantity    float64 `json:"quantity"`
	Reserved    bool    `json:"reserved"`
	UpdatedAt   string  `json:"updated_at"`
}

// MyStocksHandler отдаёт персональные остатки клиента текущего пользователя.
func MyStocksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID, err := auth.ClientID(c)
		if err != nil {
			return err
		}

		var rows []models.Stock
		err = database.DB.
			Preload("Series.Product").
			Where("client_id = ? AND series_id IS NOT NULL AND quantity > 0", clientID).
			Order("id").
			Find(&rows).Error
		if err != nil {
			return err
		}

		resp := make([]myStockResponse, 0, len(rows))
		for _, s := range rows {
			if s.Series == nil {
				continue
			}
			resp = append(resp, myStockResponse{
				SeriesID:    *s.SeriesID,
				SeriesName:  s.Series.Name,
				ProductID:   s.Series.ProductID,
				ProductName: s.Series.Product.Name,
				Color:       s.Series.Product.Color,
				Quantity:    s.Quantity,
				Reserved:    s.Reserved,
				UpdatedAt:   s.UpdatedAt.Format("2006-01-02"),
			})
		}
		return c.JSON(resp)
	}
}

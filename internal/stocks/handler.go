package stocks

import (
	"github.com/gofiber/fiber/v2"

	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
)

type stockResponse struct {
	ID          uint    `json:"id"`
	SeriesID    *uint   `json:"series_id"`
	SeriesName  *string `json:"series_name"`
	ProductID   uint    `json:"product_id,omitempty"`
	ProductName string  `json:"product_name,omitempty"`
	Color       int     `json:"color,omitempty"`
	ClientID    *uint   `json:"client_id"`
	ClientName  *string `json:"client_name"`
	Quantity    float64 `json:"quantity"`
	Reserved    bool    `json:"reserved"`
	UpdatedAt   string  `json:"updated_at"`
}

type availableStockResponse struct {
	SeriesID       uint    `json:"series_id"`
	SeriesName     *string `json:"series_name"`
	ProductID      uint    `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Color          int     `json:"color"`
	PublicQuantity float64 `json:"public_quantity"`
	ClientQuantity float64 `json:"client_quantity"`
	Total          float64 `json:"total"`
}

func serializeStock(s *models.Stock) stockResponse {
	resp := stockResponse{
		ID:        s.ID,
		SeriesID:  s.SeriesID,
		ClientID:  s.ClientID,
		Quantity:  s.Quantity,
		Reserved:  s.Reserved,
		UpdatedAt: s.UpdatedAt.Format("2006-01-02"),
	}
	if s.Series != nil {
		resp.SeriesName = s.Series.Name
		resp.ProductID = s.Series.ProductID
		resp.ProductName = s.Series.Product.Name
		resp.Color = s.Series.Product.Color
	}
	if s.Client != nil {
		resp.ClientName = &s.Client.Name
	}
	return resp
}

// ListStocksHandler отдаёт складские строки как есть.
// Фильтры: ?series_id=, ?client_id= (client_id=0 отбирает общий склад),
// ?with_zero=1 оставляет нулевые строки.
func ListStocksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.
			Preload("Series.Product").
			Preload("Client").
			Model(&models.Stock{})

		if seriesID := c.QueryInt("series_id"); seriesID > 0 {
			query = query.Where("series_id = ?", seriesID)
		}
		if raw := c.Query("client_id"); raw != "" {
			clientID := c.QueryInt("client_id", -1)
			if clientID < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Неверный client_id")
			}
			if clientID == 0 {
				query = query.Where("client_id IS NULL")
			} else {
				query = query.Where("client_id = ?", clientID)
			}
		}
		if c.QueryBool("with_zero") {
			query = query.Where("quantity >= 0")
		} else {
			query = query.Where("quantity > 0")
		}

		var rows []models.Stock
		if err := query.Order("id").Find(&rows).Error; err != nil {
			return err
		}

		resp := make([]stockResponse, 0, len(rows))
		for i := range rows {
			resp = append(resp, serializeStock(&rows[i]))
		}
		return c.JSON(resp)
	}
}

// AvailableStocksHandler считает доступность по сериям глазами конкретного клиента:
// общий склад плюс его персональные остатки, то же разбиение, по которому
// работает списание при заказе.
func AvailableStocksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := c.QueryInt("client_id")

		query := database.DB.
			Preload("Series.Product").
			Where("series_id IS NOT NULL AND quantity > 0")
		if clientID > 0 {
			query = query.Where("client_id IS NULL OR client_id = ?", clientID)
		} else {
			query = query.Where("client_id IS NULL")
		}
		if seriesID := c.QueryInt("series_id"); seriesID > 0 {
			query = query.Where("series_id = ?", seriesID)
		}

		var rows []models.Stock
		if err := query.Order("series_id, id").Find(&rows).Error; err != nil {
			return err
		}

		bySeries := map[uint]*availableStockResponse{}
		order := []uint{}
		for i := range rows {
			s := &rows[i]
			if s.Series == nil {
				continue
			}
			entry, ok := bySeries[*s.SeriesID]
			if !ok {
				entry = &availableStockResponse{
					SeriesID:    *s.SeriesID,
					SeriesName:  s.Series.Name,
					ProductID:   s.Series.ProductID,
					ProductName: s.Series.Product.Name,
					Color:       s.Series.Product.Color,
				}
				bySeries[*s.SeriesID] = entry
				order = append(order, *s.SeriesID)
			}
			if s.ClientID == nil {
				entry.PublicQuantity += s.Quantity
			} else {
				entry.ClientQuantity += s.Quantity
			}
			entry.Total += s.Quantity
		}

		resp := make([]availableStockResponse, 0, len(order))
		for _, id := range order {
			resp = append(resp, *bySeries[id])
		}
		return c.JSON(resp)
	}
}

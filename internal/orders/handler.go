package orders

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
	"primetop-backend/internal/notify"
)

type orderItemRequest struct {
	ProductID uint  `json:"product_id"`
	SeriesID  *uint `json:"series_id"`
	Quantity  int   `json:"quantity"`
}

type createOrderRequest struct {
	ClientID     uint               `json:"client_id"`
	Status       string             `json:"status"`
	CreatedAt    string             `json:"created_at"`
	ShippedAt    *string            `json:"shipped_at"`
	DeliveredAt  *string            `json:"delivered_at"`
	CancelReason *string            `json:"cancel_reason"`
	StatusNote   string             `json:"status_note"`
	Items        []orderItemRequest `json:"items"`
}

type updateOrderRequest struct {
	Status       *string `json:"status"`
	ShippedAt    *string `json:"shipped_at"`
	DeliveredAt  *string `json:"delivered_at"`
	CancelReason *string `json:"cancel_reason"`
	StatusNote   *string `json:"status_note"`
}

func parseOptionalDate(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := ParseDate(*raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Неверный формат даты в поле "+field)
	}
	return &t, nil
}

// ListOrdersHandler возвращает список заказов.
// Фильтры: ?client_id=, ?status= (точное совпадение без учёта регистра),
// ?created_from=, ?created_to=.
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.
			Preload("Client").
			Preload("Items.Product").
			Preload("Items.Series").
			Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })

		if clientID := c.QueryInt("client_id"); clientID > 0 {
			query = query.Where("client_id = ?", clientID)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("LOWER(status) = LOWER(?)", status)
		}
		if from := c.Query("created_from"); from != "" {
			t, err := ParseDate(from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Неверный формат даты created_from")
			}
			query = query.Where("created_at >= ?", t)
		}
		if to := c.Query("created_to"); to != "" {
			t, err := ParseDate(to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Неверный формат даты created_to")
			}
			query = query.Where("created_at <= ?", t)
		}

		var list []models.Order
		if err := query.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
			return err
		}

		resp := make([]OrderResponse, 0, len(list))
		for i := range list {
			resp = append(resp, Serialize(&list[i]))
		}
		return c.JSON(resp)
	}
}

// CreateOrderHandler оформляет заказ по явному client_id.
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createOrderRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		if req.ClientID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Поле client_id обязательно")
		}

		params := CreateOrderParams{
			ClientID:     req.ClientID,
			Status:       req.Status,
			CancelReason: req.CancelReason,
			HistoryNote:  req.StatusNote,
		}
		if req.CreatedAt != "" {
			t, err := ParseDate(req.CreatedAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Неверный формат даты created_at")
			}
			params.Date = &t
		}
		var err error
		if params.ShippedAt, err = parseOptionalDate(req.ShippedAt, "shipped_at"); err != nil {
			return err
		}
		if params.DeliveredAt, err = parseOptionalDate(req.DeliveredAt, "delivered_at"); err != nil {
			return err
		}
		for _, item := range req.Items {
			params.Items = append(params.Items, OrderItemInput{
				ProductID: item.ProductID,
				SeriesID:  item.SeriesID,
				Quantity:  item.Quantity,
			})
		}

		var created *models.Order
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			created, txErr = CreateOrder(tx, params)
			return txErr
		})
		if err != nil {
			return HTTPError(err)
		}

		loaded, err := LoadOrder(database.DB, created.ID)
		if err != nil {
			return HTTPError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(Serialize(loaded))
	}
}

// GetOrderHandler возвращает заказ со всеми связями.
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный ID заказа")
		}

		order, err := LoadOrder(database.DB, uint(orderID))
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(Serialize(order))
	}
}

// UpdateOrderHandler частично обновляет заказ. Смена статуса
// дописывает историю и уходит в Telegram-уведомления.
func UpdateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный ID заказа")
		}

		var req updateOrderRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}

		params := UpdateOrderParams{
			Status:       req.Status,
			CancelReason: req.CancelReason,
			Note:         req.StatusNote,
		}
		if params.ShippedAt, err = parseOptionalDate(req.ShippedAt, "shipped_at"); err != nil {
			return err
		}
		if params.DeliveredAt, err = parseOptionalDate(req.DeliveredAt, "delivered_at"); err != nil {
			return err
		}

		var (
			updated       *models.Order
			statusChanged bool
		)
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			updated, statusChanged, txErr = UpdateOrder(tx, uint(orderID), params)
			return txErr
		})
		if err != nil {
			return HTTPError(err)
		}

		loaded, err := LoadOrder(database.DB, updated.ID)
		if err != nil {
			return HTTPError(err)
		}

		if statusChanged {
			go notify.OrderStatusChanged(loaded.ID, loaded.ClientID, loaded.Status)
		}

		return c.JSON(Serialize(loaded))
	}
}

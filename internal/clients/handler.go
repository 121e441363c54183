package clients

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
	"primetop-backend/internal/orders"
)

type clientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type clientResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type clientUserResponse struct {
	ID       uint    `json:"id"`
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	IsActive bool    `json:"is_active"`
}

type orderSummaryResponse struct {
	ClientID      uint           `json:"client_id"`
	TotalOrders   int            `json:"total_orders"`
	Delivered     int            `json:"delivered"`
	Cancelled     int            `json:"cancelled"`
	InProgress    int            `json:"in_progress"`
	CancelDetails map[string]int `json:"cancel_details"`
}

func serializeClient(cl *models.Client) clientResponse {
	return clientResponse{ID: cl.ID, Name: cl.Name, Email: cl.Email}
}

func findClient(id int) (*models.Client, error) {
	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Клиент не найден")
		}
		return nil, err
	}
	return &client, nil
}

// ListClientsHandler отдаёт справочник клиентов, ?search= по имени и email.
func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Client{})
		if search := c.Query("search"); search != "" {
			query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
		}

		var list []models.Client
		if err := query.Order("id").Find(&list).Error; err != nil {
			return err
		}

		resp := make([]clientResponse, 0, len(list))
		for i := range list {
			resp = append(resp, serializeClient(&list[i]))
		}
		return c.JSON(resp)
	}
}

// CreateClientHandler заводит клиента; email уникален в пределах справочника.
func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req clientRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Name == "" || req.Email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Поля name и email обязательны")
		}

		var existing models.Client
		err := database.DB.Where("LOWER(email) = ?", req.Email).First(&existing).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict, "Клиент с таким email уже существует")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		client := models.Client{
			Name:  orders.Clip(req.Name, 20),
			Email: orders.Clip(req.Email, 30),
		}
		if err := database.DB.Create(&client).Error; err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(serializeClient(&client))
	}
}

func GetClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный ID клиента")
		}
		client, err := findClient(id)
		if err != nil {
			return err
		}
		return c.JSON(serializeClient(client))
	}
}

// UpdateClientHandler частично обновляет имя и email.
func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный ID клиента")
		}
		client, err := findClient(id)
		if err != nil {
			return err
		}

		var req clientRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}

		updates := map[string]interface{}{}
		if name := strings.TrimSpace(req.Name); name != "" {
			updates["name"] = orders.Clip(name, 20)
		}
		if email := strings.TrimSpace(strings.ToLower(req.Email)); email != "" {
			updates["email"] = orders.Clip(email, 30)
		}
		if len(updates) > 0 {
			if err := database.DB.Model(client).Updates(updates).Error; err != nil {
				return err
			}
		}
		return c.JSON(serializeClient(client))
	}
}

// ClientOrdersHandler возвращает заказы клиента в полном виде.
func ClientOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный ID клиента")
		}
		if _, err := findClient(id); err != nil {
			return err
		}

		var list []models.Order
		err = database.DB.
			Preload("Client").
			Preload("Items.Product").
			Preload("Items.Series").
			Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
			Where("client_id = ?", id).
			Order("created_at DESC, id DESC").
			Find(&list).Error
		if err != nil {
			return err
		}

		resp := make([]orders.OrderResponse, 0, len(list))
		for i := range list {
			resp = append(resp, orders.Serialize(&list[i]))
		}
		return c.JSON(resp)
	}
}

// ClientOrdersSummaryHandler считает сводку по заказам клиента: сколько доставлено,
// сколько отменено (с раскладкой по причинам), сколько в работе.
func ClientOrdersSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный ID клиента")
		}
		if _, err := findClient(id); err != nil {
			return err
		}

		var list []models.Order
		if err := database.DB.Where("client_id = ?", id).Find(&list).Error; err != nil {
			return err
		}

		summary := orderSummaryResponse{
			ClientID:      uint(id),
			CancelDetails: map[string]int{},
		}
		for _, o := range list {
			summary.TotalOrders++
			switch {
			case orders.IsDelivered(o.Status):
				summary.Delivered++
			case orders.IsCancelled(o.Status):
				summary.Cancelled++
				reason := "не указана"
				if o.CancelReason != nil && *o.CancelReason != "" {
					reason = *o.CancelReason
				}
				summary.CancelDetails[reason]++
			default:
				summary.InProgress++
			}
		}
		return c.JSON(summary)
	}
}

// ClientUsersHandler возвращает пользователей, привязанных к клиенту.
func ClientUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный ID клиента")
		}
		if _, err := findClient(id); err != nil {
			return err
		}

		var users []models.User
		if err := database.DB.Where("client_id = ?", id).Order("id").Find(&users).Error; err != nil {
			return err
		}

		resp := make([]clientUserResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, clientUserResponse{
				ID:       u.ID,
				Email:    u.Email,
				Name:     u.Name,
				Surname:  u.Surname,
				IsActive: u.IsActive,
			})
		}
		return c.JSON(resp)
	}
}

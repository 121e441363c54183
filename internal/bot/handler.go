package bot

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
	"primetop-backend/internal/orders"
)

// Эндпоинты для Telegram-бота. Бот живёт отдельным процессом и ходит сюда
// по chat_id: привязка создаётся один раз по email и паролю пользователя,
// дальше chat_id служит ключом доступа.

type linkRequest struct {
	ChatID   int64   `json:"chat_id"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Username *string `json:"username"`
}

type unlinkRequest struct {
	ChatID int64 `json:"chat_id"`
}

type profileResponse struct {
	UserID     uint    `json:"user_id"`
	Email      string  `json:"email"`
	Name       *string `json:"name"`
	Surname    *string `json:"surname"`
	ClientID   uint    `json:"client_id"`
	ClientName string  `json:"client_name"`
	Username   *string `json:"username"`
}

func linkByChatID(chatID int64) (*models.TelegramLink, error) {
	var link models.TelegramLink
	err := database.DB.
		Preload("User.Client").
		Where("chat_id = ? AND is_active = ?", chatID, true).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Чат не привязан к аккаунту")
		}
		return nil, err
	}
	return &link, nil
}

func chatIDFromQuery(c *fiber.Ctx) (int64, error) {
	chatID := int64(c.QueryInt("chat_id"))
	if chatID == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Параметр chat_id обязателен")
	}
	return chatID, nil
}

// LinkHandler привязывает чат к пользователю по email и паролю.
func LinkHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req linkRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		if req.ChatID == 0 || req.Email == "" || req.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Поля chat_id, email и password обязательны")
		}

		var user models.User
		err := database.DB.Where("LOWER(email) = LOWER(?)", strings.TrimSpace(req.Email)).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Неверный email или пароль")
			}
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Неверный email или пароль")
		}
		if !user.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "Аккаунт деактивирован")
		}

		var existing models.TelegramLink
		err = database.DB.Where("chat_id = ?", req.ChatID).First(&existing).Error
		switch {
		case err == nil && existing.UserID != user.ID:
			return fiber.NewError(fiber.StatusConflict, "Чат уже привязан к другому аккаунту")
		case err == nil:
			updates := map[string]interface{}{"is_active": true}
			if req.Username != nil {
				updates["username"] = *req.Username
			}
			if err := database.DB.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			return c.JSON(fiber.Map{"linked": true})
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		link := models.TelegramLink{
			UserID:   user.ID,
			ChatID:   req.ChatID,
			Username: req.Username,
			IsActive: true,
		}
		if err := database.DB.Create(&link).Error; err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"linked": true})
	}
}

// UnlinkHandler деактивирует привязку, сам чат при этом не забывается.
func UnlinkHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req unlinkRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		if req.ChatID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Поле chat_id обязательно")
		}

		res := database.DB.Model(&models.TelegramLink{}).
			Where("chat_id = ? AND is_active = ?", req.ChatID, true).
			Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Чат не привязан к аккаунту")
		}
		return c.JSON(fiber.Map{"linked": false})
	}
}

// OrdersHandler возвращает заказы клиента привязанного пользователя.
// ?scope=current|history|all (по умолчанию current).
func OrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chatID, err := chatIDFromQuery(c)
		if err != nil {
			return err
		}
		link, err := linkByChatID(chatID)
		if err != nil {
			return err
		}

		var list []models.Order
		err = database.DB.
			Preload("Client").
			Preload("Items.Product").
			Preload("Items.Series").
			Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
			Where("client_id = ?", link.User.ClientID).
			Order("created_at DESC, id DESC").
			Find(&list).Error
		if err != nil {
			return err
		}

		scope := c.Query("scope", "current")
		resp := make([]orders.OrderResponse, 0, len(list))
		for i := range list {
			o := &list[i]
			finished := orders.IsDelivered(o.Status) || orders.IsCancelled(o.Status)
			switch scope {
			case "current":
				if finished {
					continue
				}
			case "history":
				if !finished {
					continue
				}
			}
			resp = append(resp, orders.Serialize(o))
		}
		return c.JSON(resp)
	}
}

// OrderDetailHandler возвращает один заказ и только клиента привязанного пользователя.
func OrderDetailHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chatID, err := chatIDFromQuery(c)
		if err != nil {
			return err
		}
		link, err := linkByChatID(chatID)
		if err != nil {
			return err
		}

		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный ID заказа")
		}

		order, err := orders.LoadOrder(database.DB, uint(orderID))
		if err != nil {
			return orders.HTTPError(err)
		}
		if order.ClientID != link.User.ClientID {
			return fiber.NewError(fiber.StatusForbidden, "Заказ принадлежит другому клиенту")
		}
		return c.JSON(orders.Serialize(order))
	}
}

// ProfileHandler отвечает, кто привязан к этому чату.
func ProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chatID, err := chatIDFromQuery(c)
		if err != nil {
			return err
		}
		link, err := linkByChatID(chatID)
		if err != nil {
			return err
		}

		return c.JSON(profileResponse{
			UserID:     link.User.ID,
			Email:      link.User.Email,
			Name:       link.User.Name,
			Surname:    link.User.Surname,
			ClientID:   link.User.ClientID,
			ClientName: link.User.Client.Name,
			Username:   link.Username,
		})
	}
}

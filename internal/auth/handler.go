package auth

import (
	"strings"
	"time"

	"primetop-backend/internal/config"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
	"primetop-backend/internal/orders"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	ClientID    *uint  `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	Name        *string `json:"first_name"`
	Surname     *string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func clientPayload(client *models.Client) fiber.Map {
	return fiber.Map{
		"id":    client.ID,
		"name":  client.Name,
		"email": client.Email,
	}
}

// POST /api/auth/register
// Регистрирует пользователя: либо к существующему клиенту (client_id),
// либо создаёт/находит клиента по client_name+client_email.
func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Поля 'email' и 'password' обязательны")
		}
		if body.ClientID == nil && (body.ClientName == "" || body.ClientEmail == "") {
			return fiber.NewError(fiber.StatusBadRequest, "Укажи 'client_id' либо 'client_name' и 'client_email'")
		}

		var count int64
		database.DB.Model(&models.User{}).
			Where("LOWER(email) = ?", body.Email).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Пользователь с таким email уже существует")
		}

		var client models.Client
		if body.ClientID != nil {
			if err := database.DB.First(&client, "id = ?", *body.ClientID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Клиент не найден")
			}
		} else {
			clientEmail := orders.Clip(strings.TrimSpace(body.ClientEmail), 30)
			clientName := orders.Clip(strings.TrimSpace(body.ClientName), 20)
			// Существующего клиента с таким email переиспользуем
			err := database.DB.Where("LOWER(email) = LOWER(?)", clientEmail).First(&client).Error
			if err != nil {
				client = models.Client{Name: clientName, Email: clientEmail}
				if err := database.DB.Create(&client).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Не удалось создать клиента")
				}
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось захэшировать пароль")
		}

		user := models.User{
			ClientID:     client.ID,
			Email:        body.Email,
			PasswordHash: string(hash),
			IsActive:     true,
			Name:         body.Name,
			Surname:      body.Surname,
			CreatedAt:    time.Now(),
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось создать пользователя")
		}

		ttl := time.Duration(cfg.AuthTokenTTLHours) * time.Hour
		token, err := GenerateToken(cfg.JWTSecret, ttl, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось выпустить токен")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"token":      token,
			"expires_in": int(ttl.Seconds()),
			"user": fiber.Map{
				"id":         user.ID,
				"email":      user.Email,
				"created_at": user.CreatedAt.Format("2006-01-02"),
				"client":     clientPayload(&client),
			},
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Поля 'email' и 'password' обязательны")
		}

		var user models.User
		if err := database.DB.Preload("Client").
			Where("LOWER(email) = ?", body.Email).
			First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Неверный email или пароль")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Неверный email или пароль")
		}

		if !user.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "Учётная запись отключена")
		}
		if user.ClientID == 0 {
			return fiber.NewError(fiber.StatusForbidden, "Пользователь не привязан к клиенту")
		}

		ttl := time.Duration(cfg.AuthTokenTTLHours) * time.Hour
		token, err := GenerateToken(cfg.JWTSecret, ttl, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось выпустить токен")
		}

		return c.JSON(fiber.Map{
			"token":      token,
			"expires_in": int(ttl.Seconds()),
			"user": fiber.Map{
				"id":         user.ID,
				"email":      user.Email,
				"created_at": user.CreatedAt.Format("2006-01-02"),
				"client":     clientPayload(&user.Client),
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.Preload("Client").First(&user, "id = ?", userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Пользователь не найден")
		}

		return c.JSON(fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.Name,
			"last_name":  user.Surname,
			"is_admin":   user.IsAdmin,
			"created_at": user.CreatedAt.Format("2006-01-02"),
			"client":     clientPayload(&user.Client),
		})
	}
}

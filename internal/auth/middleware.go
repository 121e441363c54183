package auth

import (
	"fmt"
	"strings"

	"primetop-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxClientIDKey = "client_id"
	CtxIsAdminKey  = "is_admin"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Отсутствует заголовок Authorization")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Формат Authorization должен быть 'Bearer <token>'")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("недопустимый метод подписи")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Недействительный или просроченный токен")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Не удалось разобрать токен")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxClientIDKey, claims.ClientID)
		c.Locals(CtxIsAdminKey, claims.IsAdmin)

		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, ok := c.Locals(CtxIsAdminKey).(bool)
		if !ok || !isAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Недостаточно прав для этой операции")
		}
		return c.Next()
	}
}

// UserID: идентификатор аутентифицированного пользователя из контекста запроса.
func UserID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Не удалось получить данные пользователя")
	}
	return id, nil
}

// ClientID: клиент аутентифицированного пользователя из контекста запроса.
func ClientID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals(CtxClientIDKey).(uint)
	if !ok || id == 0 {
		return 0, fiber.NewError(fiber.StatusForbidden, "Пользователь не привязан к клиенту")
	}
	return id, nil
}

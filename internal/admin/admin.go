package admin

import (
	"github.com/gofiber/fiber/v2"

	"primetop-backend/internal/auth"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
)

// actor возвращает id и email администратора для журнала аудита.
func actor(c *fiber.Ctx) (uint, string, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return 0, "", err
	}
	var user models.User
	if err := database.DB.Select("email").First(&user, userID).Error; err != nil {
		return userID, "", nil
	}
	return userID, user.Email, nil
}

func paramID(c *fiber.Ctx, name, msg string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, msg)
	}
	return uint(id), nil
}

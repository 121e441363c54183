package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/audit"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
	"primetop-backend/internal/orders"
)

type userResponse struct {
	ID         uint    `json:"id"`
	Email      string  `json:"email"`
	Name       *string `json:"name"`
	Surname    *string `json:"surname"`
	ClientID   uint    `json:"client_id"`
	ClientName string  `json:"client_name"`
	IsActive   bool    `json:"is_active"`
	IsAdmin    bool    `json:"is_admin"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	ClientID *uint   `json:"client_id"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}

func serializeUser(u *models.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Surname:    u.Surname,
		ClientID:   u.ClientID,
		ClientName: u.Client.Name,
		IsActive:   u.IsActive,
		IsAdmin:    u.IsAdmin,
	}
}

// ListUsersHandler отдаёт всех пользователей, ?client_id= и ?search= по email.
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Client").Model(&models.User{})
		if clientID := c.QueryInt("client_id"); clientID > 0 {
			query = query.Where("client_id = ?", clientID)
		}
		if search := c.Query("search"); search != "" {
			query = query.Where("email ILIKE ?", "%"+search+"%")
		}

		var users []models.User
		if err := query.Order("id").Find(&users).Error; err != nil {
			return err
		}

		resp := make([]userResponse, 0, len(users))
		for i := range users {
			resp = append(resp, serializeUser(&users[i]))
		}
		return c.JSON(resp)
	}
}

// UpdateUserHandler правит пользователя: активность, права, клиент, имя.
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id", "Неверный ID пользователя")
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.Preload("Client").First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Пользователь не найден")
			}
			return err
		}
		before := serializeUser(&user)

		var req updateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = orders.Clip(*req.Name, 50)
		}
		if req.Surname != nil {
			updates["surname"] = orders.Clip(*req.Surname, 50)
		}
		if req.ClientID != nil {
			var client models.Client
			if err := database.DB.First(&client, *req.ClientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Клиент не найден")
				}
				return err
			}
			updates["client_id"] = *req.ClientID
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if req.IsAdmin != nil {
			updates["is_admin"] = *req.IsAdmin
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&user).Updates(updates).Error; err != nil {
					return err
				}
			}
			audit.Write(tx, userID, email, "user", user.ID,
				models.AuditActionUpdate, "обновлён пользователь "+user.Email, before, serializeUser(&user))
			return nil
		})
		if err != nil {
			return err
		}

		if err := database.DB.Preload("Client").First(&user, id).Error; err != nil {
			return err
		}
		return c.JSON(serializeUser(&user))
	}
}

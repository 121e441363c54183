package audit

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
)

// Журнал действий администратора. Запись делается best-effort: сломанный
// журнал не должен ломать само действие.

func marshal(v interface{}) string {
	if v == nil {
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

// Write добавляет запись в журнал внутри транзакции действия.
func Write(tx *gorm.DB, userID uint, userEmail, entityType string, entityID uint, action models.AuditAction, description string, before, after interface{}) {
	entry := models.AuditLog{
		UserID:      userID,
		UserEmail:   userEmail,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
		BeforeData:  marshal(before),
		AfterData:   marshal(after),
	}
	if err := tx.Create(&entry).Error; err != nil {
		log.Printf("[WARN] запись в журнал аудита не удалась: %v", err)
	}
}

// ListHandler отдаёт журнал по убыванию времени.
// Фильтры: ?entity_type=, ?action=, ?user_id=, limit/offset.
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		offset := c.QueryInt("offset", 0)
		if limit <= 0 || limit > 200 || offset < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверные параметры пагинации")
		}

		query := database.DB.Model(&models.AuditLog{})
		if et := c.Query("entity_type"); et != "" {
			query = query.Where("entity_type = ?", et)
		}
		if action := c.Query("action"); action != "" {
			query = query.Where("action = ?", action)
		}
		if userID := c.QueryInt("user_id"); userID > 0 {
			query = query.Where("user_id = ?", userID)
		}

		var entries []models.AuditLog
		if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
			return err
		}
		return c.JSON(entries)
	}
}

package admin

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/audit"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
	"primetop-backend/internal/orders"
)

// Админские маршруты заказов. Списки и частичное обновление повторяют
// публичные обработчики пакета orders, здесь живёт только удаление.

// DeleteOrderHandler удаляет заказ вместе с позициями и историей.
// Списанные остатки при этом не возвращаются.
func DeleteOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id", "Неверный ID заказа")
		if err != nil {
			return err
		}

		order, err := orders.LoadOrder(database.DB, id)
		if err != nil {
			return orders.HTTPError(err)
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderStatusHistory{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Order{}, order.ID).Error; err != nil {
				return err
			}
			audit.Write(tx, userID, email, "order", order.ID,
				models.AuditActionDelete, "удалён заказ", orders.Serialize(order), nil)
			return nil
		})
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

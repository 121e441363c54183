package admin

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/audit"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
)

type stockRequest struct {
	SeriesID *uint    `json:"series_id"`
	ClientID *uint    `json:"client_id"`
	Quantity *float64 `json:"quantity"`
	Reserved *bool    `json:"reserved"`
}

// ListStocksHandler отдаёт складские строки для админки, включая нулевые.
func ListStocksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.
			Preload("Series.Product").
			Preload("Client").
			Model(&models.Stock{})
		if seriesID := c.QueryInt("series_id"); seriesID > 0 {
			query = query.Where("series_id = ?", seriesID)
		}
		if clientID := c.QueryInt("client_id"); clientID > 0 {
			query = query.Where("client_id = ?", clientID)
		}

		var rows []models.Stock
		if err := query.Order("id").Find(&rows).Error; err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

// CreateStockHandler заводит складскую строку.
func CreateStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req stockRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		if req.SeriesID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Поле series_id обязательно")
		}
		if req.Quantity == nil || *req.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Количество должно быть неотрицательным")
		}

		var series models.Series
		if err := database.DB.First(&series, *req.SeriesID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Серия не найдена")
			}
			return err
		}
		if req.ClientID != nil {
			var client models.Client
			if err := database.DB.First(&client, *req.ClientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Клиент не найден")
				}
				return err
			}
		}

		stock := models.Stock{
			SeriesID:  req.SeriesID,
			ClientID:  req.ClientID,
			Quantity:  *req.Quantity,
			UpdatedAt: time.Now(),
		}
		if req.Reserved != nil {
			stock.Reserved = *req.Reserved
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&stock).Error; err != nil {
				return err
			}
			audit.Write(tx, userID, email, "stock", stock.ID,
				models.AuditActionCreate, "создана складская строка", nil, stock)
			return nil
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(stock)
	}
}

// UpdateStockHandler правит количество и резервирование вручную.
func UpdateStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id", "Неверный ID складской строки")
		if err != nil {
			return err
		}

		var stock models.Stock
		if err := database.DB.First(&stock, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Складская строка не найдена")
			}
			return err
		}
		before := stock

		var req stockRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if req.Quantity != nil {
			if *req.Quantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Количество должно быть неотрицательным")
			}
			updates["quantity"] = *req.Quantity
		}
		if req.Reserved != nil {
			updates["reserved"] = *req.Reserved
		}
		if req.ClientID != nil {
			if *req.ClientID == 0 {
				updates["client_id"] = nil
			} else {
				var client models.Client
				if err := database.DB.First(&client, *req.ClientID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fiber.NewError(fiber.StatusNotFound, "Клиент не найден")
					}
					return err
				}
				updates["client_id"] = *req.ClientID
			}
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&stock).Updates(updates).Error; err != nil {
				return err
			}
			audit.Write(tx, userID, email, "stock", stock.ID,
				models.AuditActionUpdate, "обновлена складская строка", before, stock)
			return nil
		})
		if err != nil {
			return err
		}
		return c.JSON(stock)
	}
}

// DeleteStockHandler удаляет складскую строку.
func DeleteStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id", "Неверный ID складской строки")
		if err != nil {
			return err
		}

		var stock models.Stock
		if err := database.DB.First(&stock, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Складская строка не найдена")
			}
			return err
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&stock).Error; err != nil {
				return err
			}
			audit.Write(tx, userID, email, "stock", stock.ID,
				models.AuditActionDelete, "удалена складская строка", stock, nil)
			return nil
		})
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

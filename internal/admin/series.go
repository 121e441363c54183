package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/audit"
	"primetop-backend/internal/cache"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
	"primetop-backend/internal/orders"
)

type seriesRequest struct {
	ProductID      *uint   `json:"product_id"`
	Name           *string `json:"name"`
	ProductionDate *string `json:"production_date"`
	ExpireDate     *string `json:"expire_date"`
}

// CreateSeriesHandler заводит серию выпуска продукта.
func CreateSeriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req seriesRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		if req.ProductID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Поле product_id обязательно")
		}

		var product models.Product
		if err := database.DB.First(&product, *req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Продукт не найден")
			}
			return err
		}

		series := models.Series{ProductID: *req.ProductID}
		if req.Name != nil && *req.Name != "" {
			name := orders.Clip(*req.Name, 20)
			series.Name = &name
		}
		if req.ProductionDate != nil && *req.ProductionDate != "" {
			t, err := orders.ParseDate(*req.ProductionDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Неверный формат production_date")
			}
			series.ProductionDate = &t
		}
		if req.ExpireDate != nil && *req.ExpireDate != "" {
			t, err := orders.ParseDate(*req.ExpireDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Неверный формат expire_date")
			}
			series.ExpireDate = &t
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&series).Error; err != nil {
				return err
			}
			audit.Write(tx, userID, email, "series", series.ID,
				models.AuditActionCreate, "создана серия продукта "+product.Name, nil, series)
			return nil
		})
		if err != nil {
			return err
		}

		cache.InvalidatePrefix(c.UserContext(), "catalog:")
		return c.Status(fiber.StatusCreated).JSON(series)
	}
}

// UpdateSeriesHandler частично обновляет серию. Перенос серии на другой
// продукт запрещён, если по ней уже есть заказы или остатки.
func UpdateSeriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id", "Неверный ID серии")
		if err != nil {
			return err
		}

		var series models.Series
		if err := database.DB.First(&series, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Серия не найдена")
			}
			return err
		}
		before := series

		var req seriesRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}

		updates := map[string]interface{}{}
		if req.ProductID != nil && *req.ProductID != series.ProductID {
			var refs int64
			if err := database.DB.Model(&models.OrderItem{}).Where("series_id = ?", id).Count(&refs).Error; err != nil {
				return err
			}
			if refs == 0 {
				if err := database.DB.Model(&models.Stock{}).Where("series_id = ?", id).Count(&refs).Error; err != nil {
					return err
				}
			}
			if refs > 0 {
				return fiber.NewError(fiber.StatusConflict, "Серия уже используется, перенос на другой продукт запрещён")
			}
			var product models.Product
			if err := database.DB.First(&product, *req.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Продукт не найден")
				}
				return err
			}
			updates["product_id"] = *req.ProductID
		}
		if req.Name != nil && *req.Name != "" {
			updates["name"] = orders.Clip(*req.Name, 20)
		}
		if req.ProductionDate != nil && *req.ProductionDate != "" {
			t, err := orders.ParseDate(*req.ProductionDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Неверный формат production_date")
			}
			updates["production_date"] = t
		}
		if req.ExpireDate != nil && *req.ExpireDate != "" {
			t, err := orders.ParseDate(*req.ExpireDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Неверный формат expire_date")
			}
			updates["expire_date"] = t
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&series).Updates(updates).Error; err != nil {
					return err
				}
			}
			audit.Write(tx, userID, email, "series", series.ID,
				models.AuditActionUpdate, "обновлена серия", before, series)
			return nil
		})
		if err != nil {
			return err
		}

		cache.InvalidatePrefix(c.UserContext(), "catalog:")
		return c.JSON(series)
	}
}

// UpsertAnalysisHandler создаёт или обновляет паспорт качества серии.
// Тело запроса — поля модели Analysis, присланные ключи перезаписываются.
func UpsertAnalysisHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		seriesID, err := paramID(c, "series_id", "Неверный ID серии")
		if err != nil {
			return err
		}

		var series models.Series
		if err := database.DB.First(&series, seriesID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Серия не найдена")
			}
			return err
		}

		var payload models.Analysis
		if err := c.BodyParser(&payload); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		payload.SeriesID = seriesID

		var existing models.Analysis
		err = database.DB.Where("series_id = ?", seriesID).First(&existing).Error
		created := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !created {
			return err
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if created {
				if err := tx.Create(&payload).Error; err != nil {
					return err
				}
				audit.Write(tx, userID, email, "analysis", seriesID,
					models.AuditActionCreate, "создан паспорт качества серии", nil, payload)
				return nil
			}
			if err := tx.Model(&models.Analysis{}).Where("series_id = ?", seriesID).Updates(&payload).Error; err != nil {
				return err
			}
			audit.Write(tx, userID, email, "analysis", seriesID,
				models.AuditActionUpdate, "обновлён паспорт качества серии", existing, payload)
			return nil
		})
		if err != nil {
			return err
		}

		if created {
			return c.Status(fiber.StatusCreated).JSON(payload)
		}
		return c.JSON(payload)
	}
}

package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/audit"
	"primetop-backend/internal/cache"
	"primetop-backend/internal/catalog"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
	"primetop-backend/internal/orders"
)

type productRequest struct {
	CoatingTypeID *uint   `json:"coating_type_id"`
	Name          *string `json:"name"`
	Color         *string `json:"color"`
	Price         *int    `json:"price"`
}

// CreateProductHandler заводит продукт; цвет принимается в любом RAL-виде.
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req productRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		if req.CoatingTypeID == nil || req.Name == nil || *req.Name == "" || req.Color == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Поля coating_type_id, name и color обязательны")
		}

		color, ok := catalog.NormalizeColor(*req.Color)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат цвета, ожидается код RAL")
		}

		var ct models.CoatingType
		if err := database.DB.First(&ct, *req.CoatingTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Тип покрытия не найден")
			}
			return err
		}

		product := models.Product{
			CoatingTypeID: *req.CoatingTypeID,
			Name:          orders.Clip(*req.Name, 40),
			Color:         color,
		}
		if req.Price != nil {
			if *req.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Цена не может быть отрицательной")
			}
			product.Price = *req.Price
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			audit.Write(tx, userID, email, "product", product.ID,
				models.AuditActionCreate, "создан продукт "+product.Name, nil, product)
			return nil
		})
		if err != nil {
			return err
		}

		cache.InvalidatePrefix(c.UserContext(), "catalog:")
		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// UpdateProductHandler частично обновляет продукт.
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id", "Неверный ID продукта")
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Продукт не найден")
			}
			return err
		}
		before := product

		var req productRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}

		updates := map[string]interface{}{}
		if req.CoatingTypeID != nil {
			var ct models.CoatingType
			if err := database.DB.First(&ct, *req.CoatingTypeID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Тип покрытия не найден")
				}
				return err
			}
			updates["coating_type_id"] = *req.CoatingTypeID
		}
		if req.Name != nil && *req.Name != "" {
			updates["name"] = orders.Clip(*req.Name, 40)
		}
		if req.Color != nil {
			color, ok := catalog.NormalizeColor(*req.Color)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "Неверный формат цвета, ожидается код RAL")
			}
			updates["color"] = color
		}
		if req.Price != nil {
			if *req.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Цена не может быть отрицательной")
			}
			updates["price"] = *req.Price
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&product).Updates(updates).Error; err != nil {
					return err
				}
			}
			audit.Write(tx, userID, email, "product", product.ID,
				models.AuditActionUpdate, "обновлён продукт "+product.Name, before, product)
			return nil
		})
		if err != nil {
			return err
		}

		cache.InvalidatePrefix(c.UserContext(), "catalog:")
		return c.JSON(product)
	}
}

// DeleteProductHandler удаляет продукт. Продукт, на который ссылаются
// заказы, серии или остатки, удалить нельзя.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id", "Неверный ID продукта")
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Продукт не найден")
			}
			return err
		}

		var refs int64
		if err := database.DB.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return fiber.NewError(fiber.StatusConflict, "Продукт используется в заказах, удаление запрещено")
		}
		if err := database.DB.Model(&models.Series{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return fiber.NewError(fiber.StatusConflict, "У продукта есть серии, удаление запрещено")
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&product).Error; err != nil {
				return err
			}
			audit.Write(tx, userID, email, "product", product.ID,
				models.AuditActionDelete, "удалён продукт "+product.Name, product, nil)
			return nil
		})
		if err != nil {
			return err
		}

		cache.InvalidatePrefix(c.UserContext(), "catalog:")
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type coatingTypeRequest struct {
	Name         *string `json:"name"`
	Nomenclature *string `json:"nomenclature"`
}

func CreateCoatingTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req coatingTypeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		if req.Name == nil || *req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Поле name обязательно")
		}

		ct := models.CoatingType{Name: orders.Clip(*req.Name, 40)}
		if req.Nomenclature != nil {
			ct.Nomenclature = orders.Clip(*req.Nomenclature, 40)
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&ct).Error; err != nil {
				return err
			}
			audit.Write(tx, userID, email, "coating_type", ct.ID,
				models.AuditActionCreate, "создан тип покрытия "+ct.Name, nil, ct)
			return nil
		})
		if err != nil {
			return err
		}

		cache.InvalidatePrefix(c.UserContext(), "catalog:")
		return c.Status(fiber.StatusCreated).JSON(ct)
	}
}

// UpdateCoatingTypeHandler частично обновляет тип покрытия.
func UpdateCoatingTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id", "Неверный ID типа покрытия")
		if err != nil {
			return err
		}

		var ct models.CoatingType
		if err := database.DB.First(&ct, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Тип покрытия не найден")
			}
			return err
		}
		before := ct

		var req coatingTypeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}

		updates := map[string]interface{}{}
		if req.Name != nil && *req.Name != "" {
			updates["name"] = orders.Clip(*req.Name, 40)
		}
		if req.Nomenclature != nil {
			updates["nomenclature"] = orders.Clip(*req.Nomenclature, 40)
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&ct).Updates(updates).Error; err != nil {
					return err
				}
			}
			audit.Write(tx, userID, email, "coating_type", ct.ID,
				models.AuditActionUpdate, "обновлён тип покрытия "+ct.Name, before, ct)
			return nil
		})
		if err != nil {
			return err
		}

		cache.InvalidatePrefix(c.UserContext(), "catalog:")
		return c.JSON(ct)
	}
}

package cart

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/auth"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
	"primetop-backend/internal/orders"
)

type addItemRequest struct {
	ProductID uint  `json:"product_id"`
	SeriesID  *uint `json:"series_id"`
	Quantity  int   `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Color       int     `json:"color"`
	Price       int     `json:"price"`
	SeriesID    *uint   `json:"series_id"`
	SeriesName  *string `json:"series_name"`
	Quantity    int     `json:"quantity"`
}

type cartResponse struct {
	ID        uint               `json:"id"`
	UpdatedAt string             `json:"updated_at"`
	Items     []cartItemResponse `json:"items"`
	Total     int                `json:"total"`
}

// getOrCreateCart: у пользователя всегда ровно одна корзина,
// создаётся лениво при первом обращении.
func getOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func loadCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	cart, err := getOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}
	err = db.
		Preload("Items.Product").
		Preload("Items.Series").
		First(cart, cart.ID).Error
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func serializeCart(cart *models.Cart) cartResponse {
	resp := cartResponse{
		ID:        cart.ID,
		UpdatedAt: cart.UpdatedAt.Format("2006-01-02 15:04:05"),
		Items:     make([]cartItemResponse, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		ir := cartItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Color:       item.Product.Color,
			Price:       item.Product.Price,
			SeriesID:    item.SeriesID,
			Quantity:    item.Quantity,
		}
		if item.Series != nil {
			ir.SeriesName = item.Series.Name
		}
		resp.Total += item.Product.Price * item.Quantity
		resp.Items = append(resp.Items, ir)
	}
	return resp
}

func touchCart(tx *gorm.DB, cartID uint) error {
	return tx.Model(&models.Cart{}).Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
}

// GetCartHandler отдаёт корзину текущего пользователя.
func GetCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		cart, err := loadCart(database.DB, userID)
		if err != nil {
			return err
		}
		return c.JSON(serializeCart(cart))
	}
}

// AddItemHandler добавляет позицию; совпадающая пара продукт+серия
// суммируется с уже лежащей в корзине.
func AddItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var req addItemRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		if req.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Количество должно быть больше нуля")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			cart, err := getOrCreateCart(tx, userID)
			if err != nil {
				return err
			}

			var product models.Product
			if err := tx.First(&product, req.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &orders.NotFoundError{Entity: "продукт", ID: req.ProductID}
				}
				return err
			}
			if req.SeriesID != nil {
				var series models.Series
				if err := tx.First(&series, *req.SeriesID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &orders.NotFoundError{Entity: "серия", ID: *req.SeriesID}
					}
					return err
				}
				if series.ProductID != req.ProductID {
					return &orders.SeriesProductMismatchError{SeriesID: series.ID, ProductID: req.ProductID}
				}
			}

			existing := tx.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID)
			if req.SeriesID != nil {
				existing = existing.Where("series_id = ?", *req.SeriesID)
			} else {
				existing = existing.Where("series_id IS NULL")
			}
			var item models.CartItem
			err = existing.First(&item).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				item = models.CartItem{
					CartID:    cart.ID,
					ProductID: req.ProductID,
					SeriesID:  req.SeriesID,
					Quantity:  req.Quantity,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				if err := tx.Model(&item).Update("quantity", item.Quantity+req.Quantity).Error; err != nil {
					return err
				}
			}

			return touchCart(tx, cart.ID)
		})
		if err != nil {
			return orders.HTTPError(err)
		}

		cart, err := loadCart(database.DB, userID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(serializeCart(cart))
	}
}

// UpdateItemHandler меняет количество позиции корзины.
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		itemID, err := c.ParamsInt("id")
		if err != nil || itemID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный ID позиции")
		}

		var req updateItemRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		if req.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Количество должно быть больше нуля")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			cart, err := getOrCreateCart(tx, userID)
			if err != nil {
				return err
			}
			res := tx.Model(&models.CartItem{}).
				Where("id = ? AND cart_id = ?", itemID, cart.ID).
				Update("quantity", req.Quantity)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &orders.NotFoundError{Entity: "позиция корзины", ID: uint(itemID)}
			}
			return touchCart(tx, cart.ID)
		})
		if err != nil {
			return orders.HTTPError(err)
		}

		cart, err := loadCart(database.DB, userID)
		if err != nil {
			return err
		}
		return c.JSON(serializeCart(cart))
	}
}

// DeleteItemHandler убирает позицию из корзины.
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		itemID, err := c.ParamsInt("id")
		if err != nil || itemID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный ID позиции")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			cart, err := getOrCreateCart(tx, userID)
			if err != nil {
				return err
			}
			res := tx.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &orders.NotFoundError{Entity: "позиция корзины", ID: uint(itemID)}
			}
			return touchCart(tx, cart.ID)
		})
		if err != nil {
			return orders.HTTPError(err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ClearCartHandler очищает корзину целиком.
func ClearCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			cart, err := getOrCreateCart(tx, userID)
			if err != nil {
				return err
			}
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return touchCart(tx, cart.ID)
		})
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CheckoutHandler превращает корзину в заказ: списание остатков, создание
// заказа и очистка корзины происходят в одной транзакции.
func CheckoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		clientID, err := auth.ClientID(c)
		if err != nil {
			return err
		}

		var created *models.Order
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			cart, err := getOrCreateCart(tx, userID)
			if err != nil {
				return err
			}

			var items []models.CartItem
			if err := tx.Where("cart_id = ?", cart.ID).Order("id").Find(&items).Error; err != nil {
				return err
			}

			params := orders.CreateOrderParams{
				ClientID:    clientID,
				HistoryNote: orders.CartHistoryNote,
			}
			for _, item := range items {
				params.Items = append(params.Items, orders.OrderItemInput{
					ProductID: item.ProductID,
					SeriesID:  item.SeriesID,
					Quantity:  item.Quantity,
				})
			}

			created, err = orders.CreateOrder(tx, params)
			if err != nil {
				return err
			}

			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return touchCart(tx, cart.ID)
		})
		if err != nil {
			return orders.HTTPError(err)
		}

		loaded, err := orders.LoadOrder(database.DB, created.ID)
		if err != nil {
			return orders.HTTPError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(orders.Serialize(loaded))
	}
}

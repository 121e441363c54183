package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/cache"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
)

type productResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Color        int    `json:"color"`
	Price        int    `json:"price"`
	CoatingType  string `json:"coating_type"`
	Nomenclature string `json:"nomenclature"`
}

type seriesResponse struct {
	ID             uint             `json:"id"`
	ProductID      uint             `json:"product_id"`
	ProductName    string           `json:"product_name"`
	Name           *string          `json:"name"`
	ProductionDate *string          `json:"production_date"`
	ExpireDate     *string          `json:"expire_date"`
	Analysis       *models.Analysis `json:"analysis,omitempty"`
}

type productDetailResponse struct {
	productResponse
	Series []seriesResponse `json:"series"`
}

type coatingTypeResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Nomenclature string `json:"nomenclature"`
}

const dateLayout = "2006-01-02"

func fmtDate(t time.Time) *string {
	s := t.Format(dateLayout)
	return &s
}

func serializeProduct(p *models.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Color:        p.Color,
		Price:        p.Price,
		CoatingType:  p.CoatingType.Name,
		Nomenclature: p.CoatingType.Nomenclature,
	}
}

func serializeSeries(s *models.Series, withAnalysis bool) seriesResponse {
	resp := seriesResponse{
		ID:          s.ID,
		ProductID:   s.ProductID,
		ProductName: s.Product.Name,
		Name:        s.Name,
	}
	if s.ProductionDate != nil {
		resp.ProductionDate = fmtDate(*s.ProductionDate)
	}
	if s.ExpireDate != nil {
		resp.ExpireDate = fmtDate(*s.ExpireDate)
	}
	if withAnalysis {
		resp.Analysis = s.Analysis
	}
	return resp
}

// parseLimitOffset валидирует пагинацию: limit 1..200 (по умолчанию 50),
// offset >= 0.
func parseLimitOffset(c *fiber.Ctx) (int, int, error) {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "limit должен быть в диапазоне 1..200")
	}
	if offset < 0 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "offset не может быть отрицательным")
	}
	return limit, offset, nil
}

// ListProductsHandler отдаёт каталог продуктов.
// Фильтры: ?coating_type_id=, ?color= (принимает "RAL 9016"), ?search=,
// limit/offset. Горячий путь кэшируется в Redis.
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := parseLimitOffset(c)
		if err != nil {
			return err
		}

		cacheKey := fmt.Sprintf("catalog:products:%s", c.Request().URI().QueryString())
		var cached []productResponse
		if cache.GetJSON(c.UserContext(), cacheKey, &cached) {
			return c.JSON(cached)
		}

		query := database.DB.Preload("CoatingType").Model(&models.Product{})

		if ctID := c.QueryInt("coating_type_id"); ctID > 0 {
			query = query.Where("coating_type_id = ?", ctID)
		}
		if rawColor := c.Query("color"); rawColor != "" {
			color, ok := NormalizeColor(rawColor)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "Неверный формат цвета, ожидается код RAL")
			}
			query = query.Where("color = ?", color)
		}
		if search := c.Query("search"); search != "" {
			query = query.Where("name ILIKE ?", "%"+search+"%")
		}

		var products []models.Product
		if err := query.Order("id").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
			return err
		}

		resp := make([]productResponse, 0, len(products))
		for i := range products {
			resp = append(resp, serializeProduct(&products[i]))
		}
		cache.SetJSON(c.UserContext(), cacheKey, resp)
		return c.JSON(resp)
	}
}

// GetProductHandler возвращает продукт вместе с его сериями.
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := c.ParamsInt("id")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный ID продукта")
		}

		var product models.Product
		err = database.DB.
			Preload("CoatingType").
			Preload("Series", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
			First(&product, productID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Продукт не найден")
			}
			return err
		}

		resp := productDetailResponse{productResponse: serializeProduct(&product)}
		resp.Series = make([]seriesResponse, 0, len(product.Series))
		for i := range product.Series {
			s := product.Series[i]
			s.Product = product
			resp.Series = append(resp.Series, serializeSeries(&s, false))
		}
		return c.JSON(resp)
	}
}

type topProductRow struct {
	ProductID     uint `json:"product_id"`
	TotalQuantity int  `json:"total_quantity"`
}

type topProductResponse struct {
	productResponse
	TotalQuantity int `json:"total_quantity"`
}

// TopProductsHandler — продукты по суммарному заказанному количеству.
func TopProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		if limit <= 0 || limit > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "limit должен быть в диапазоне 1..100")
		}

		var rows []topProductRow
		err := database.DB.
			Table("order_items").
			Select("product_id, SUM(quantity) AS total_quantity").
			Group("product_id").
			Order("total_quantity DESC").
			Limit(limit).
			Scan(&rows).Error
		if err != nil {
			return err
		}

		resp := make([]topProductResponse, 0, len(rows))
		for _, row := range rows {
			var product models.Product
			if err := database.DB.Preload("CoatingType").First(&product, row.ProductID).Error; err != nil {
				continue
			}
			resp = append(resp, topProductResponse{
				productResponse: serializeProduct(&product),
				TotalQuantity:   row.TotalQuantity,
			})
		}
		return c.JSON(resp)
	}
}

// SearchProductsHandler ищет по названию или по коду RAL одним параметром q.
func SearchProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		if q == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Параметр q обязателен")
		}
		limit, offset, err := parseLimitOffset(c)
		if err != nil {
			return err
		}

		query := database.DB.Preload("CoatingType").Model(&models.Product{})
		if color, ok := NormalizeColor(q); ok {
			query = query.Where("color = ? OR name ILIKE ?", color, "%"+q+"%")
		} else {
			query = query.Where("name ILIKE ?", "%"+q+"%")
		}

		var products []models.Product
		if err := query.Order("id").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
			return err
		}

		resp := make([]productResponse, 0, len(products))
		for i := range products {
			resp = append(resp, serializeProduct(&products[i]))
		}
		return c.JSON(resp)
	}
}

// ListCoatingTypesHandler — справочник типов покрытий, кэшируется.
func ListCoatingTypesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		const cacheKey = "catalog:coating_types"
		var cached []coatingTypeResponse
		if cache.GetJSON(c.UserContext(), cacheKey, &cached) {
			return c.JSON(cached)
		}

		var types []models.CoatingType
		if err := database.DB.Order("id").Find(&types).Error; err != nil {
			return err
		}

		resp := make([]coatingTypeResponse, 0, len(types))
		for _, t := range types {
			resp = append(resp, coatingTypeResponse{ID: t.ID, Name: t.Name, Nomenclature: t.Nomenclature})
		}
		cache.SetJSON(c.UserContext(), cacheKey, resp)
		return c.JSON(resp)
	}
}

// ListSeriesHandler отдаёт серии, опционально по одному продукту, с анализами.
func ListSeriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := parseLimitOffset(c)
		if err != nil {
			return err
		}

		query := database.DB.
			Preload("Product").
			Preload("Analysis").
			Model(&models.Series{})
		if productID := c.QueryInt("product_id"); productID > 0 {
			query = query.Where("product_id = ?", productID)
		}

		var list []models.Series
		if err := query.Order("id").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
			return err
		}

		resp := make([]seriesResponse, 0, len(list))
		for i := range list {
			resp = append(resp, serializeSeries(&list[i], true))
		}
		return c.JSON(resp)
	}
}

// ListAnalysesHandler — паспорта качества, опционально по серии.
func ListAnalysesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Analysis{})
		if seriesID := c.QueryInt("series_id"); seriesID > 0 {
			query = query.Where("series_id = ?", seriesID)
		}

		var list []models.Analysis
		if err := query.Order("series_id").Find(&list).Error; err != nil {
			return err
		}
		return c.JSON(list)
	}
}

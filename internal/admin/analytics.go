package admin

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"primetop-backend/internal/database"
	"primetop-backend/internal/orders"
)

// Аналитика продаж: топы по сумме заказанного количества и выручке.
// Выручка = количество × целочисленная цена продукта, считается в decimal,
// отменённые заказы в счёт не идут.

type analyticsRow struct {
	EntityID    uint
	EntityName  string
	Quantity    int
	Price       int
	OrderID     uint
	OrderStatus string
}

type topEntry struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Revenue     string `json:"revenue"`
	OrdersCount int    `json:"orders_count"`
}

func topLimit(c *fiber.Ctx) (int, error) {
	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 100 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "limit должен быть в диапазоне 1..100")
	}
	return limit, nil
}

// aggregateTop сводит строки позиций в топ по сущности.
func aggregateTop(rows []analyticsRow, limit int) []topEntry {
	type acc struct {
		entry    topEntry
		revenue  decimal.Decimal
		orderIDs map[uint]struct{}
	}

	byID := map[uint]*acc{}
	order := []uint{}
	for _, row := range rows {
		if orders.IsCancelled(row.OrderStatus) {
			continue
		}
		a, ok := byID[row.EntityID]
		if !ok {
			a = &acc{
				entry:    topEntry{ID: row.EntityID, Name: row.EntityName},
				orderIDs: map[uint]struct{}{},
			}
			byID[row.EntityID] = a
			order = append(order, row.EntityID)
		}
		a.entry.Quantity += row.Quantity
		a.revenue = a.revenue.Add(
			decimal.NewFromInt(int64(row.Quantity)).Mul(decimal.NewFromInt(int64(row.Price))))
		a.orderIDs[row.OrderID] = struct{}{}
	}

	entries := make([]topEntry, 0, len(order))
	for _, id := range order {
		a := byID[id]
		a.entry.Revenue = a.revenue.StringFixed(2)
		a.entry.OrdersCount = len(a.orderIDs)
		entries = append(entries, a.entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Quantity != entries[j].Quantity {
			return entries[i].Quantity > entries[j].Quantity
		}
		return entries[i].ID < entries[j].ID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// TopProductsHandler строит топ продуктов по заказам.
func TopProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := topLimit(c)
		if err != nil {
			return err
		}

		var rows []analyticsRow
		err = database.DB.
			Table("order_items").
			Select(`products.id AS entity_id, products.name AS entity_name,
				order_items.quantity AS quantity, products.price AS price,
				orders.id AS order_id, orders.status AS order_status`).
			Joins("JOIN products ON products.id = order_items.product_id").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		return c.JSON(aggregateTop(rows, limit))
	}
}

// TopSeriesHandler строит топ серий по заказам, позиции без серии не участвуют.
func TopSeriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := topLimit(c)
		if err != nil {
			return err
		}

		var rows []analyticsRow
		err = database.DB.
			Table("order_items").
			Select(`series.id AS entity_id,
				COALESCE(series.name, products.name) AS entity_name,
				order_items.quantity AS quantity, products.price AS price,
				orders.id AS order_id, orders.status AS order_status`).
			Joins("JOIN series ON series.id = order_items.series_id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("order_items.series_id IS NOT NULL").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		return c.JSON(aggregateTop(rows, limit))
	}
}

// TopCoatingTypesHandler строит топ типов покрытий по заказам.
func TopCoatingTypesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := topLimit(c)
		if err != nil {
			return err
		}

		var rows []analyticsRow
		err = database.DB.
			Table("order_items").
			Select(`coating_types.id AS entity_id, coating_types.name AS entity_name,
				order_items.quantity AS quantity, products.price AS price,
				orders.id AS order_id, orders.status AS order_status`).
			Joins("JOIN products ON products.id = order_items.product_id").
			Joins("JOIN coating_types ON coating_types.id = products.coating_type_id").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		return c.JSON(aggregateTop(rows, limit))
	}
}

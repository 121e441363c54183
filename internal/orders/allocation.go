package orders

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"primetop-backend/internal/models"
)

// Deduction описывает, сколько списываем с конкретной складской строки.
type Deduction struct {
	StockID  uint
	Quantity float64
}

// planDeductions жадно планирует списание по упорядоченному
// списку строк. Строки уже отсортированы: сначала клиентские, потом общие,
// внутри группы по id. Возвращает nil, если остатков не хватает.
func planDeductions(rows []models.Stock, quantity float64) []Deduction {
	var available float64
	for _, r := range rows {
		available += r.Quantity
	}
	if available < quantity {
		return nil
	}

	deductions := make([]Deduction, 0, len(rows))
	remaining := quantity
	for _, r := range rows {
		if remaining <= 0 {
			break
		}
		take := r.Quantity
		if take > remaining {
			take = remaining
		}
		deductions = append(deductions, Deduction{StockID: r.ID, Quantity: take})
		remaining -= take
	}
	return deductions
}

// Allocate списывает quantity единиц серии seriesID в пользу клиента clientID.
// Вызывается строго внутри транзакции tx: кандидатные строки блокируются
// SELECT ... FOR UPDATE, поэтому параллельные заказы на одну серию
// выстраиваются в очередь и не уходят в минус.
//
// Порядок списания: сначала персональные остатки клиента, затем общий склад,
// внутри каждой группы по возрастанию id.
func Allocate(tx *gorm.DB, clientID, seriesID uint, quantity float64) ([]Deduction, error) {
	var clientRows []models.Stock
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("series_id = ? AND client_id = ? AND quantity > 0", seriesID, clientID).
		Order("id").
		Find(&clientRows).Error; err != nil {
		return nil, err
	}

	var publicRows []models.Stock
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("series_id = ? AND client_id IS NULL AND quantity > 0", seriesID).
		Order("id").
		Find(&publicRows).Error; err != nil {
		return nil, err
	}

	rows := append(clientRows, publicRows...)

	deductions := planDeductions(rows, quantity)
	if deductions == nil {
		var available float64
		for _, r := range rows {
			available += r.Quantity
		}
		return nil, &InsufficientStockError{
			SeriesID:  seriesID,
			Requested: quantity,
			Available: available,
		}
	}

	today := time.Now()
	for _, d := range deductions {
		if err := tx.Model(&models.Stock{}).
			Where("id = ?", d.StockID).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity - ?", d.Quantity),
				"updated_at": today,
			}).Error; err != nil {
			return nil, err
		}
	}

	return deductions, nil
}

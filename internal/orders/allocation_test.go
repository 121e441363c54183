package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primetop-backend/internal/models"
)

func stockRow(id uint, clientID *uint, quantity float64) models.Stock {
	return models.Stock{ID: id, ClientID: clientID, Quantity: quantity}
}

func clientPtr(id uint) *uint { return &id }

func TestPlanDeductions_SingleRowExactFit(t *testing.T) {
	rows := []models.Stock{stockRow(1, nil, 10)}

	plan := planDeductions(rows, 10)

	require.Len(t, plan, 1)
	assert.Equal(t, uint(1), plan[0].StockID)
	assert.Equal(t, 10.0, plan[0].Quantity)
}

func TestPlanDeductions_SpansMultipleRows(t *testing.T) {
	rows := []models.Stock{
		stockRow(1, nil, 3),
		stockRow(2, nil, 4),
		stockRow(3, nil, 5),
	}

	plan := planDeductions(rows, 9)

	require.Len(t, plan, 3)
	assert.Equal(t, 3.0, plan[0].Quantity)
	assert.Equal(t, 4.0, plan[1].Quantity)
	assert.Equal(t, 2.0, plan[2].Quantity)
}

func TestPlanDeductions_ConservesRequestedQuantity(t *testing.T) {
	rows := []models.Stock{
		stockRow(1, clientPtr(7), 1.5),
		stockRow(2, nil, 2.25),
		stockRow(3, nil, 8),
	}

	plan := planDeductions(rows, 6.75)

	require.NotNil(t, plan)
	var total float64
	for _, d := range plan {
		total += d.Quantity
	}
	assert.Equal(t, 6.75, total)
}

func TestPlanDeductions_ClientRowsDrainedFirst(t *testing.T) {
	// клиентские строки идут в пуле первыми, общий склад трогается
	// только когда персональные остатки исчерпаны
	rows := []models.Stock{
		stockRow(5, clientPtr(7), 2),
		stockRow(1, nil, 100),
	}

	plan := planDeductions(rows, 3)

	require.Len(t, plan, 2)
	assert.Equal(t, uint(5), plan[0].StockID)
	assert.Equal(t, 2.0, plan[0].Quantity)
	assert.Equal(t, uint(1), plan[1].StockID)
	assert.Equal(t, 1.0, plan[1].Quantity)
}

func TestPlanDeductions_NeverOverdrawsRow(t *testing.T) {
	rows := []models.Stock{
		stockRow(1, nil, 2),
		stockRow(2, nil, 2),
		stockRow(3, nil, 2),
	}

	plan := planDeductions(rows, 5)

	require.NotNil(t, plan)
	byID := map[uint]float64{1: 2, 2: 2, 3: 2}
	for _, d := range plan {
		assert.LessOrEqual(t, d.Quantity, byID[d.StockID])
	}
}

func TestPlanDeductions_InsufficientStock(t *testing.T) {
	rows := []models.Stock{
		stockRow(1, nil, 3),
		stockRow(2, nil, 4),
	}

	assert.Nil(t, planDeductions(rows, 7.5))
}

func TestPlanDeductions_EmptyPool(t *testing.T) {
	assert.Nil(t, planDeductions(nil, 1))
}

func TestPlanDeductions_StopsAfterFulfilling(t *testing.T) {
	rows := []models.Stock{
		stockRow(1, nil, 10),
		stockRow(2, nil, 10),
	}

	plan := planDeductions(rows, 10)

	require.Len(t, plan, 1)
	assert.Equal(t, uint(1), plan[0].StockID)
}

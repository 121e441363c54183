package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateTop_SumsQuantityAndRevenue(t *testing.T) {
	rows := []analyticsRow{
		{EntityID: 1, EntityName: "Грунт RAL 9016", Quantity: 3, Price: 1200, OrderID: 10, OrderStatus: "Доставлен"},
		{EntityID: 1, EntityName: "Грунт RAL 9016", Quantity: 2, Price: 1200, OrderID: 11, OrderStatus: "В ожидании"},
		{EntityID: 2, EntityName: "Эмаль RAL 5002", Quantity: 1, Price: 900, OrderID: 10, OrderStatus: "Доставлен"},
	}

	top := aggregateTop(rows, 10)

	require.Len(t, top, 2)
	assert.Equal(t, uint(1), top[0].ID)
	assert.Equal(t, 5, top[0].Quantity)
	assert.Equal(t, "6000.00", top[0].Revenue)
	assert.Equal(t, 2, top[0].OrdersCount)
	assert.Equal(t, "900.00", top[1].Revenue)
}

func TestAggregateTop_SkipsCancelledOrders(t *testing.T) {
	rows := []analyticsRow{
		{EntityID: 1, EntityName: "Грунт", Quantity: 50, Price: 100, OrderID: 1, OrderStatus: "Отменён"},
		{EntityID: 1, EntityName: "Грунт", Quantity: 2, Price: 100, OrderID: 2, OrderStatus: "Доставлен"},
	}

	top := aggregateTop(rows, 10)

	require.Len(t, top, 1)
	assert.Equal(t, 2, top[0].Quantity)
	assert.Equal(t, "200.00", top[0].Revenue)
	assert.Equal(t, 1, top[0].OrdersCount)
}

func TestAggregateTop_OrdersByQuantityAndAppliesLimit(t *testing.T) {
	rows := []analyticsRow{
		{EntityID: 1, EntityName: "A", Quantity: 1, Price: 1, OrderID: 1},
		{EntityID: 2, EntityName: "B", Quantity: 9, Price: 1, OrderID: 2},
		{EntityID: 3, EntityName: "C", Quantity: 5, Price: 1, OrderID: 3},
	}

	top := aggregateTop(rows, 2)

	require.Len(t, top, 2)
	assert.Equal(t, uint(2), top[0].ID)
	assert.Equal(t, uint(3), top[1].ID)
}

func TestAggregateTop_Empty(t *testing.T) {
	assert.Empty(t, aggregateTop(nil, 5))
}

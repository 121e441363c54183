package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primetop-backend/internal/models"
)

func TestSerialize_FullOrder(t *testing.T) {
	seriesID := uint(3)
	seriesName := "П-124"
	note := DefaultHistoryNote
	shipped := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	order := &models.Order{
		ID:        15,
		ClientID:  7,
		Client:    models.Client{ID: 7, Name: "СтройТорг"},
		Status:    "Отгружен",
		CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		ShippedAt: &shipped,
		Items: []models.OrderItem{
			{
				ID:        1,
				ProductID: 2,
				Product:   models.Product{ID: 2, Name: "Грунт RAL 9016", Color: 9016},
				SeriesID:  &seriesID,
				Series:    &models.Series{ID: 3, Name: &seriesName},
				Quantity:  4,
			},
			{
				ID:        2,
				ProductID: 5,
				Product:   models.Product{ID: 5, Name: "Эмаль", Color: 5002},
				Quantity:  1,
			},
		},
		History: []models.OrderStatusHistory{
			{FromStatus: StatusCreated, ToStatus: StatusPending, ChangedAt: "2026-02-01 09:00:00", Note: &note},
			{FromStatus: StatusPending, ToStatus: "Отгружен", ChangedAt: "2026-02-10 12:00:00"},
		},
	}

	resp := Serialize(order)

	assert.Equal(t, uint(15), resp.ID)
	assert.Equal(t, "СтройТорг", resp.ClientName)
	assert.Equal(t, "2026-02-01", resp.CreatedAt)
	require.NotNil(t, resp.ShippedAt)
	assert.Equal(t, "2026-02-10", *resp.ShippedAt)
	assert.Nil(t, resp.DeliveredAt)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Грунт RAL 9016", resp.Items[0].ProductName)
	require.NotNil(t, resp.Items[0].SeriesName)
	assert.Equal(t, "П-124", *resp.Items[0].SeriesName)
	assert.Nil(t, resp.Items[1].SeriesID)
	assert.Nil(t, resp.Items[1].SeriesName)

	// история сериализуется в порядке наступления событий
	require.Len(t, resp.History, 2)
	assert.Equal(t, StatusCreated, resp.History[0].FromStatus)
	assert.Equal(t, "Отгружен", resp.History[1].ToStatus)
}

func TestSerialize_EmptyCollections(t *testing.T) {
	order := &models.Order{ID: 1, ClientID: 2, Status: StatusPending, CreatedAt: time.Now()}

	resp := Serialize(order)

	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
	assert.NotNil(t, resp.History)
	assert.Empty(t, resp.History)
}

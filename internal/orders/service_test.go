package orders

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primetop-backend/internal/models"
)

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusPending, normalizeStatus(""))
	assert.Equal(t, StatusPending, normalizeStatus("   \t "))
	assert.Equal(t, "Доставлен", normalizeStatus(" Доставлен "))

	long := strings.Repeat("с", 40)
	assert.Len(t, []rune(normalizeStatus(long)), 30)
}

func TestInitialHistory(t *testing.T) {
	order := &models.Order{ID: 7, Status: StatusPending}
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	h := initialHistory(order, "", now)
	assert.Equal(t, uint(7), h.OrderID)
	assert.Equal(t, StatusCreated, h.FromStatus)
	assert.Equal(t, StatusPending, h.ToStatus)
	assert.Equal(t, "2026-03-15 10:30:00", h.ChangedAt)
	require.NotNil(t, h.Note)
	assert.Equal(t, DefaultHistoryNote, *h.Note)

	h = initialHistory(order, CartHistoryNote, now)
	require.NotNil(t, h.Note)
	assert.Equal(t, CartHistoryNote, *h.Note)
}

func TestPlanStatusChangeSameStatusNoRow(t *testing.T) {
	order := &models.Order{ID: 3, Status: StatusPending}
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	assert.Nil(t, planStatusChange(order, StatusPending, nil, now))
}

func TestPlanStatusChangeTransition(t *testing.T) {
	order := &models.Order{ID: 3, Status: StatusPending}
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	h := planStatusChange(order, "Доставлен", nil, now)
	require.NotNil(t, h)
	assert.Equal(t, uint(3), h.OrderID)
	assert.Equal(t, StatusPending, h.FromStatus)
	assert.Equal(t, "Доставлен", h.ToStatus)
	assert.Equal(t, "2026-03-15 10:30:00", h.ChangedAt)
	// планировщик сам заказ не трогает
	assert.Equal(t, StatusPending, order.Status)
}

func TestPlanStatusChangeNote(t *testing.T) {
	order := &models.Order{ID: 3, Status: StatusPending}
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	// без заметки от вызывающего колонка остаётся пустой
	h := planStatusChange(order, "Отгружен", nil, now)
	require.NotNil(t, h)
	assert.Nil(t, h.Note)

	blank := "   "
	h = planStatusChange(order, "Отгружен", &blank, now)
	require.NotNil(t, h)
	assert.Nil(t, h.Note)

	note := "Отгружено со склада №2, машина уже в пути к клиенту"
	h = planStatusChange(order, "Отгружен", &note, now)
	require.NotNil(t, h)
	require.NotNil(t, h.Note)
	assert.Len(t, []rune(*h.Note), 30)
}

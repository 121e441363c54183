package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDelivered(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"Доставлен", true},
		{"доставлено", true},
		{"Delivered", true},
		{"Заказ доставлен клиенту", true},
		{"В ожидании", false},
		{"Отменён", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDelivered(tt.status), "статус %q", tt.status)
	}
}

func TestIsCancelled(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"Отменён", true},
		{"отменен", true},
		{"Отменено клиентом", true},
		{"Cancelled", true},
		{"canceled", true},
		{"Доставлен", false},
		{"В ожидании", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCancelled(tt.status), "статус %q", tt.status)
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "привет", Clip("привет", 30))
	assert.Equal(t, "прив", Clip("привет", 4))
	assert.Equal(t, "", Clip("", 10))
	// лимит считается в рунах, не в байтах
	assert.Equal(t, "ОтменаОтменаОтменаОтменаОтмена", Clip("ОтменаОтменаОтменаОтменаОтменаОтмена", 30))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", d.Format("2006-01-02"))

	d, err = ParseDate("2026-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", d.Format("2006-01-02"))

	_, err = ParseDate("15.03.2026")
	assert.Error(t, err)
}

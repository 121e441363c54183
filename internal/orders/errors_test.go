package orders

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"empty order", ErrEmptyOrder, fiber.StatusBadRequest},
		{"validation", &ValidationError{Msg: "количество"}, fiber.StatusBadRequest},
		{"not found", &NotFoundError{Entity: "серия", ID: 3}, fiber.StatusNotFound},
		{"series mismatch", &SeriesProductMismatchError{SeriesID: 1, ProductID: 2}, fiber.StatusBadRequest},
		{"insufficient stock", &InsufficientStockError{SeriesID: 1, Requested: 5, Available: 2}, fiber.StatusBadRequest},
		{"conflict", &ConflictError{Msg: "занято"}, fiber.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := HTTPError(tt.err)
			var fe *fiber.Error
			require.ErrorAs(t, mapped, &fe)
			assert.Equal(t, tt.code, fe.Code)
		})
	}
}

func TestHTTPError_PassesUnknownErrorsThrough(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Equal(t, plain, HTTPError(plain))
	assert.NoError(t, HTTPError(nil))
}

func TestInsufficientStockError_MessageCarriesAmounts(t *testing.T) {
	err := &InsufficientStockError{SeriesID: 12, Requested: 7.5, Available: 3}
	assert.Contains(t, err.Error(), "7.5")
	assert.Contains(t, err.Error(), "3")
	assert.Contains(t, err.Error(), "12")
}

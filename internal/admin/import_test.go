package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImportRow_Valid(t *testing.T) {
	row, err := parseImportRow([]string{"12", "25.5", "3"})
	require.NoError(t, err)
	assert.Equal(t, uint(12), row.SeriesID)
	assert.Equal(t, 25.5, row.Quantity)
	require.NotNil(t, row.ClientID)
	assert.Equal(t, uint(3), *row.ClientID)
}

func TestParseImportRow_PublicStock(t *testing.T) {
	row, err := parseImportRow([]string{"12", "100"})
	require.NoError(t, err)
	assert.Nil(t, row.ClientID)

	row, err = parseImportRow([]string{"12", "100", "  "})
	require.NoError(t, err)
	assert.Nil(t, row.ClientID)
}

func TestParseImportRow_CommaDecimalSeparator(t *testing.T) {
	row, err := parseImportRow([]string{"5", "12,75"})
	require.NoError(t, err)
	assert.Equal(t, 12.75, row.Quantity)
}

func TestParseImportRow_Invalid(t *testing.T) {
	tests := [][]string{
		{"12"},
		{"abc", "10"},
		{"0", "10"},
		{"12", "-5"},
		{"12", "много"},
		{"12", "10", "ноль"},
	}
	for _, row := range tests {
		_, err := parseImportRow(row)
		assert.Error(t, err, "строка %v", row)
	}
}

func TestIsImportHeader(t *testing.T) {
	assert.True(t, isImportHeader([]string{"Серия", "Количество"}))
	assert.True(t, isImportHeader([]string{"SERIES ID", "QTY"}))
	assert.False(t, isImportHeader([]string{"12", "100"}))
	assert.False(t, isImportHeader(nil))
}

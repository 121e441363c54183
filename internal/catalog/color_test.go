package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"9016", 9016, true},
		{"RAL 9016", 9016, true},
		{"ral9016", 9016, true},
		{"Ral  7035", 7035, true},
		{"цвет RAL 5002", 5002, true},
		{"901", 0, false},
		{"белый", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := NormalizeColor(tt.raw)
		assert.Equal(t, tt.ok, ok, "вход %q", tt.raw)
		if tt.ok {
			assert.Equal(t, tt.want, got, "вход %q", tt.raw)
		}
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primetop-backend/internal/models"
)

const testSecret = "test-secret-key-for-testing-purposes"

func testUser() *models.User {
	return &models.User{
		ID:       42,
		ClientID: 7,
		Email:    "user@example.com",
		IsAdmin:  true,
	}
}

func parseTestToken(t *testing.T, token string) *JWTCustomClaims {
	t.Helper()
	claims := &JWTCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return claims
}

func TestGenerateToken_Roundtrip(t *testing.T) {
	token, err := GenerateToken(testSecret, time.Hour, testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := parseTestToken(t, token)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, uint(7), claims.ClientID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateToken_ExpiryHonorsTTL(t *testing.T) {
	token, err := GenerateToken(testSecret, 2*time.Hour, testUser())
	require.NoError(t, err)

	claims := parseTestToken(t, token)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now().Add(time.Hour)))
	assert.True(t, claims.ExpiresAt.Before(time.Now().Add(3*time.Hour)))
}

func TestGenerateToken_UniqueTokenIDs(t *testing.T) {
	first, err := GenerateToken(testSecret, time.Hour, testUser())
	require.NoError(t, err)
	second, err := GenerateToken(testSecret, time.Hour, testUser())
	require.NoError(t, err)

	assert.NotEqual(t, parseTestToken(t, first).ID, parseTestToken(t, second).ID)
}

func TestGenerateToken_RejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, time.Hour, testUser())
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(token, &JWTCustomClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("другой-секрет"), nil
	})
	assert.Error(t, err)
}

package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/parkshare/parkshare-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		Model:    gorm.Model{ID: 42},
		Email:    "ama@example.com",
		UserType: models.UserTypeOwner,
	}
	tokenString, err := GenerateToken(user)
	require.NoError(t, err)

	token, err := ValidateToken(tokenString)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["id"])
	assert.Equal(t, "ama@example.com", claims["email"])
	assert.Equal(t, "owner", claims["userType"])
}

func TestValidateToken_RejectsUnsignedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := jwt.MapClaims{
		"id":       uint(42),
		"userType": "renter",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateToken_RejectsWrongAlgorithm(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := jwt.MapClaims{
		"id":       uint(42),
		"userType": "renter",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ValidateToken(tokenString)
	assert.Error(t, err)
}

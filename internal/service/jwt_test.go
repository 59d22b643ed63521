package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/souqkw/marketplace/internal/model"
	"gorm.io/gorm"
)

func TestGenerateAndValidateToken(t *testing.T) {
	jwtService := NewJWTService("test-secret", time.Hour)
	user := &model.User{Model: gorm.Model{ID: 42}, Phone: "12345678", TokenVersion: 3}

	token, err := jwtService.GenerateToken(user)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)

	userID, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	require.Equal(t, uint(42), userID)

	version, err := TokenVersion(claims)
	require.NoError(t, err)
	require.Equal(t, 3, version)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)
	user := &model.User{Model: gorm.Model{ID: 1}, Phone: "12345678", TokenVersion: 1}

	token, err := issuer.GenerateToken(user)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	jwtService := NewJWTService("test-secret", time.Hour)

	_, err := jwtService.ValidateToken("not-a-token")
	require.Error(t, err)
}

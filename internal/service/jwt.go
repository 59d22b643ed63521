package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/souqkw/marketplace/internal/model"
)

// JWTService issues and validates bearer tokens. Each token carries the
// user's token_version; bumping the version on logout invalidates every
// outstanding token at once.
type JWTService struct {
	secretKey string
	expiry    time.Duration
}

func NewJWTService(secretKey string, expiry time.Duration) *JWTService {
	return &JWTService{
		secretKey: secretKey,
		expiry:    expiry,
	}
}

// Expiry returns the access-token lifetime.
func (s *JWTService) Expiry() time.Duration {
	return s.expiry
}

// GenerateToken creates a new bearer token for the user.
func (s *JWTService) GenerateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":       user.ID,
		"phone":         user.Phone,
		"token_version": user.TokenVersion,
		"exp":           time.Now().Add(s.expiry).Unix(),
		"iat":           time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates the token signature and expiry and returns the
// claims.
func (s *JWTService) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}

	return nil, errors.New("invalid token")
}

// TokenVersion extracts the token_version claim.
func TokenVersion(claims *jwt.MapClaims) (int, error) {
	raw, ok := (*claims)["token_version"]
	if !ok {
		return 0, errors.New("token version missing")
	}

	version, ok := raw.(float64)
	if !ok {
		return 0, errors.New("invalid token version format")
	}

	return int(version), nil
}

// UserIDFromClaims extracts the user_id claim.
func UserIDFromClaims(claims *jwt.MapClaims) (uint, error) {
	raw, ok := (*claims)["user_id"]
	if !ok {
		return 0, errors.New("user id missing")
	}

	id, ok := raw.(float64)
	if !ok {
		return 0, errors.New("invalid user id format")
	}

	return uint(id), nil
}

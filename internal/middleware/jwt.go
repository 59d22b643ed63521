package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/souqkw/marketplace/internal/constants"
	"github.com/souqkw/marketplace/internal/repository"
	"github.com/souqkw/marketplace/internal/service"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"go.uber.org/zap"
)

type JWTMiddleware struct {
	jwtService *service.JWTService
	userRepo   repository.UserRepository
}

func NewJWTMiddleware(jwtService *service.JWTService, userRepo repository.UserRepository) *JWTMiddleware {
	return &JWTMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
	c.Abort()
}

// RequireAuth validates the bearer token and loads the user id into both
// the gin context and the request context. The token_version claim is
// checked against the stored user so logout-everywhere takes effect
// immediately.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		userID, err := service.UserIDFromClaims(claims)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		ctx := c.Request.Context()
		user, err := m.userRepo.GetByID(ctx, userID)
		if err != nil {
			logger.GetLogger().Warn("Token user not found",
				zap.Uint("user_id", userID),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		tokenVersion, err := service.TokenVersion(claims)
		if err != nil || tokenVersion != user.TokenVersion {
			logger.GetLogger().Warn("Token version mismatch, token revoked",
				zap.Uint("user_id", userID))
			abortUnauthorized(c)
			return
		}

		c.Set(string(constants.CtxKeyUserID), userID)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(ctx, userID))

		c.Next()
	}
}

// OptionalAuth loads the user id when a valid token is present but never
// rejects the request.
func (m *JWTMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			c.Next()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenParts[1])
		if err != nil {
			c.Next()
			return
		}

		userID, err := service.UserIDFromClaims(claims)
		if err != nil {
			c.Next()
			return
		}

		c.Set(string(constants.CtxKeyUserID), userID)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get(string(constants.CtxKeyUserID))
	if !exists {
		return 0, false
	}
	id, ok := raw.(uint)
	return id, ok
}

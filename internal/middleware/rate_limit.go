package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/souqkw/marketplace/internal/constants"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/pkg/logger"
	"github.com/souqkw/marketplace/pkg/store"
	"go.uber.org/zap"
)

// RateLimit applies a fixed-window limit per client ip and route, counted
// in the shared TTL store so the limit holds across restarts when the
// store is redis. Intended for the OTP-issuing endpoints.
func RateLimit(kv store.KV, maxRequest int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s%s:%s", constants.StoreKeyRateLimit, c.FullPath(), c.ClientIP())

		count, err := kv.Incr(c.Request.Context(), key, window)
		if err != nil {
			// Never block traffic because the counter store is down.
			logger.GetLogger().Warn("Rate limit counter unavailable",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(maxRequest) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequest))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > int64(maxRequest) {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
				zap.Int64("current_requests", count),
				zap.Int("max_requests", maxRequest))

			c.JSON(http.StatusTooManyRequests,
				constants.BuildErrorResponse(apperrors.ErrTooManyRequests.Message, gin.H{
					"retry_after": window.Seconds(),
				}))
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/service"
	"github.com/acadops/registrar-api/pkg/config"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
	"github.com/acadops/registrar-api/pkg/response"
)

// LookupRateLimit throttles the public result lookup with a fixed window
// counter in Redis, keyed by client IP. The limiter fails open: when Redis
// is unreachable the request proceeds rather than blocking the public
// endpoint on infrastructure health.
func LookupRateLimit(client *redis.Client, cfg config.LookupConfig, metricsSvc *service.MetricsService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc != nil {
			defer func() { metricsSvc.CountLookup(c.Writer.Status() == appErrors.ErrRateLimited.Status) }()
		}
		if !cfg.RateLimitEnabled || client == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("lookup:rl:%s", c.ClientIP())
		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(c.Request.Context(), key, cfg.RateLimitWindow).Err(); err != nil {
				logger.Warn("failed to set rate limit window", zap.Error(err))
			}
		}
		if count > int64(cfg.RateLimitPerMin) {
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}

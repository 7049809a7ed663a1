package middlewares

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"voyagemate/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit allows limit requests per window for each client IP under name.
// Counting happens in redis, with the window TTL set in the same transaction
// as the increment; when redis is unavailable requests go through.
func RateLimit(client redis.Cmdable, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if client == nil || limit <= 0 {
			ctx.Next()
			return
		}
		key := fmt.Sprintf("rate_limit:%s:%s", name, ctx.ClientIP())
		var incr *redis.IntCmd
		_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, window)
			return nil
		})
		if err != nil {
			logger.L.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
			ctx.Next()
			return
		}
		count := incr.Val()
		ctx.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if count > int64(limit) {
			ctx.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests."})
			return
		}
		ctx.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-count, 10))
		ctx.Next()
	}
}

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyCacheKey = "idempotency_cache_key"
	IdempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL  = 30 * time.Second
	IdempotencyCacheTTL = 24 * time.Hour
)

var ErrRequestInProgress = apperror.New(
	apperror.CodeConflict,
	"a request with this Idempotency-Key is still being processed",
	http.StatusConflict,
)

// Idempotency replays a cached response for a repeated Idempotency-Key and
// rejects concurrent duplicates. Handlers store the response under
// IdempotencyCacheKey and release IdempotencyLockKey when done.
func Idempotency(rdb *redis.Client, logger ...*zap.Logger) gin.HandlerFunc {
	log := zap.L().Named("middleware.idempotency")
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("middleware.idempotency")
	}

	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString("user_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"
		ctx := c.Request.Context()

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached any
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				log.Debug("idempotent replay", zap.String("key", idempKey))
				response.Success(c, http.StatusOK, cached, nil)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.FromError(c, ErrRequestInProgress)
			c.Abort()
			return
		}

		c.Set(IdempotencyCacheKey, cacheKey)
		c.Set(IdempotencyLockKey, lockKey)

		c.Next()
	}
}

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gradcheck/backend/pkg/response"
)

// Limiter 고정 창 요청 수 제한 (pkg/redis.Client 가 구현)
type Limiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, time.Duration, error)
}

// RateLimit Redis 기반 요청 수 제한 미들웨어
// limit: 창 안에서 허용하는 최대 요청 수
// window: 창 길이
// limiter 가 nil 이면 제한 없이 통과시킨다
func RateLimit(limiter Limiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", c.FullPath(), c.ClientIP())
		allowed, remaining, ttl, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 오류 시 통과
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			if ttl > 0 {
				c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())+1))
			}
			response.Error(c, http.StatusTooManyRequests, 10004, "요청이 너무 많습니다. 잠시 후 다시 시도하세요")
			c.Abort()
			return
		}

		c.Next()
	}
}

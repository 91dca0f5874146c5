package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gradcheck/backend/pkg/metrics"
)

// Metrics 요청 수와 처리 시간을 라우트 템플릿 단위로 기록한다
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

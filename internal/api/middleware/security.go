package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// apiPathPrefix 성적·학번이 담기는 응답 경로
const apiPathPrefix = "/api/"

// SecurityHeaders 보안 응답 헤더 미들웨어.
// API 응답은 브라우저·프록시 캐시에 남기지 않는다 (엑셀 내보내기 포함).
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if strings.HasPrefix(c.Request.URL.Path, apiPathPrefix) {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
		}

		c.Next()
	}
}

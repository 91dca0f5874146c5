package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gradcheck/backend/pkg/response"
)

// BodyLimit 요청 본문 크기 제한 미들웨어
// maxBytes: 허용하는 최대 본문 바이트 수 (예: 1<<20 = 1MB)
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "요청 본문이 너무 큽니다")
			c.Abort()
			return
		}

		// Content-Length 가 없는 chunked 요청은 읽는 도중에 끊는다
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}

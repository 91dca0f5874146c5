package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// quietPaths 성공 시 Debug 로만 남기는 경로 (헬스 체크, 메트릭 수집)
var quietPaths = map[string]bool{"/health": true, "/metrics": true}

// Logger 요청 로그 미들웨어 (zap 구조화 로그).
// route 는 라우트 템플릿, 인증된 요청이면 학번과 역할을 함께 남긴다.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := []zap.Field{
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if sid := c.GetString("student_id"); sid != "" {
			fields = append(fields, zap.String("student_id", sid), zap.String("role", c.GetString("role")))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
		}

		switch {
		case status >= 500:
			logger.Error("요청 처리 실패", fields...)
		case status == 401 || status == 403:
			logger.Warn("인증·권한 거부", fields...)
		case status >= 400:
			logger.Warn("클라이언트 오류", fields...)
		case quietPaths[path]:
			logger.Debug("요청 완료", fields...)
		default:
			logger.Info("요청 완료", fields...)
		}
	}
}

package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gradcheck/backend/config"
	"gradcheck/backend/internal/api/handler"
	"gradcheck/backend/internal/api/middleware"
	"gradcheck/backend/internal/model"
	"gradcheck/backend/pkg/jwt"
	"gradcheck/backend/pkg/metrics"
	"gradcheck/backend/pkg/redis"
)

// Setup Gin 라우터 초기화. rdb 가 nil 이면 토큰 폐기 확인과 요청 수 제한을 끈다.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		blacklist middleware.Blacklist
		limiter   middleware.Limiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}
	rateLimit := middleware.RateLimit(limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	r := gin.New()

	// ── 전역 미들웨어 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))
	r.Use(middleware.Metrics(m))

	// ── 헬스 체크·메트릭 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 인증 모듈 (인증 불필요)
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", rateLimit, h.Auth.Signup)
			auth.POST("/login", rateLimit, h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 인증 필요
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 사용자 모듈
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetMe)
				users.PUT("/me", h.User.UpdateMe)
				users.PUT("/me/password", h.User.ChangePassword)
				users.GET("", adminOnly, h.User.ListUsers)
			}

			// 성적표 모듈 (본인 또는 관리자, Service 에서 확인)
			transcripts := authorized.Group("/transcripts")
			{
				transcripts.POST("/:user_id", h.Transcript.Submit)
				transcripts.POST("/:user_id/import", rateLimit, h.Transcript.Import)
				transcripts.POST("/:user_id/jobs", h.Transcript.CreateJob)
				transcripts.PUT("/results/:id", adminOnly, h.Transcript.ApplyWorkerResult)
				transcripts.GET("/status/:user_id", h.Transcript.Status)
				transcripts.GET("/parsed/:user_id", h.Transcript.Parsed)
			}

			// 졸업 판정 모듈
			analysis := authorized.Group("/analysis/:user_id")
			{
				analysis.GET("/status", h.Analysis.Evaluate)
				analysis.GET("/credits", h.Analysis.Credits)
				analysis.GET("/courses", h.Analysis.CategoryCourses)
				analysis.GET("/drbol", h.Analysis.Drbol)
				analysis.GET("/missing-required", h.Analysis.MissingRequired)
				analysis.GET("/roadmap", h.Analysis.Roadmap)
			}

			// 학기별 과목 모듈
			semesters := authorized.Group("/semesters/:user_id")
			{
				semesters.GET("", h.Semester.Overview)
				semesters.GET("/:semester", h.Semester.Detail)
				semesters.GET("/:semester/missing-required", h.Semester.MissingRequired)
			}

			// 졸업 요건 모듈 (쓰기는 관리자)
			requirements := authorized.Group("/requirements")
			{
				requirements.GET("", h.Requirement.ListRequirements)
				requirements.GET("/:id", h.Requirement.GetRequirement)
				requirements.POST("", adminOnly, h.Requirement.CreateRequirement)
				requirements.PUT("/:id", adminOnly, h.Requirement.UpdateRequirement)
				requirements.DELETE("/:id", adminOnly, h.Requirement.DeleteRequirement)
			}

			// 내보내기 모듈
			export := authorized.Group("/export")
			{
				export.GET("/analysis/:user_id", h.Export.ExportAnalysis)
			}
		}
	}

	return r
}

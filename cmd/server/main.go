package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"gradcheck/backend/config"
	"gradcheck/backend/internal/api/handler"
	"gradcheck/backend/internal/api/router"
	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/repository"
	"gradcheck/backend/internal/service"
	"gradcheck/backend/pkg/database"
	"gradcheck/backend/pkg/jwt"
	applogger "gradcheck/backend/pkg/logger"
	"gradcheck/backend/pkg/metrics"
	"gradcheck/backend/pkg/redis"
)

func main() {
	// 1. 설정 로드
	cfg, err := config.Load(os.Getenv("GRADCHECK_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로거 초기화
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "로거 초기화 실패: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("애플리케이션 시작 중...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 데이터베이스 연결
	db, err := database.NewDB(&cfg.Database, &cfg.Log, logger)
	if err != nil {
		logger.Fatal("데이터베이스 연결 실패", zap.Error(err))
	}
	logger.Info("데이터베이스 연결 성공")

	// 3.1 마이그레이션
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("sql.DB 획득 실패", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("데이터베이스 마이그레이션 실패", zap.Error(err))
	}

	// 4. Redis 연결 (실패해도 캐시·토큰 폐기·요청 제한 없이 계속 기동)
	var (
		cache     service.Cache
		blacklist service.TokenBlacklist
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 연결 실패, 캐시와 토큰 블랙리스트를 끕니다", zap.Error(err))
		rdb = nil
	} else {
		blacklist = rdb
		if cfg.Cache.Enabled {
			cache = rdb
		}
	}

	// 5. 메트릭 레지스트리
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// 6. JWT 관리자
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 의존성 주입: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(service.Deps{
		Config:    cfg,
		Repo:      repo,
		JWT:       jwtMgr,
		Cache:     cache,
		Blacklist: blacklist,
		Metrics:   m,
		Logger:    logger,
	})
	if err := dto.RegisterValidators(); err != nil {
		logger.Fatal("검증 규칙 등록 실패", zap.Error(err))
	}
	h := handler.NewHandler(cfg, svc)

	// 8. 라우터
	engine := router.Setup(cfg, h, jwtMgr, rdb, m, reg, logger)

	// 9. HTTP 서버 기동 (graceful shutdown)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 서버 시작", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 서버 오류", zap.Error(err))
		}
	}()

	// 10. 종료 신호 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("종료 신호 수신, 서버를 정리합니다", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("서버 종료 오류", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("서버 종료 완료")
}

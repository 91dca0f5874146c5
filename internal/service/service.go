package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"gradcheck/backend/config"
	"gradcheck/backend/internal/model"
	"gradcheck/backend/internal/repository"
	"gradcheck/backend/pkg/jwt"
	"gradcheck/backend/pkg/metrics"
)

// ErrForbidden 다른 사용자의 데이터 접근
var ErrForbidden = errors.New("접근 권한이 없습니다")

// Caller 요청을 보낸 인증 사용자
type Caller struct {
	UserID string
	Role   string
}

// authorize 학생은 본인 데이터만, 관리자는 모든 데이터에 접근할 수 있다
func (c Caller) authorize(userID string) error {
	if c.Role == model.RoleAdmin || (c.UserID != "" && c.UserID == userID) {
		return nil
	}
	return ErrForbidden
}

// Cache 판정 결과 캐시 (pkg/redis.Client 가 구현)
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// TokenBlacklist 로그아웃된 토큰 저장소 (pkg/redis.Client 가 구현)
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Deps Service 생성에 필요한 외부 의존성. Cache·Blacklist 는 nil 일 수 있다.
type Deps struct {
	Config    *config.Config
	Repo      *repository.Repository
	JWT       *jwt.Manager
	Cache     Cache
	Blacklist TokenBlacklist
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Service 모든 Service 의 집합
type Service struct {
	Auth        AuthService
	User        UserService
	Requirement RequirementService
	Transcript  TranscriptService
	Analysis    AnalysisService
	Semester    SemesterService
	Export      ExportService
}

// NewService Service 집합 생성
func NewService(d Deps) *Service {
	loader := newStudentLoader(d.Repo, d.Logger)
	analysis := NewAnalysisService(loader, d.Cache, d.Config.Cache, d.Metrics, d.Logger)
	return &Service{
		Auth:        NewAuthService(d.Repo, d.JWT, d.Blacklist, d.Logger),
		User:        NewUserService(d.Repo, d.Logger),
		Requirement: NewRequirementService(d.Repo, d.Cache, d.Logger),
		Transcript:  NewTranscriptService(d.Repo, d.Cache, d.Metrics, d.Logger),
		Analysis:    analysis,
		Semester:    NewSemesterService(loader, d.Logger),
		Export:      NewExportService(analysis, d.Logger),
	}
}

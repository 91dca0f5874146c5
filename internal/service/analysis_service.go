package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gradcheck/backend/config"
	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/graduation"
	"gradcheck/backend/internal/model"
	pkgerrors "gradcheck/backend/pkg/errors"
	"gradcheck/backend/pkg/metrics"
)

// ErrInvalidCategory 알 수 없는 이수 구분
var ErrInvalidCategory = fmt.Errorf("알 수 없는 이수 구분입니다: %w", graduation.ErrInvalidData)

// AnalysisService 졸업 판정 업무 인터페이스
type AnalysisService interface {
	Evaluate(ctx context.Context, caller Caller, userID string, includeGeneral bool) (*graduation.EvaluationResult, error)
	Credits(ctx context.Context, caller Caller, userID string) (*graduation.Credits, error)
	CategoryCourses(ctx context.Context, caller Caller, userID, category string) (*dto.CategoryCoursesResponse, error)
	Drbol(ctx context.Context, caller Caller, userID string) (*graduation.Distribution, error)
	MissingRequired(ctx context.Context, caller Caller, userID string) (*dto.MissingRequiredResponse, error)
	Roadmap(ctx context.Context, caller Caller, userID string) (*dto.RoadmapResponse, error)
	// Report 엑셀 보고서용 전체 판정 자료
	Report(ctx context.Context, caller Caller, userID string) (*Report, error)
}

// Report 한 학생의 판정 자료 묶음
type Report struct {
	User    *model.User
	Spec    graduation.RequirementSpec
	Result  graduation.EvaluationResult
	Roadmap []graduation.RoadmapEntry
	Courses []graduation.CourseRecord
}

type analysisService struct {
	loader   *studentLoader
	cache    Cache
	cacheCfg config.CacheConfig
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewAnalysisService AnalysisService 생성. cache 가 nil 이면 매번 계산한다.
func NewAnalysisService(
	loader *studentLoader,
	cache Cache,
	cacheCfg config.CacheConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) AnalysisService {
	return &analysisService{
		loader:   loader,
		cache:    cache,
		cacheCfg: cacheCfg,
		metrics:  m,
		logger:   logger,
	}
}

// ────────────────────── Evaluate ──────────────────────

func (s *analysisService) Evaluate(ctx context.Context, caller Caller, userID string, includeGeneral bool) (*graduation.EvaluationResult, error) {
	data, err := s.loader.load(ctx, caller, userID, true)
	if err != nil {
		return nil, err
	}

	key := evaluationCacheKey(data, includeGeneral)
	if result, ok := s.cached(ctx, key); ok {
		return result, nil
	}

	result := s.evaluate(data, includeGeneral)
	s.store(ctx, key, result)
	return &result, nil
}

// evaluationCacheKey 성적표 ID 와 요건 버전이 바뀌면 키도 바뀐다
func evaluationCacheKey(d *studentData, includeGeneral bool) string {
	return fmt.Sprintf("eval:%s:%s:%s:v%d:g%t",
		d.User.UserID, d.Transcript.TranscriptID, d.Requirement.RequirementID, d.Requirement.Version, includeGeneral)
}

func (s *analysisService) evaluate(d *studentData, includeGeneral bool) graduation.EvaluationResult {
	var opts []graduation.Option
	if includeGeneral {
		opts = append(opts, graduation.WithGeneralRequired())
	}

	start := time.Now()
	result := graduation.Evaluate(d.Requirement.ToSpec(), d.Courses(), opts...)
	s.metrics.ObserveEvaluation(result.Status, time.Since(start))

	s.logger.Debug("졸업 판정",
		zap.String("user_id", d.User.UserID),
		zap.String("requirement_id", d.Requirement.RequirementID),
		zap.String("status", result.Status),
		zap.Int("deficiencies", len(result.Deficiencies)),
	)
	return result
}

func (s *analysisService) cached(ctx context.Context, key string) (*graduation.EvaluationResult, bool) {
	if s.cache == nil || !s.cacheCfg.Enabled {
		return nil, false
	}
	var result graduation.EvaluationResult
	err := s.cache.GetJSON(ctx, key, &result)
	switch {
	case err == nil:
		s.metrics.IncCache("hit")
		return &result, true
	case errors.Is(err, pkgerrors.ErrCacheMiss):
		s.metrics.IncCache("miss")
	default:
		s.metrics.IncCache("error")
		s.logger.Warn("판정 캐시 조회 실패", zap.String("key", key), zap.Error(err))
	}
	return nil, false
}

func (s *analysisService) store(ctx context.Context, key string, result graduation.EvaluationResult) {
	if s.cache == nil || !s.cacheCfg.Enabled {
		return
	}
	if err := s.cache.SetJSON(ctx, key, result, s.cacheCfg.EvaluationTTL); err != nil {
		s.logger.Warn("판정 캐시 저장 실패", zap.String("key", key), zap.Error(err))
	}
}

// ────────────────────── 개별 조회 ──────────────────────

func (s *analysisService) Credits(ctx context.Context, caller Caller, userID string) (*graduation.Credits, error) {
	data, err := s.loader.load(ctx, caller, userID, true)
	if err != nil {
		return nil, err
	}
	credits := graduation.ComputeCredits(data.Requirement.ToSpec(), data.Courses())
	return &credits, nil
}

func (s *analysisService) CategoryCourses(ctx context.Context, caller Caller, userID, category string) (*dto.CategoryCoursesResponse, error) {
	cat, ok := graduation.ParseCategory(category)
	if !ok {
		return nil, ErrInvalidCategory
	}
	data, err := s.loader.load(ctx, caller, userID, false)
	if err != nil {
		return nil, err
	}

	courses := graduation.CoursesInCategory(data.Courses(), cat)
	if courses == nil {
		courses = []graduation.CourseRecord{}
	}
	total := 0
	for _, c := range courses {
		total += c.Credit
	}
	return &dto.CategoryCoursesResponse{
		Category:    cat.Names()[0],
		TotalCredit: total,
		Courses:     courses,
	}, nil
}

func (s *analysisService) Drbol(ctx context.Context, caller Caller, userID string) (*graduation.Distribution, error) {
	data, err := s.loader.load(ctx, caller, userID, true)
	if err != nil {
		return nil, err
	}
	dist := graduation.DistributionStatus(data.Requirement.ToSpec(), data.Courses())
	return &dist, nil
}

func (s *analysisService) MissingRequired(ctx context.Context, caller Caller, userID string) (*dto.MissingRequiredResponse, error) {
	data, err := s.loader.load(ctx, caller, userID, true)
	if err != nil {
		return nil, err
	}

	missing := graduation.MissingRequiredCourses(data.Requirement.ToSpec().MajorRequired, data.Courses())
	total := 0
	for _, grp := range missing {
		total += len(grp.Items)
	}
	return &dto.MissingRequiredResponse{Total: total, Missing: missing}, nil
}

func (s *analysisService) Roadmap(ctx context.Context, caller Caller, userID string) (*dto.RoadmapResponse, error) {
	data, err := s.loader.load(ctx, caller, userID, true)
	if err != nil {
		return nil, err
	}

	entries := graduation.BuildRoadmap(data.Requirement.ToSpec().MajorRequired, data.Courses())
	completed := 0
	for _, e := range entries {
		if e.Completed {
			completed++
		}
	}
	return &dto.RoadmapResponse{Total: len(entries), Completed: completed, Entries: entries}, nil
}

// ────────────────────── Report ──────────────────────

func (s *analysisService) Report(ctx context.Context, caller Caller, userID string) (*Report, error) {
	data, err := s.loader.load(ctx, caller, userID, true)
	if err != nil {
		return nil, err
	}

	spec := data.Requirement.ToSpec()
	courses := data.Courses()
	return &Report{
		User:    data.User,
		Spec:    spec,
		Result:  s.evaluate(data, true),
		Roadmap: graduation.BuildRoadmap(spec.MajorRequired, courses),
		Courses: courses,
	}, nil
}

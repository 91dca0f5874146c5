package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/graduation"
	"gradcheck/backend/internal/model"
	"gradcheck/backend/internal/repository"
	pkgerrors "gradcheck/backend/pkg/errors"
)

// ── 졸업 요건 모듈 업무 오류 ──

var (
	ErrRequirementIDNotFound = fmt.Errorf("졸업 요건이 존재하지 않습니다: %w", graduation.ErrNotFound)
	ErrRequirementExists     = errors.New("같은 학과·연도의 졸업 요건이 이미 있습니다")
	ErrRequirementConflict   = errors.New("다른 사용자가 먼저 수정했습니다. 새로 조회한 뒤 다시 시도하세요")
)

// RequirementService 졸업 요건 관리 업무 인터페이스
type RequirementService interface {
	Create(ctx context.Context, req *dto.RequirementRequest, callerID string) (*dto.RequirementResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RequirementResponse, error)
	List(ctx context.Context, req *dto.RequirementListRequest) ([]dto.RequirementResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateRequirementRequest, callerID string) (*dto.RequirementResponse, error)
	Delete(ctx context.Context, id string) error
}

type requirementService struct {
	repo   *repository.Repository
	cache  Cache
	logger *zap.Logger
}

// NewRequirementService RequirementService 생성
func NewRequirementService(repo *repository.Repository, cache Cache, logger *zap.Logger) RequirementService {
	return &requirementService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *requirementService) Create(ctx context.Context, req *dto.RequirementRequest, callerID string) (*dto.RequirementResponse, error) {
	major := strings.TrimSpace(req.Major)
	if err := s.ensureUnique(ctx, major, req.Year, ""); err != nil {
		return nil, err
	}

	m := &model.GraduationRequirement{}
	applyRequirement(m, req)
	m.CreatedBy = &callerID
	m.UpdatedBy = &callerID

	if err := s.repo.Requirement.Create(ctx, m); err != nil {
		s.logger.Error("졸업 요건 생성 실패", zap.String("major", major), zap.Int("year", req.Year), zap.Error(err))
		return nil, err
	}

	s.logger.Info("졸업 요건 생성",
		zap.String("requirement_id", m.RequirementID), zap.String("major", m.Major), zap.Int("year", m.Year))
	resp := toRequirementResponse(m)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *requirementService) GetByID(ctx context.Context, id string) (*dto.RequirementResponse, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRequirementResponse(m)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *requirementService) List(ctx context.Context, req *dto.RequirementListRequest) ([]dto.RequirementResponse, int64, error) {
	reqs, total, err := s.repo.Requirement.List(ctx, strings.TrimSpace(req.Major), req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("졸업 요건 목록 조회 실패", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.RequirementResponse, 0, len(reqs))
	for i := range reqs {
		list = append(list, toRequirementResponse(&reqs[i]))
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *requirementService) Update(ctx context.Context, id string, req *dto.UpdateRequirementRequest, callerID string) (*dto.RequirementResponse, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Version != req.Version {
		return nil, ErrRequirementConflict
	}

	major := strings.TrimSpace(req.Major)
	if major != m.Major || req.Year != m.Year {
		if err := s.ensureUnique(ctx, major, req.Year, id); err != nil {
			return nil, err
		}
	}

	applyRequirement(m, &req.RequirementRequest)
	m.UpdatedBy = &callerID

	if err := s.repo.Requirement.Update(ctx, m); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrRequirementConflict
		}
		s.logger.Error("졸업 요건 수정 실패", zap.String("requirement_id", id), zap.Error(err))
		return nil, err
	}

	resp := toRequirementResponse(m)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *requirementService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Requirement.Delete(ctx, id); err != nil {
		s.logger.Error("졸업 요건 삭제 실패", zap.String("requirement_id", id), zap.Error(err))
		return err
	}

	if s.cache != nil {
		if err := s.cache.DeletePattern(ctx, "eval:*:"+id+":*"); err != nil {
			s.logger.Warn("판정 캐시 정리 실패", zap.String("requirement_id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *requirementService) get(ctx context.Context, id string) (*model.GraduationRequirement, error) {
	m, err := s.repo.Requirement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequirementIDNotFound
		}
		s.logger.Error("졸업 요건 조회 실패", zap.String("requirement_id", id), zap.Error(err))
		return nil, err
	}
	return m, nil
}

// ensureUnique 학과·연도 중복 확인. exceptID 는 수정 대상 자신.
func (s *requirementService) ensureUnique(ctx context.Context, major string, year int, exceptID string) error {
	existing, err := s.repo.Requirement.GetByMajorYear(ctx, major, year)
	if err == nil {
		if existing.RequirementID != exceptID {
			return ErrRequirementExists
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("졸업 요건 중복 확인 실패", zap.Error(err))
		return err
	}
	return nil
}

// applyRequirement 요청 내용을 모델에 반영 (전체 교체)
func applyRequirement(m *model.GraduationRequirement, req *dto.RequirementRequest) {
	mins := req.Minimums()

	m.Major = strings.TrimSpace(req.Major)
	m.Year = req.Year
	m.TotalRequired = mins.Total
	m.MajorRequired = mins.Major
	m.GeneralRequired = mins.General
	m.DrbolRequired = mins.Drbol
	m.SpecialGeneralRequired = mins.SpecialGeneral
	m.SWRequired = mins.SW
	m.MSCRequired = mins.MSC

	m.MajorMustCourses = dto.ToItems(req.MajorMustCourses)
	m.MajorSelectiveCourses = dto.ToItems(req.MajorSelectiveCourses)
	m.GeneralMustCourses = dto.ToItems(req.GeneralMustCourses)
	m.GeneralSelectiveCourses = dto.ToItems(req.GeneralSelectiveCourses)
	m.SpecialGeneralCourses = dto.ToItems(req.SpecialGeneralCourses)
	m.SWCourses = dto.ToItems(req.SWCourses)
	m.MSCCourses = dto.ToItems(req.MSCCourses)

	m.DrbolAreas = strings.TrimSpace(req.DrbolAreas)
	m.DrbolRules = dto.ToAreaRules(req.DrbolRules)
	m.DrbolCourses = dto.ToAreaCourses(req.DrbolCourses)
}

// toRequirementResponse 졸업 요건 모델 → 응답 DTO
func toRequirementResponse(m *model.GraduationRequirement) dto.RequirementResponse {
	spec := m.ToSpec()
	areas := spec.Drbol.AreaNames()
	if areas == nil {
		areas = []string{}
	}
	return dto.RequirementResponse{
		ID:                      m.RequirementID,
		Major:                   m.Major,
		Year:                    m.Year,
		Minimums:                spec.Minimums,
		MajorMustCourses:        nonNilItems(m.MajorMustCourses),
		MajorSelectiveCourses:   nonNilItems(m.MajorSelectiveCourses),
		GeneralMustCourses:      nonNilItems(m.GeneralMustCourses),
		GeneralSelectiveCourses: nonNilItems(m.GeneralSelectiveCourses),
		SpecialGeneralCourses:   nonNilItems(m.SpecialGeneralCourses),
		SWCourses:               nonNilItems(m.SWCourses),
		MSCCourses:              nonNilItems(m.MSCCourses),
		DrbolAreas:              areas,
		DrbolRules:              append([]graduation.AreaRule{}, m.DrbolRules...),
		DrbolCourses:            append([]graduation.AreaCourses{}, m.DrbolCourses...),
		Version:                 m.Version,
		CreatedAt:               formatTime(m.CreatedAt),
		UpdatedAt:               formatTime(m.UpdatedAt),
	}
}

func nonNilItems(items []graduation.RequirementItem) []graduation.RequirementItem {
	if items == nil {
		return []graduation.RequirementItem{}
	}
	return items
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

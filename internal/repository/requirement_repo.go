package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gradcheck/backend/internal/model"
	pkgerrors "gradcheck/backend/pkg/errors"
)

// RequirementRepository 졸업 요건 데이터 접근
type RequirementRepository interface {
	Create(ctx context.Context, req *model.GraduationRequirement) error
	GetByID(ctx context.Context, id string) (*model.GraduationRequirement, error)
	GetByMajorYear(ctx context.Context, major string, year int) (*model.GraduationRequirement, error)
	// FindForMajor 학과의 졸업 요건. 입학년도 이하 중 가장 최근 연도를 우선하고,
	// 없으면 가장 최근 연도를 반환한다.
	FindForMajor(ctx context.Context, major string, year int) (*model.GraduationRequirement, error)
	List(ctx context.Context, major string, offset, limit int) ([]model.GraduationRequirement, int64, error)
	Update(ctx context.Context, req *model.GraduationRequirement) error
	Delete(ctx context.Context, id string) error
}

type requirementRepo struct {
	db *gorm.DB
}

// NewRequirementRepo RequirementRepository 생성
func NewRequirementRepo(db *gorm.DB) RequirementRepository {
	return &requirementRepo{db: db}
}

func (r *requirementRepo) Create(ctx context.Context, req *model.GraduationRequirement) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requirementRepo) GetByID(ctx context.Context, id string) (*model.GraduationRequirement, error) {
	var req model.GraduationRequirement
	err := r.db.WithContext(ctx).
		Where("requirement_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requirementRepo) GetByMajorYear(ctx context.Context, major string, year int) (*model.GraduationRequirement, error) {
	var req model.GraduationRequirement
	err := r.db.WithContext(ctx).
		Where("major = ? AND year = ?", major, year).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requirementRepo) FindForMajor(ctx context.Context, major string, year int) (*model.GraduationRequirement, error) {
	var req model.GraduationRequirement
	err := r.db.WithContext(ctx).
		Where("major = ?", major).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN year <= ? THEN 0 ELSE 1 END, year DESC",
			Vars:               []interface{}{year},
			WithoutParentheses: true,
		}}).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requirementRepo) List(ctx context.Context, major string, offset, limit int) ([]model.GraduationRequirement, int64, error) {
	var reqs []model.GraduationRequirement
	var total int64

	db := r.db.WithContext(ctx).Model(&model.GraduationRequirement{})
	if major != "" {
		db = db.Where("major = ?", major)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("major ASC, year DESC").
		Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

// Update 낙관적 잠금: 읽은 시점의 version 과 다르면 ErrOptimisticLock
func (r *requirementRepo) Update(ctx context.Context, req *model.GraduationRequirement) error {
	oldVersion := req.Version
	if err := req.BeforeSave(nil); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(req).
		Where("requirement_id = ? AND version = ?", req.RequirementID, oldVersion).
		Updates(map[string]interface{}{
			"major":                     req.Major,
			"year":                      req.Year,
			"total_required":            req.TotalRequired,
			"major_required":            req.MajorRequired,
			"general_required":          req.GeneralRequired,
			"drbol_required":            req.DrbolRequired,
			"special_general_required":  req.SpecialGeneralRequired,
			"sw_required":               req.SWRequired,
			"msc_required":              req.MSCRequired,
			"major_must_courses":        req.MajorMustCourses,
			"major_selective_courses":   req.MajorSelectiveCourses,
			"general_must_courses":      req.GeneralMustCourses,
			"general_selective_courses": req.GeneralSelectiveCourses,
			"special_general_courses":   req.SpecialGeneralCourses,
			"sw_courses":                req.SWCourses,
			"msc_courses":               req.MSCCourses,
			"drbol_areas":               req.DrbolAreas,
			"drbol_rules":               req.DrbolRules,
			"drbol_courses":             req.DrbolCourses,
			"updated_by":                req.UpdatedBy,
			"version":                   oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version = oldVersion + 1
	return nil
}

func (r *requirementRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("requirement_id = ?", id).
		Delete(&model.GraduationRequirement{}).Error
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/service"
	"gradcheck/backend/pkg/response"
)

// AnalysisHandler 졸업 판정 모듈 HTTP 처리기
type AnalysisHandler struct {
	analysisSvc service.AnalysisService
}

// NewAnalysisHandler AnalysisHandler 생성
func NewAnalysisHandler(analysisSvc service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisSvc: analysisSvc}
}

// Evaluate 통합 판정
// GET /api/v1/analysis/:user_id/status?include_general=true
func (h *AnalysisHandler) Evaluate(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.EvaluationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.analysisSvc.Evaluate(c.Request.Context(), caller, c.Param("user_id"), q.IncludeGeneral)
	if err != nil {
		h.handleAnalysisError(c, err)
		return
	}

	response.OK(c, result)
}

// Credits 구분별 이수 학점
// GET /api/v1/analysis/:user_id/credits
func (h *AnalysisHandler) Credits(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.analysisSvc.Credits(c.Request.Context(), caller, c.Param("user_id"))
	if err != nil {
		h.handleAnalysisError(c, err)
		return
	}

	response.OK(c, result)
}

// CategoryCourses 한 구분의 유효 과목
// GET /api/v1/analysis/:user_id/courses?category=major
func (h *AnalysisHandler) CategoryCourses(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.CategoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.analysisSvc.CategoryCourses(c.Request.Context(), caller, c.Param("user_id"), q.Category)
	if err != nil {
		h.handleAnalysisError(c, err)
		return
	}

	response.OK(c, result)
}

// Drbol 드볼 영역별 이수 현황
// GET /api/v1/analysis/:user_id/drbol
func (h *AnalysisHandler) Drbol(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.analysisSvc.Drbol(c.Request.Context(), caller, c.Param("user_id"))
	if err != nil {
		h.handleAnalysisError(c, err)
		return
	}

	response.OK(c, result)
}

// MissingRequired 학기별 전공필수 미이수 과목
// GET /api/v1/analysis/:user_id/missing-required
func (h *AnalysisHandler) MissingRequired(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.analysisSvc.MissingRequired(c.Request.Context(), caller, c.Param("user_id"))
	if err != nil {
		h.handleAnalysisError(c, err)
		return
	}

	response.OK(c, result)
}

// Roadmap 전공필수 이수 로드맵
// GET /api/v1/analysis/:user_id/roadmap
func (h *AnalysisHandler) Roadmap(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.analysisSvc.Roadmap(c.Request.Context(), caller, c.Param("user_id"))
	if err != nil {
		h.handleAnalysisError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AnalysisHandler) handleAnalysisError(c *gin.Context, err error) {
	if handleAccessError(c, err) {
		return
	}
	if errors.Is(err, service.ErrInvalidCategory) {
		response.BadRequest(c, 60001, "알 수 없는 이수 구분입니다")
		return
	}
	response.InternalError(c)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/service"
	"gradcheck/backend/pkg/response"
)

// SemesterHandler 학기별 과목 조회 HTTP 처리기
type SemesterHandler struct {
	semesterSvc service.SemesterService
}

// NewSemesterHandler SemesterHandler 생성
func NewSemesterHandler(semesterSvc service.SemesterService) *SemesterHandler {
	return &SemesterHandler{semesterSvc: semesterSvc}
}

// Overview 학기 순 과목 그룹
// GET /api/v1/semesters/:user_id?filter=전공,교양
func (h *SemesterHandler) Overview(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.SemesterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.semesterSvc.Overview(c.Request.Context(), caller, c.Param("user_id"), q.Filter)
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.OK(c, result)
}

// Detail 한 학기의 과목
// GET /api/v1/semesters/:user_id/:semester
func (h *SemesterHandler) Detail(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.semesterSvc.Detail(c.Request.Context(), caller, c.Param("user_id"), c.Param("semester"))
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.OK(c, result)
}

// MissingRequired 해당 학기 배정 전공필수 중 미이수 과목
// GET /api/v1/semesters/:user_id/:semester/missing-required
func (h *SemesterHandler) MissingRequired(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.semesterSvc.MissingRequired(c.Request.Context(), caller, c.Param("user_id"), c.Param("semester"))
	if err != nil {
		h.handleSemesterError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *SemesterHandler) handleSemesterError(c *gin.Context, err error) {
	if handleAccessError(c, err) {
		return
	}
	response.InternalError(c)
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/service"
	"gradcheck/backend/pkg/response"
)

// RequirementHandler 졸업 요건 모듈 HTTP 처리기
type RequirementHandler struct {
	reqSvc service.RequirementService
}

// NewRequirementHandler RequirementHandler 생성
func NewRequirementHandler(reqSvc service.RequirementService) *RequirementHandler {
	return &RequirementHandler{reqSvc: reqSvc}
}

// ListRequirements 졸업 요건 목록
// GET /api/v1/requirements?major=
func (h *RequirementHandler) ListRequirements(c *gin.Context) {
	var req dto.RequirementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.reqSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetRequirement 졸업 요건 상세
// GET /api/v1/requirements/:id
func (h *RequirementHandler) GetRequirement(c *gin.Context) {
	result, err := h.reqSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleRequirementError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateRequirement 졸업 요건 생성 (관리자)
// POST /api/v1/requirements
func (h *RequirementHandler) CreateRequirement(c *gin.Context) {
	var req dto.RequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reqSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRequirementError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateRequirement 졸업 요건 수정 (관리자, 전체 교체)
// PUT /api/v1/requirements/:id
func (h *RequirementHandler) UpdateRequirement(c *gin.Context) {
	var req dto.UpdateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reqSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleRequirementError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteRequirement 졸업 요건 삭제 (관리자)
// DELETE /api/v1/requirements/:id
func (h *RequirementHandler) DeleteRequirement(c *gin.Context) {
	if err := h.reqSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleRequirementError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *RequirementHandler) handleRequirementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequirementIDNotFound):
		response.NotFound(c, 30001, "졸업 요건이 존재하지 않습니다")
	case errors.Is(err, service.ErrRequirementExists):
		response.Conflict(c, 30002, "같은 학과·연도의 졸업 요건이 이미 있습니다")
	case errors.Is(err, service.ErrRequirementConflict):
		response.Conflict(c, 30003, "다른 사용자가 먼저 수정했습니다. 새로 조회한 뒤 다시 시도하세요")
	default:
		response.InternalError(c)
	}
}

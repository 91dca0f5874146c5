package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/service"
	"gradcheck/backend/pkg/response"
)

// TranscriptHandler 성적표 모듈 HTTP 처리기
type TranscriptHandler struct {
	transcriptSvc service.TranscriptService
}

// NewTranscriptHandler TranscriptHandler 생성
func NewTranscriptHandler(transcriptSvc service.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{transcriptSvc: transcriptSvc}
}

// Submit 해석된 성적표 제출 (courses 또는 rows)
// POST /api/v1/transcripts/:user_id
func (h *TranscriptHandler) Submit(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.SubmitTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.transcriptSvc.Submit(c.Request.Context(), caller, c.Param("user_id"), &req)
	if err != nil {
		h.handleTranscriptError(c, err)
		return
	}

	response.Created(c, result)
}

// Import .xlsx 성적표 업로드 (multipart 필드 "file")
// POST /api/v1/transcripts/:user_id/import
func (h *TranscriptHandler) Import(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "업로드할 파일(file)이 필요합니다")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 10001, "업로드 파일을 열 수 없습니다")
		return
	}
	defer f.Close()

	result, err := h.transcriptSvc.Import(c.Request.Context(), caller, c.Param("user_id"), f)
	if err != nil {
		h.handleTranscriptError(c, err)
		return
	}

	response.Created(c, result)
}

// CreateJob OCR 워커가 처리할 pending 성적표 등록
// POST /api/v1/transcripts/:user_id/jobs
func (h *TranscriptHandler) CreateJob(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.transcriptSvc.CreateJob(c.Request.Context(), caller, c.Param("user_id"))
	if err != nil {
		h.handleTranscriptError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, response.Response{Code: 0, Message: "success", Data: result})
}

// ApplyWorkerResult OCR 워커 결과 반영 (관리자 권한 토큰)
// PUT /api/v1/transcripts/results/:id
func (h *TranscriptHandler) ApplyWorkerResult(c *gin.Context) {
	var req dto.WorkerResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.transcriptSvc.ApplyWorkerResult(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleTranscriptError(c, err)
		return
	}

	response.OK(c, result)
}

// Status 최신 성적표 처리 상태
// GET /api/v1/transcripts/status/:user_id
func (h *TranscriptHandler) Status(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.transcriptSvc.Status(c.Request.Context(), caller, c.Param("user_id"))
	if err != nil {
		h.handleTranscriptError(c, err)
		return
	}

	response.OK(c, result)
}

// Parsed 최신 성적표 해석 결과 (처리 완료 시에만)
// GET /api/v1/transcripts/parsed/:user_id
func (h *TranscriptHandler) Parsed(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.transcriptSvc.Parsed(c.Request.Context(), caller, c.Param("user_id"))
	if err != nil {
		h.handleTranscriptError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *TranscriptHandler) handleTranscriptError(c *gin.Context, err error) {
	if handleAccessError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrNoTranscript):
		response.NotFound(c, 40001, "성적표가 존재하지 않습니다")
	case errors.Is(err, service.ErrTranscriptNotReady):
		response.NotFound(c, 40002, "아직 해석이 완료되지 않았거나 결과가 없습니다")
	case errors.Is(err, service.ErrTranscriptPayload):
		response.BadRequest(c, 40003, "courses 와 rows 중 하나만 보내야 합니다")
	case errors.Is(err, service.ErrTranscriptUnparsable):
		response.BadRequest(c, 40004, "해석 가능한 과목이 없습니다")
	case errors.Is(err, service.ErrTranscriptTooLarge):
		response.BadRequest(c, 40005, "과목 행이 너무 많습니다")
	case errors.Is(err, service.ErrImportFile):
		response.BadRequest(c, 40006, "엑셀 파일을 읽을 수 없습니다")
	case errors.Is(err, service.ErrTranscriptFinalized):
		response.Conflict(c, 40007, "이미 처리가 끝난 성적표입니다")
	case errors.Is(err, service.ErrTranscriptIDNotFound):
		response.NotFound(c, 40008, "처리 대상 성적표가 없습니다")
	default:
		response.InternalError(c)
	}
}

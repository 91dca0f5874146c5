package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/service"
	"gradcheck/backend/pkg/response"
)

// MustGetUserID Gin 컨텍스트에서 user_id 를 꺼낸다.
// JWT 미들웨어가 넣지 않았으면 401 을 쓰고 false 를 반환하므로 호출자는 바로 return 한다.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "인증이 필요합니다")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "인증이 필요합니다")
		return "", false
	}
	return s, true
}

// MustGetRole Gin 컨텍스트에서 role 을 꺼낸다
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "인증이 필요합니다")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "인증이 필요합니다")
		return "", false
	}
	return s, true
}

// MustGetCaller 요청자 정보 (접근 권한 판단용)
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{UserID: userID, Role: role}, true
}

// tokenMeta 현재 access token 의 jti 와 만료 시각
func tokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	expiresAt, _ := exp.(time.Time)
	return jti, expiresAt
}

// bindError 바인딩·검증 실패 응답
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "요청 본문이 너무 큽니다")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "입력값 검증 실패", dto.ValidationMessage(err))
}

// handleAccessError 학생 데이터 조회에 공통으로 나오는 오류 처리. 처리했으면 true.
func handleAccessError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, "다른 학생의 정보에는 접근할 수 없습니다")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "사용자가 존재하지 않습니다")
	case errors.Is(err, service.ErrRequirementNotFound):
		response.NotFound(c, 30004, "해당 학과·입학년도의 졸업 요건이 없습니다")
	case errors.Is(err, service.ErrTranscriptNotFound):
		response.NotFound(c, 40001, "해석이 완료된 성적표가 없습니다")
	default:
		return false
	}
	return true
}

package dto

import "gradcheck/backend/internal/graduation"

// ── 성적표 모듈 DTO ──

// SubmitTranscriptRequest 해석된 성적표 제출. courses 와 rows 중 하나만 보낸다.
type SubmitTranscriptRequest struct {
	Courses []graduation.CourseRecord `json:"courses" binding:"omitempty,max=500"`
	Rows    [][]string                `json:"rows"    binding:"omitempty,max=500"`
}

// WorkerResultRequest 외부 OCR 워커의 처리 결과. error 가 있으면 실패로 기록한다.
type WorkerResultRequest struct {
	Courses []graduation.CourseRecord `json:"courses" binding:"omitempty,max=500"`
	Rows    [][]string                `json:"rows"    binding:"omitempty,max=500"`
	Error   string                    `json:"error"   binding:"max=1000"`
}

// TranscriptResponse 성적표 처리 상태 응답
type TranscriptResponse struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	Source       string                `json:"source"`
	CourseCount  int                   `json:"course_count"`
	RowErrors    []graduation.RowError `json:"row_errors"`
	ErrorMessage string                `json:"error_message,omitempty"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
}

// ParsedTranscriptResponse 해석 완료된 과목 목록
type ParsedTranscriptResponse struct {
	ID      string                    `json:"id"`
	Courses []graduation.CourseRecord `json:"courses"`
}

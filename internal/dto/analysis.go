package dto

import "gradcheck/backend/internal/graduation"

// ── 졸업 판정 모듈 DTO ──

// EvaluationQuery 통합 판정 조회 파라미터
type EvaluationQuery struct {
	IncludeGeneral bool `form:"include_general"`
}

// CategoryQuery 구분별 과목 조회 파라미터
type CategoryQuery struct {
	Category string `form:"category" binding:"required,oneof=major general drbol sw msc special_general"`
}

// CategoryCoursesResponse 한 이수 구분의 유효 과목
type CategoryCoursesResponse struct {
	Category    string                    `json:"category"`
	TotalCredit int                       `json:"total_credit"`
	Courses     []graduation.CourseRecord `json:"courses"`
}

// MissingRequiredResponse 학기별 미이수 전공필수
type MissingRequiredResponse struct {
	Total   int                                             `json:"total"`
	Missing graduation.SemesterGroups[graduation.CourseRef] `json:"missing"`
}

// RoadmapResponse 요건 과목 이수 로드맵
type RoadmapResponse struct {
	Total     int                       `json:"total"`
	Completed int                       `json:"completed"`
	Entries   []graduation.RoadmapEntry `json:"entries"`
}

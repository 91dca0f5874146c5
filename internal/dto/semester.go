package dto

import "gradcheck/backend/internal/graduation"

// ── 학기별 조회 DTO ──

// SemesterQuery 학기별 과목 조회 파라미터
type SemesterQuery struct {
	Filter string `form:"filter" binding:"omitempty,max=100"` // 콤마 구분 이수구분 키워드 (예: 전공,교양)
}

// SemesterOverviewResponse 학기 순으로 정렬된 과목 그룹
type SemesterOverviewResponse struct {
	Semesters []string                                           `json:"semesters"`
	Courses   graduation.SemesterGroups[graduation.CourseRecord] `json:"courses"`
}

// SemesterCoursesResponse 한 학기의 과목
type SemesterCoursesResponse struct {
	Semester    string                    `json:"semester"`
	TotalCredit int                       `json:"total_credit"`
	Courses     []graduation.CourseRecord `json:"courses"`
}

// SemesterMissingResponse 해당 학기에 계획되었으나 아직 이수하지 않은 필수 과목
type SemesterMissingResponse struct {
	Semester string                 `json:"semester"`
	Missing  []graduation.CourseRef `json:"missing"`
}

package dto

// ── 사용자 모듈 DTO ──

// UserListRequest 사용자 목록 조회 파라미터 (관리자)
type UserListRequest struct {
	PaginationRequest
	Major string `form:"major" binding:"omitempty,max=100"`
}

// UpdateMeRequest 내 정보 수정 요청. 학번은 바꿀 수 없다.
type UpdateMeRequest struct {
	FullName  *string `json:"full_name"  binding:"omitempty,hangul_name"`
	EntryYear *int    `json:"entry_year" binding:"omitempty,min=1990,max=2100"`
	Major     *string `json:"major"      binding:"omitempty,min=1,max=100"`
}

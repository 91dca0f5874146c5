package dto

// ── 인증 모듈 응답 ──

// TokenResponse 토큰 쌍 응답
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"` // 쿠키 모드에서는 생략 가능
	ExpiresIn    int          `json:"expires_in"`              // access token 유효기간(초)
	User         UserResponse `json:"user"`
}

// ── 사용자 모듈 응답 ──

// UserResponse 사용자 정보 응답 (비밀번호 제외)
type UserResponse struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	FullName  string `json:"full_name"`
	EntryYear int    `json:"entry_year"`
	Major     string `json:"major"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ── 페이지 요청 ──

// PaginationRequest 공통 페이지 파라미터
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 페이지 번호 (기본값 포함)
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 페이지 크기 (기본값 포함)
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 오프셋 계산
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

package dto

// ── 인증 모듈 DTO ──

// SignupRequest 학생 회원가입 요청
type SignupRequest struct {
	StudentID string `json:"student_id" binding:"required,student_id"`
	Password  string `json:"password"   binding:"required,min=8,max=64"`
	FullName  string `json:"full_name"  binding:"required,hangul_name"`
	EntryYear int    `json:"entry_year" binding:"required,min=1990,max=2100"`
	Major     string `json:"major"      binding:"required,max=100"`
}

// LoginRequest 로그인 요청
type LoginRequest struct {
	StudentID  string `json:"student_id" binding:"required"`
	Password   string `json:"password"   binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest 토큰 갱신 요청
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"` // 쿠키를 쓰지 않는 클라이언트용
}

// ChangePasswordRequest 비밀번호 변경 요청
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

package model

import "gorm.io/gorm"

// 사용자 역할
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User 사용자 (users 테이블)
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	StudentID    string `gorm:"type:varchar(7);not null"                       json:"student_id"` // 대문자 1자 + 숫자 6자리
	FullName     string `gorm:"type:varchar(20);not null"                      json:"full_name"`
	EntryYear    int    `gorm:"type:smallint;not null"                         json:"entry_year"`
	Major        string `gorm:"type:varchar(100);not null"                     json:"major"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	Timestamps
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 테이블 이름
func (User) TableName() string { return "users" }

// IsAdmin 관리자 여부
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

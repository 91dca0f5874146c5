package model

import (
	"time"

	"gorm.io/gorm"
)

// Timestamps 생성·수정 시각
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AuditModel 작성자 정보를 포함한 감사 필드
type AuditModel struct {
	Timestamps
	CreatedBy *string `gorm:"type:uuid" json:"created_by,omitempty"`
	UpdatedBy *string `gorm:"type:uuid" json:"updated_by,omitempty"`
}

// VersionedModel 소프트 삭제와 낙관적 잠금을 지원하는 모델
type VersionedModel struct {
	AuditModel
	DeletedAt gorm.DeletedAt `gorm:"index"              json:"-"`
	Version   int            `gorm:"not null;default:1" json:"version"`
}

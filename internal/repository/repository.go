package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 모든 Repository 의 집합
type Repository struct {
	db          *gorm.DB
	User        UserRepository
	Requirement RequirementRepository
	Transcript  TranscriptRepository
}

// NewRepository Repository 집합 생성
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		User:        NewUserRepo(db),
		Requirement: NewRequirementRepo(db),
		Transcript:  NewTranscriptRepo(db),
	}
}

// BeginTx 트랜잭션 시작. 호출자가 Commit/Rollback 책임을 진다.
// DB 연결 없이 조립된 집합(테스트용 mock)에서는 nil 트랜잭션을 반환한다.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 트랜잭션 연결을 사용하는 Repository 집합
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

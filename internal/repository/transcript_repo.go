package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gradcheck/backend/internal/model"
)

// TranscriptRepository 성적표 데이터 접근
type TranscriptRepository interface {
	Create(ctx context.Context, t *model.Transcript) error
	GetByID(ctx context.Context, id string) (*model.Transcript, error)
	// GetByIDForUpdate 행 잠금 조회. 트랜잭션 안에서만 사용한다.
	GetByIDForUpdate(ctx context.Context, id string) (*model.Transcript, error)
	// Latest 사용자의 가장 최근 성적표 (상태 무관)
	Latest(ctx context.Context, userID string) (*model.Transcript, error)
	// LatestDone 처리가 끝난 가장 최근 성적표
	LatestDone(ctx context.Context, userID string) (*model.Transcript, error)
	Update(ctx context.Context, t *model.Transcript) error
}

type transcriptRepo struct {
	db *gorm.DB
}

// NewTranscriptRepo TranscriptRepository 생성
func NewTranscriptRepo(db *gorm.DB) TranscriptRepository {
	return &transcriptRepo{db: db}
}

func (r *transcriptRepo) Create(ctx context.Context, t *model.Transcript) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transcriptRepo) GetByID(ctx context.Context, id string) (*model.Transcript, error) {
	var t model.Transcript
	err := r.db.WithContext(ctx).
		Where("transcript_id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transcriptRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Transcript, error) {
	var t model.Transcript
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("transcript_id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transcriptRepo) Latest(ctx context.Context, userID string) (*model.Transcript, error) {
	var t model.Transcript
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transcriptRepo) LatestDone(ctx context.Context, userID string) (*model.Transcript, error) {
	var t model.Transcript
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.TranscriptDone).
		Order("created_at DESC").
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transcriptRepo) Update(ctx context.Context, t *model.Transcript) error {
	return r.db.WithContext(ctx).Save(t).Error
}

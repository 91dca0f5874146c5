package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"gradcheck/backend/internal/graduation"
	"gradcheck/backend/internal/model"
	"gradcheck/backend/internal/repository"
)

// ── 판정 입력 조회 공통 오류 ──

var (
	ErrUserNotFound        = fmt.Errorf("사용자가 존재하지 않습니다: %w", graduation.ErrNotFound)
	ErrRequirementNotFound = fmt.Errorf("해당 학과의 졸업 요건이 없습니다: %w", graduation.ErrNotFound)
	ErrTranscriptNotFound  = fmt.Errorf("해석이 완료된 성적표가 없습니다: %w", graduation.ErrNotFound)
)

// studentData 판정에 필요한 사용자·요건·성적표
type studentData struct {
	User        *model.User
	Requirement *model.GraduationRequirement // withRequirement=false 이면 nil
	Transcript  *model.Transcript
}

// Courses 성적표 과목 목록 (비어 있을 수 있음)
func (d *studentData) Courses() []graduation.CourseRecord {
	return d.Transcript.Courses()
}

// studentLoader 접근 확인 후 사용자를 조회하고, 요건과 최신 성적표를 동시에 읽는다
type studentLoader struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func newStudentLoader(repo *repository.Repository, logger *zap.Logger) *studentLoader {
	return &studentLoader{repo: repo, logger: logger}
}

func (l *studentLoader) load(ctx context.Context, caller Caller, userID string, withRequirement bool) (*studentData, error) {
	if err := caller.authorize(userID); err != nil {
		return nil, err
	}

	user, err := l.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		l.logger.Error("사용자 조회 실패", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	data := &studentData{User: user}
	g, gctx := errgroup.WithContext(ctx)

	if withRequirement {
		g.Go(func() error {
			req, err := l.repo.Requirement.FindForMajor(gctx, user.Major, user.EntryYear)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRequirementNotFound
				}
				l.logger.Error("졸업 요건 조회 실패",
					zap.String("major", user.Major), zap.Int("year", user.EntryYear), zap.Error(err))
				return err
			}
			data.Requirement = req
			return nil
		})
	}

	g.Go(func() error {
		t, err := l.repo.Transcript.LatestDone(gctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTranscriptNotFound
			}
			l.logger.Error("성적표 조회 실패", zap.String("user_id", userID), zap.Error(err))
			return err
		}
		data.Transcript = t
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

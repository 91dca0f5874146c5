package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/graduation"
	"gradcheck/backend/internal/model"
	"gradcheck/backend/internal/repository"
	"gradcheck/backend/pkg/metrics"
)

// ── 성적표 모듈 업무 오류 ──

const maxImportRows = 500

var (
	ErrNoTranscript         = fmt.Errorf("성적표가 존재하지 않습니다: %w", graduation.ErrNotFound)
	ErrTranscriptIDNotFound = fmt.Errorf("처리 대상 성적표가 없습니다: %w", graduation.ErrNotFound)
	ErrTranscriptNotReady   = fmt.Errorf("아직 해석이 완료되지 않았거나 결과가 없습니다: %w", graduation.ErrNoData)
	ErrTranscriptPayload    = fmt.Errorf("courses 와 rows 중 하나만 보내야 합니다: %w", graduation.ErrInvalidData)
	ErrTranscriptUnparsable = fmt.Errorf("해석 가능한 과목이 없습니다: %w", graduation.ErrInvalidData)
	ErrTranscriptTooLarge   = fmt.Errorf("과목 행이 %d 개를 넘습니다: %w", maxImportRows, graduation.ErrInvalidData)
	ErrImportFile           = fmt.Errorf("엑셀 파일을 읽을 수 없습니다: %w", graduation.ErrInvalidData)
	ErrTranscriptFinalized  = errors.New("이미 처리가 끝난 성적표입니다")
)

// TranscriptService 성적표 업무 인터페이스
//
// 입력 경로:
//   - Submit: 클라이언트가 해석한 과목 목록(courses) 또는 OCR 표(rows)
//   - Import: .xlsx 시트 (첫 번째 시트, 표 형식은 rows 와 같음)
//   - CreateJob → ApplyWorkerResult: 외부 OCR 워커가 pending 성적표를 채운다
type TranscriptService interface {
	Submit(ctx context.Context, caller Caller, userID string, req *dto.SubmitTranscriptRequest) (*dto.TranscriptResponse, error)
	Import(ctx context.Context, caller Caller, userID string, r io.Reader) (*dto.TranscriptResponse, error)
	CreateJob(ctx context.Context, caller Caller, userID string) (*dto.TranscriptResponse, error)
	ApplyWorkerResult(ctx context.Context, id string, req *dto.WorkerResultRequest) (*dto.TranscriptResponse, error)
	Status(ctx context.Context, caller Caller, userID string) (*dto.TranscriptResponse, error)
	Parsed(ctx context.Context, caller Caller, userID string) (*dto.ParsedTranscriptResponse, error)
}

type transcriptService struct {
	repo    *repository.Repository
	cache   Cache
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewTranscriptService TranscriptService 생성
func NewTranscriptService(repo *repository.Repository, cache Cache, m *metrics.Metrics, logger *zap.Logger) TranscriptService {
	return &transcriptService{repo: repo, cache: cache, metrics: m, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *transcriptService) Submit(ctx context.Context, caller Caller, userID string, req *dto.SubmitTranscriptRequest) (*dto.TranscriptResponse, error) {
	if err := s.checkOwner(ctx, caller, userID); err != nil {
		return nil, err
	}

	courses, rowErrs, source, err := decodePayload(req.Courses, req.Rows)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 && len(rowErrs) > 0 {
		return nil, ErrTranscriptUnparsable
	}
	return s.store(ctx, userID, source, courses, rowErrs)
}

// ────────────────────── Import ──────────────────────

func (s *transcriptService) Import(ctx context.Context, caller Caller, userID string, r io.Reader) (*dto.TranscriptResponse, error) {
	if err := s.checkOwner(ctx, caller, userID); err != nil {
		return nil, err
	}

	rows, err := readSheetRows(r)
	if err != nil {
		s.logger.Warn("엑셀 성적표 해석 실패", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	courses, rowErrs := graduation.ParseRows(rows)
	if len(courses) == 0 && len(rowErrs) > 0 {
		return nil, ErrTranscriptUnparsable
	}
	return s.store(ctx, userID, model.SourceXLSX, courses, rowErrs)
}

// readSheetRows 첫 번째 시트의 행. excelize 는 뒤쪽 빈 칸을 잘라내므로
// 시트에서 가장 넓은 행 기준으로 8열 또는 6열 형식에 맞춰 채운다.
func readSheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFile, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFile, err)
	}
	if len(rows) > maxImportRows+1 {
		return nil, ErrTranscriptTooLarge
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width > graduation.LegacyRowColumns {
		width = graduation.RowColumns
	} else {
		width = graduation.LegacyRowColumns
	}

	for i, row := range rows {
		if len(row) > 0 && len(row) < width {
			rows[i] = append(row, make([]string, width-len(row))...)
		}
	}
	return rows, nil
}

// ────────────────────── CreateJob ──────────────────────

func (s *transcriptService) CreateJob(ctx context.Context, caller Caller, userID string) (*dto.TranscriptResponse, error) {
	if err := s.checkOwner(ctx, caller, userID); err != nil {
		return nil, err
	}

	t := &model.Transcript{UserID: userID, Status: model.TranscriptPending, Source: model.SourceWorker}
	if err := s.repo.Transcript.Create(ctx, t); err != nil {
		s.logger.Error("성적표 작업 생성 실패", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toTranscriptResponse(t)
	return &resp, nil
}

// ────────────────────── ApplyWorkerResult ──────────────────────

func (s *transcriptService) ApplyWorkerResult(ctx context.Context, id string, req *dto.WorkerResultRequest) (*dto.TranscriptResponse, error) {
	var (
		courses []graduation.CourseRecord
		rowErrs []graduation.RowError
	)
	failure := strings.TrimSpace(req.Error)
	if failure == "" {
		var err error
		courses, rowErrs, _, err = decodePayload(req.Courses, req.Rows)
		if err != nil {
			return nil, err
		}
		if len(courses) == 0 && len(rowErrs) > 0 {
			failure = ErrTranscriptUnparsable.Error()
		}
	}

	// 행 잠금으로 같은 작업에 대한 중복 콜백을 직렬화
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("트랜잭션 시작 실패", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()
	rollback := func() {
		if tx != nil {
			tx.Rollback()
		}
	}

	txRepo := s.repo.WithTx(tx)

	t, err := txRepo.Transcript.GetByIDForUpdate(ctx, id)
	if err != nil {
		rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTranscriptIDNotFound
		}
		s.logger.Error("성적표 잠금 조회 실패", zap.String("transcript_id", id), zap.Error(err))
		return nil, err
	}
	if t.Status == model.TranscriptDone || t.Status == model.TranscriptError {
		rollback()
		return nil, ErrTranscriptFinalized
	}

	if failure != "" {
		t.Status = model.TranscriptError
		t.ErrorMessage = failure
	} else {
		t.Status = model.TranscriptDone
		t.ErrorMessage = ""
		t.SetCourses(courses)
	}
	t.RowErrors = rowErrs

	if err := txRepo.Transcript.Update(ctx, t); err != nil {
		rollback()
		s.logger.Error("성적표 결과 저장 실패", zap.String("transcript_id", id), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("트랜잭션 커밋 실패", zap.Error(err))
			return nil, err
		}
	}

	if t.Status == model.TranscriptDone {
		s.metrics.IncTranscript(model.SourceWorker, len(rowErrs))
		s.invalidate(ctx, t.UserID)
	}
	s.logger.Info("OCR 워커 결과 반영",
		zap.String("transcript_id", id), zap.String("status", t.Status), zap.Int("courses", len(courses)))

	resp := toTranscriptResponse(t)
	return &resp, nil
}

// ────────────────────── Status / Parsed ──────────────────────

func (s *transcriptService) Status(ctx context.Context, caller Caller, userID string) (*dto.TranscriptResponse, error) {
	t, err := s.latest(ctx, caller, userID)
	if err != nil {
		return nil, err
	}
	resp := toTranscriptResponse(t)
	return &resp, nil
}

func (s *transcriptService) Parsed(ctx context.Context, caller Caller, userID string) (*dto.ParsedTranscriptResponse, error) {
	t, err := s.latest(ctx, caller, userID)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TranscriptDone || t.ParsedData == nil {
		return nil, ErrTranscriptNotReady
	}

	courses := t.Courses()
	if courses == nil {
		courses = []graduation.CourseRecord{}
	}
	return &dto.ParsedTranscriptResponse{ID: t.TranscriptID, Courses: courses}, nil
}

func (s *transcriptService) latest(ctx context.Context, caller Caller, userID string) (*model.Transcript, error) {
	if err := caller.authorize(userID); err != nil {
		return nil, err
	}
	t, err := s.repo.Transcript.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoTranscript
		}
		s.logger.Error("성적표 조회 실패", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return t, nil
}

// ── 내부 ──

// checkOwner 접근 확인 후 사용자 존재 여부 확인
func (s *transcriptService) checkOwner(ctx context.Context, caller Caller, userID string) error {
	if err := caller.authorize(userID); err != nil {
		return err
	}
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("사용자 조회 실패", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *transcriptService) store(
	ctx context.Context,
	userID, source string,
	courses []graduation.CourseRecord,
	rowErrs []graduation.RowError,
) (*dto.TranscriptResponse, error) {
	t := &model.Transcript{
		UserID:    userID,
		Status:    model.TranscriptDone,
		Source:    source,
		RowErrors: rowErrs,
	}
	t.SetCourses(courses)

	if err := s.repo.Transcript.Create(ctx, t); err != nil {
		s.logger.Error("성적표 저장 실패", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.metrics.IncTranscript(source, len(rowErrs))
	s.invalidate(ctx, userID)
	s.logger.Info("성적표 저장",
		zap.String("user_id", userID),
		zap.String("source", source),
		zap.Int("courses", len(courses)),
		zap.Int("row_errors", len(rowErrs)),
	)

	resp := toTranscriptResponse(t)
	return &resp, nil
}

// invalidate 사용자의 판정 캐시 정리. 키에 성적표 ID 가 들어가므로 실패해도 결과는 정확하다.
func (s *transcriptService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "eval:"+userID+":*"); err != nil {
		s.logger.Warn("판정 캐시 정리 실패", zap.String("user_id", userID), zap.Error(err))
	}
}

// decodePayload courses 와 rows 중 정확히 하나가 있어야 한다.
// 필드 자체가 없으면(nil) 없는 것으로, 빈 배열은 과목이 0 개인 성적표로 본다.
func decodePayload(courses []graduation.CourseRecord, rows [][]string) ([]graduation.CourseRecord, []graduation.RowError, string, error) {
	switch {
	case (courses == nil) == (rows == nil):
		return nil, nil, "", ErrTranscriptPayload
	case rows != nil:
		if len(rows) > maxImportRows {
			return nil, nil, "", ErrTranscriptTooLarge
		}
		records, rowErrs := graduation.ParseRows(rows)
		return records, rowErrs, model.SourceRows, nil
	default:
		records, rowErrs := checkCourses(courses)
		return records, rowErrs, model.SourceJSON, nil
	}
}

// checkCourses 과목명·학수번호가 모두 빈 레코드는 행 오류로 분리한다
func checkCourses(courses []graduation.CourseRecord) ([]graduation.CourseRecord, []graduation.RowError) {
	records := make([]graduation.CourseRecord, 0, len(courses))
	var rowErrs []graduation.RowError
	for i, c := range courses {
		if c.Name == "" && c.Code == "" {
			rowErrs = append(rowErrs, graduation.RowError{Row: i, Reason: "과목명과 학수번호가 모두 비어 있음"})
			continue
		}
		records = append(records, c)
	}
	return records, rowErrs
}

// toTranscriptResponse 성적표 모델 → 응답 DTO
func toTranscriptResponse(t *model.Transcript) dto.TranscriptResponse {
	rowErrs := []graduation.RowError(t.RowErrors)
	if rowErrs == nil {
		rowErrs = []graduation.RowError{}
	}
	return dto.TranscriptResponse{
		ID:           t.TranscriptID,
		Status:       t.Status,
		Source:       t.Source,
		CourseCount:  len(t.Courses()),
		RowErrors:    rowErrs,
		ErrorMessage: t.ErrorMessage,
		CreatedAt:    formatTime(t.CreatedAt),
		UpdatedAt:    formatTime(t.UpdatedAt),
	}
}

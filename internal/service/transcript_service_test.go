package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/graduation"
	"gradcheck/backend/internal/model"
)

var transcriptHeader = []string{"학기", "학수번호", "과목명", "이수구분", "세부구분", "학점", "성적", "재수강"}

func TestTranscriptService_SubmitCourses(t *testing.T) {
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)

	resp, err := env.svc.Transcript.Submit(context.Background(), callerOf(u), u.UserID, &dto.SubmitTranscriptRequest{
		Courses: append(sampleCourses(), graduation.CourseRecord{Credit: 3}),
	})
	if err != nil {
		t.Fatalf("Submit 실패: %v", err)
	}
	if resp.Status != model.TranscriptDone || resp.Source != model.SourceJSON {
		t.Errorf("status=done source=json 기대, 실제 %s/%s", resp.Status, resp.Source)
	}
	if resp.CourseCount != 6 {
		t.Errorf("CourseCount=6 기대, 실제=%d", resp.CourseCount)
	}
	if len(resp.RowErrors) != 1 || resp.RowErrors[0].Row != 6 {
		t.Errorf("이름 없는 과목은 행 오류로 보고해야 함: %+v", resp.RowErrors)
	}
	if len(env.cache.deleted) != 1 || env.cache.deleted[0] != "eval:"+u.UserID+":*" {
		t.Errorf("저장 후 판정 캐시를 정리해야 함: %v", env.cache.deleted)
	}
}

func TestTranscriptService_SubmitRows(t *testing.T) {
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)

	rows := [][]string{
		transcriptHeader,
		{"1-1", "CS101", "프로그래밍기초", "전공필수", "", "3", "A+", ""},
		{"", "", "", "", "", "", "", ""},
		{"2-1", "CS201", "자료구조", "전공필수", "", "삼", "B0", ""},
	}
	resp, err := env.svc.Transcript.Submit(context.Background(), callerOf(u), u.UserID, &dto.SubmitTranscriptRequest{Rows: rows})
	if err != nil {
		t.Fatalf("Submit 실패: %v", err)
	}
	if resp.Source != model.SourceRows || resp.CourseCount != 1 {
		t.Errorf("source=rows, 과목 1개 기대, 실제 %s/%d", resp.Source, resp.CourseCount)
	}
	if len(resp.RowErrors) != 1 {
		t.Errorf("학점이 숫자가 아닌 행은 행 오류, 실제: %+v", resp.RowErrors)
	}
}

func TestTranscriptService_SubmitEmptyList(t *testing.T) {
	tests := []struct {
		name   string
		req    *dto.SubmitTranscriptRequest
		source string
	}{
		{"빈 courses", &dto.SubmitTranscriptRequest{Courses: []graduation.CourseRecord{}}, model.SourceJSON},
		{"빈 rows", &dto.SubmitTranscriptRequest{Rows: [][]string{}}, model.SourceRows},
		{"헤더만 있는 rows", &dto.SubmitTranscriptRequest{Rows: [][]string{transcriptHeader}}, model.SourceRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			u := env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)
			ctx := context.Background()

			resp, err := env.svc.Transcript.Submit(ctx, callerOf(u), u.UserID, tt.req)
			if err != nil {
				t.Fatalf("과목 0개 성적표도 저장되어야 함: %v", err)
			}
			if resp.Status != model.TranscriptDone || resp.Source != tt.source || resp.CourseCount != 0 {
				t.Errorf("done/%s/0 기대, 실제 %s/%s/%d", tt.source, resp.Status, resp.Source, resp.CourseCount)
			}

			parsed, err := env.svc.Transcript.Parsed(ctx, callerOf(u), u.UserID)
			if err != nil {
				t.Fatalf("Parsed 실패: %v", err)
			}
			if parsed.Courses == nil || len(parsed.Courses) != 0 {
				t.Errorf("빈 과목 목록 기대, 실제: %v", parsed.Courses)
			}
		})
	}
}

func TestTranscriptService_SubmitPayloadErrors(t *testing.T) {
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *dto.SubmitTranscriptRequest
		want error
	}{
		{"둘 다 없음", &dto.SubmitTranscriptRequest{}, ErrTranscriptPayload},
		{"둘 다 있음", &dto.SubmitTranscriptRequest{
			Courses: sampleCourses(),
			Rows:    [][]string{{"1-1", "CS101", "프로그래밍기초", "전공필수", "", "3", "A+", ""}},
		}, ErrTranscriptPayload},
		{"해석 가능한 행 없음", &dto.SubmitTranscriptRequest{
			Rows: [][]string{{"1-1", "CS101", "프로그래밍기초", "전공필수", "", "x", "A+", ""}},
		}, ErrTranscriptUnparsable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Transcript.Submit(ctx, callerOf(u), u.UserID, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("%v 기대, 실제: %v", tt.want, err)
			}
			if !errors.Is(err, graduation.ErrInvalidData) {
				t.Errorf("입력 오류는 ErrInvalidData 계열이어야 함: %v", err)
			}
		})
	}

	if _, err := env.svc.Transcript.Status(ctx, callerOf(u), u.UserID); !errors.Is(err, ErrNoTranscript) {
		t.Errorf("실패한 제출은 저장되지 않아야 함, 실제: %v", err)
	}
}

func TestTranscriptService_Submit_Forbidden(t *testing.T) {
	env := newTestEnv()
	owner := env.addUser("C000001", "컴퓨터공학과", 2021, model.RoleStudent)
	other := env.addUser("C000002", "컴퓨터공학과", 2021, model.RoleStudent)
	admin := env.addUser("A000001", "", 2020, model.RoleAdmin)

	req := &dto.SubmitTranscriptRequest{Courses: sampleCourses()}
	if _, err := env.svc.Transcript.Submit(context.Background(), callerOf(other), owner.UserID, req); !errors.Is(err, ErrForbidden) {
		t.Errorf("다른 학생은 ErrForbidden, 실제: %v", err)
	}
	if _, err := env.svc.Transcript.Submit(context.Background(), callerOf(admin), owner.UserID, req); err != nil {
		t.Errorf("관리자는 대신 제출할 수 있어야 함: %v", err)
	}
}

func TestTranscriptService_Import(t *testing.T) {
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"학기", "학수번호", "과목명", "이수구분", "세부구분", "학점", "성적", "재수강"},
		{"1-1", "CS101", "프로그래밍기초", "전공필수", "", 3, "A+"},
		// 뒤쪽 빈 칸은 잘려서 읽힌다
		{"", "", "철학의이해", "드볼", "인문과예술", 3, "A0"},
	}
	for i, row := range rows {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("시트 작성 실패: %v", err)
		}
	}
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatalf("엑셀 쓰기 실패: %v", err)
	}

	resp, err := env.svc.Transcript.Import(context.Background(), callerOf(u), u.UserID, buf)
	if err != nil {
		t.Fatalf("Import 실패: %v", err)
	}
	if resp.Source != model.SourceXLSX || resp.CourseCount != 2 {
		t.Errorf("source=xlsx, 과목 2개 기대, 실제 %s/%d (%+v)", resp.Source, resp.CourseCount, resp.RowErrors)
	}

	parsed, err := env.svc.Transcript.Parsed(context.Background(), callerOf(u), u.UserID)
	if err != nil {
		t.Fatalf("Parsed 실패: %v", err)
	}
	if parsed.Courses[1].Semester != "" {
		t.Errorf("학기 칸이 비면 빈 학기, 실제=%q", parsed.Courses[1].Semester)
	}
}

func TestTranscriptService_Import_NotExcel(t *testing.T) {
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)

	_, err := env.svc.Transcript.Import(context.Background(), callerOf(u), u.UserID, strings.NewReader("not a workbook"))
	if !errors.Is(err, ErrImportFile) {
		t.Errorf("ErrImportFile 기대, 실제: %v", err)
	}
}

func TestTranscriptService_WorkerJob(t *testing.T) {
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)
	ctx := context.Background()

	job, err := env.svc.Transcript.CreateJob(ctx, callerOf(u), u.UserID)
	if err != nil {
		t.Fatalf("CreateJob 실패: %v", err)
	}
	if job.Status != model.TranscriptPending {
		t.Errorf("작업 생성 직후 상태는 pending, 실제=%s", job.Status)
	}

	// 처리 전에는 해석 결과를 볼 수 없다
	if _, err := env.svc.Transcript.Parsed(ctx, callerOf(u), u.UserID); !errors.Is(err, ErrTranscriptNotReady) {
		t.Errorf("ErrTranscriptNotReady 기대, 실제: %v", err)
	}

	done, err := env.svc.Transcript.ApplyWorkerResult(ctx, job.ID, &dto.WorkerResultRequest{Courses: sampleCourses()})
	if err != nil {
		t.Fatalf("ApplyWorkerResult 실패: %v", err)
	}
	if done.Status != model.TranscriptDone || done.CourseCount != len(sampleCourses()) {
		t.Errorf("done 상태와 과목 수 기대, 실제 %s/%d", done.Status, done.CourseCount)
	}

	// 같은 작업에 대한 두 번째 콜백은 거부
	if _, err := env.svc.Transcript.ApplyWorkerResult(ctx, job.ID, &dto.WorkerResultRequest{Error: "timeout"}); !errors.Is(err, ErrTranscriptFinalized) {
		t.Errorf("ErrTranscriptFinalized 기대, 실제: %v", err)
	}

	if _, err := env.svc.Transcript.ApplyWorkerResult(ctx, "tr-999", &dto.WorkerResultRequest{Error: "x"}); !errors.Is(err, ErrTranscriptIDNotFound) {
		t.Errorf("ErrTranscriptIDNotFound 기대, 실제: %v", err)
	}
}

func TestTranscriptService_WorkerEmptyResult(t *testing.T) {
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)
	ctx := context.Background()

	job, err := env.svc.Transcript.CreateJob(ctx, callerOf(u), u.UserID)
	if err != nil {
		t.Fatalf("CreateJob 실패: %v", err)
	}
	resp, err := env.svc.Transcript.ApplyWorkerResult(ctx, job.ID, &dto.WorkerResultRequest{Courses: []graduation.CourseRecord{}})
	if err != nil {
		t.Fatalf("과목이 없는 워커 결과도 받아야 함: %v", err)
	}
	if resp.Status != model.TranscriptDone || resp.CourseCount != 0 {
		t.Errorf("done, 과목 0개 기대, 실제 %s/%d", resp.Status, resp.CourseCount)
	}

	status, err := env.svc.Transcript.Status(ctx, callerOf(u), u.UserID)
	if err != nil {
		t.Fatalf("Status 실패: %v", err)
	}
	if status.ID != job.ID || status.Status != model.TranscriptDone {
		t.Errorf("작업이 pending 에 남으면 안 됨, 실제 %+v", status)
	}

	// 필드가 아예 없는 결과는 여전히 형식 오류
	job2, _ := env.svc.Transcript.CreateJob(ctx, callerOf(u), u.UserID)
	if _, err := env.svc.Transcript.ApplyWorkerResult(ctx, job2.ID, &dto.WorkerResultRequest{}); !errors.Is(err, ErrTranscriptPayload) {
		t.Errorf("ErrTranscriptPayload 기대, 실제: %v", err)
	}
}

func TestTranscriptService_WorkerError(t *testing.T) {
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)
	ctx := context.Background()

	job, _ := env.svc.Transcript.CreateJob(ctx, callerOf(u), u.UserID)
	resp, err := env.svc.Transcript.ApplyWorkerResult(ctx, job.ID, &dto.WorkerResultRequest{Error: " OCR 실패 "})
	if err != nil {
		t.Fatalf("ApplyWorkerResult 실패: %v", err)
	}
	if resp.Status != model.TranscriptError || resp.ErrorMessage != "OCR 실패" {
		t.Errorf("status=error, 메시지 보존 기대, 실제 %s/%q", resp.Status, resp.ErrorMessage)
	}

	status, err := env.svc.Transcript.Status(ctx, callerOf(u), u.UserID)
	if err != nil {
		t.Fatalf("Status 실패: %v", err)
	}
	if status.ID != job.ID || status.Status != model.TranscriptError {
		t.Errorf("최신 성적표 상태는 error, 실제 %+v", status)
	}
}

package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"gradcheck/backend/internal/graduation"
	"gradcheck/backend/internal/model"
)

func TestSemesterService_Overview(t *testing.T) {
	env, u := setupAnalysis(t)
	ctx := context.Background()

	resp, err := env.svc.Semester.Overview(ctx, callerOf(u), u.UserID, "")
	if err != nil {
		t.Fatalf("Overview 실패: %v", err)
	}
	want := []string{"1-1", "1-2", "2-1", "3-1", graduation.OtherSemester}
	if !reflect.DeepEqual(resp.Semesters, want) {
		t.Errorf("학기 순서 불일치\n기대: %v\n실제: %v", want, resp.Semesters)
	}

	filtered, err := env.svc.Semester.Overview(ctx, callerOf(u), u.UserID, " 전공 ,")
	if err != nil {
		t.Fatalf("Overview(filter) 실패: %v", err)
	}
	if !reflect.DeepEqual(filtered.Semesters, []string{"1-1", "2-1", "3-1"}) {
		t.Errorf("전공 과목 학기만 남아야 함: %v", filtered.Semesters)
	}
}

func TestSemesterService_Overview_NoMatch(t *testing.T) {
	env, u := setupAnalysis(t)

	resp, err := env.svc.Semester.Overview(context.Background(), callerOf(u), u.UserID, "MSC")
	if err != nil {
		t.Fatalf("Overview 실패: %v", err)
	}
	if len(resp.Semesters) != 0 || resp.Courses == nil {
		t.Errorf("일치하는 과목이 없으면 빈 결과(비 nil): %+v", resp)
	}
}

func TestSemesterService_Detail(t *testing.T) {
	env, u := setupAnalysis(t)
	ctx := context.Background()

	tests := []struct {
		semester string
		count    int
		credit   int
	}{
		{"1-1", 2, 6},
		{"3-1", 1, 0}, // F 과목은 목록에는 있지만 학점에서 제외
		{graduation.OtherSemester, 1, 3},
		{"4-2", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.semester, func(t *testing.T) {
			resp, err := env.svc.Semester.Detail(ctx, callerOf(u), u.UserID, tt.semester)
			if err != nil {
				t.Fatalf("Detail 실패: %v", err)
			}
			if len(resp.Courses) != tt.count || resp.TotalCredit != tt.credit {
				t.Errorf("%d과목 %d학점 기대, 실제 %d과목 %d학점", tt.count, tt.credit, len(resp.Courses), resp.TotalCredit)
			}
			if resp.Courses == nil {
				t.Error("과목이 없어도 빈 배열이어야 함")
			}
		})
	}
}

func TestSemesterService_MissingRequired(t *testing.T) {
	env, u := setupAnalysis(t)
	ctx := context.Background()

	resp, err := env.svc.Semester.MissingRequired(ctx, callerOf(u), u.UserID, "3-1")
	if err != nil {
		t.Fatalf("MissingRequired 실패: %v", err)
	}
	if len(resp.Missing) != 1 || resp.Missing[0].Code != "CS301" {
		t.Errorf("3-1 학기 CS301 미이수 기대: %+v", resp.Missing)
	}

	resp, err = env.svc.Semester.MissingRequired(ctx, callerOf(u), u.UserID, "1-1")
	if err != nil {
		t.Fatalf("MissingRequired 실패: %v", err)
	}
	if resp.Missing == nil || len(resp.Missing) != 0 {
		t.Errorf("1-1 학기는 미이수 없음(빈 목록): %+v", resp.Missing)
	}
}

func TestSemesterService_NoTranscript(t *testing.T) {
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2023, model.RoleStudent)

	if _, err := env.svc.Semester.Overview(context.Background(), callerOf(u), u.UserID, ""); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("ErrTranscriptNotFound 기대, 실제: %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"gradcheck/backend/internal/graduation"
	"gradcheck/backend/internal/model"
)

// setupAnalysis 요건·성적표가 모두 있는 학생 한 명
func setupAnalysis(t *testing.T) (*testEnv, *model.User) {
	t.Helper()
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2023, model.RoleStudent)
	env.addRequirement("컴퓨터공학과", 2022)
	env.addDoneTranscript(u.UserID, sampleCourses())
	return env, u
}

func TestAnalysisService_Evaluate(t *testing.T) {
	env, u := setupAnalysis(t)

	result, err := env.svc.Analysis.Evaluate(context.Background(), callerOf(u), u.UserID, false)
	if err != nil {
		t.Fatalf("Evaluate 실패: %v", err)
	}
	if result.Status != graduation.StatusPending {
		t.Errorf("status=pending 기대, 실제=%s", result.Status)
	}

	want := []string{"총 학점 5학점 부족", "전공 3학점 부족", "드볼 1개 영역 부족", "전공 필수 미이수: 운영체제"}
	if !reflect.DeepEqual(result.Deficiencies, want) {
		t.Errorf("부족 항목 불일치\n기대: %v\n실제: %v", want, result.Deficiencies)
	}
	if result.Message != strings.Join(want, " / ") {
		t.Errorf("메시지 불일치: %q", result.Message)
	}
	if result.MissingGeneralCourses != nil {
		t.Error("include_general 이 꺼져 있으면 교양필수 미이수 목록은 비어 있어야 함")
	}
}

func TestAnalysisService_Evaluate_UsesCache(t *testing.T) {
	env, u := setupAnalysis(t)
	ctx := context.Background()

	first, err := env.svc.Analysis.Evaluate(ctx, callerOf(u), u.UserID, true)
	if err != nil {
		t.Fatalf("Evaluate 실패: %v", err)
	}
	keys := env.cache.keys()
	if len(keys) != 1 || !strings.HasPrefix(keys[0], "eval:"+u.UserID+":") || !strings.HasSuffix(keys[0], ":v1:gtrue") {
		t.Fatalf("판정 결과가 캐시에 저장되어야 함: %v", keys)
	}

	second, err := env.svc.Analysis.Evaluate(ctx, callerOf(u), u.UserID, true)
	if err != nil {
		t.Fatalf("두 번째 Evaluate 실패: %v", err)
	}
	if second.Message != first.Message || second.Status != first.Status {
		t.Errorf("캐시 결과가 원래 결과와 달라짐: %q vs %q", second.Message, first.Message)
	}

	// 새 성적표를 제출하면 캐시 키가 바뀐다
	env.addDoneTranscript(u.UserID, sampleCourses()[:2])
	third, err := env.svc.Analysis.Evaluate(ctx, callerOf(u), u.UserID, true)
	if err != nil {
		t.Fatalf("세 번째 Evaluate 실패: %v", err)
	}
	if third.Credits.Total.Completed != 6 {
		t.Errorf("새 성적표 기준으로 다시 계산해야 함, 총 이수=%d", third.Credits.Total.Completed)
	}
}

func TestAnalysisService_Forbidden(t *testing.T) {
	env, u := setupAnalysis(t)
	other := env.addUser("C000002", "컴퓨터공학과", 2023, model.RoleStudent)
	admin := env.addUser("A000001", "", 2020, model.RoleAdmin)

	if _, err := env.svc.Analysis.Evaluate(context.Background(), callerOf(other), u.UserID, false); !errors.Is(err, ErrForbidden) {
		t.Errorf("다른 학생의 판정은 ErrForbidden, 실제: %v", err)
	}
	if _, err := env.svc.Analysis.Evaluate(context.Background(), callerOf(admin), u.UserID, false); err != nil {
		t.Errorf("관리자는 조회 가능해야 함: %v", err)
	}
}

func TestAnalysisService_NotFoundChain(t *testing.T) {
	ctx := context.Background()

	t.Run("사용자 없음", func(t *testing.T) {
		env := newTestEnv()
		admin := env.addUser("A000001", "", 2020, model.RoleAdmin)
		_, err := env.svc.Analysis.Evaluate(ctx, callerOf(admin), "uid-999", false)
		if !errors.Is(err, ErrUserNotFound) || !errors.Is(err, graduation.ErrNotFound) {
			t.Errorf("ErrUserNotFound 기대, 실제: %v", err)
		}
	})

	t.Run("요건 없음", func(t *testing.T) {
		env := newTestEnv()
		u := env.addUser("C135195", "건축학과", 2023, model.RoleStudent)
		env.addDoneTranscript(u.UserID, sampleCourses())
		_, err := env.svc.Analysis.Evaluate(ctx, callerOf(u), u.UserID, false)
		if !errors.Is(err, ErrRequirementNotFound) || !errors.Is(err, graduation.ErrNotFound) {
			t.Errorf("ErrRequirementNotFound 기대, 실제: %v", err)
		}
	})

	t.Run("성적표 없음", func(t *testing.T) {
		env := newTestEnv()
		u := env.addUser("C135195", "컴퓨터공학과", 2023, model.RoleStudent)
		env.addRequirement("컴퓨터공학과", 2022)
		_, err := env.svc.Analysis.Evaluate(ctx, callerOf(u), u.UserID, false)
		if !errors.Is(err, ErrTranscriptNotFound) || !errors.Is(err, graduation.ErrNotFound) {
			t.Errorf("ErrTranscriptNotFound 기대, 실제: %v", err)
		}
	})
}

func TestAnalysisService_EmptyTranscript(t *testing.T) {
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2023, model.RoleStudent)
	env.addRequirement("컴퓨터공학과", 2022)
	env.addDoneTranscript(u.UserID, nil)

	result, err := env.svc.Analysis.Evaluate(context.Background(), callerOf(u), u.UserID, false)
	if err != nil {
		t.Fatalf("과목이 없어도 판정은 성공해야 함: %v", err)
	}
	if result.Credits.Total.Completed != 0 || result.Status != graduation.StatusPending {
		t.Errorf("모든 학점 0, pending 기대: %+v", result.Credits.Total)
	}
}

func TestAnalysisService_CategoryCourses(t *testing.T) {
	env, u := setupAnalysis(t)
	ctx := context.Background()

	resp, err := env.svc.Analysis.CategoryCourses(ctx, callerOf(u), u.UserID, "drbol")
	if err != nil {
		t.Fatalf("CategoryCourses 실패: %v", err)
	}
	if len(resp.Courses) != 2 || resp.TotalCredit != 6 {
		t.Errorf("드볼 2과목 6학점 기대, 실제 %d과목 %d학점", len(resp.Courses), resp.TotalCredit)
	}

	if _, err := env.svc.Analysis.CategoryCourses(ctx, callerOf(u), u.UserID, "unknown"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ErrInvalidCategory 기대, 실제: %v", err)
	}
}

func TestAnalysisService_DrbolAndMissing(t *testing.T) {
	env, u := setupAnalysis(t)
	ctx := context.Background()

	dist, err := env.svc.Analysis.Drbol(ctx, callerOf(u), u.UserID)
	if err != nil {
		t.Fatalf("Drbol 실패: %v", err)
	}
	if dist.CoveredAreas != 2 || !reflect.DeepEqual(dist.MissingAreas, []string{"자연과기술"}) {
		t.Errorf("2개 영역 이수, 자연과기술 미이수 기대: %+v", dist)
	}

	missing, err := env.svc.Analysis.MissingRequired(ctx, callerOf(u), u.UserID)
	if err != nil {
		t.Fatalf("MissingRequired 실패: %v", err)
	}
	if missing.Total != 1 || len(missing.Missing) != 1 ||
		missing.Missing[0].Semester != "3-1" || missing.Missing[0].Items[0].Name != "운영체제" {
		t.Errorf("3-1 학기 운영체제 1과목 기대: %+v", missing)
	}
}

func TestAnalysisService_Roadmap(t *testing.T) {
	env, u := setupAnalysis(t)

	resp, err := env.svc.Analysis.Roadmap(context.Background(), callerOf(u), u.UserID)
	if err != nil {
		t.Fatalf("Roadmap 실패: %v", err)
	}
	if resp.Total != 3 || resp.Completed != 2 {
		t.Errorf("3과목 중 2과목 이수 기대, 실제 %d/%d", resp.Completed, resp.Total)
	}
	if resp.Entries[2].Completed || resp.Entries[2].TakenSemester != "" {
		t.Errorf("F 학점 과목은 미이수: %+v", resp.Entries[2])
	}
}

package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"gradcheck/backend/internal/model"
)

func TestExportService_ExportAnalysis(t *testing.T) {
	env, u := setupAnalysis(t)

	buf, filename, err := env.svc.Export.ExportAnalysis(context.Background(), callerOf(u), u.UserID)
	if err != nil {
		t.Fatalf("ExportAnalysis 실패: %v", err)
	}
	if filename != "졸업판정_C135195.xlsx" {
		t.Errorf("파일 이름 불일치: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("생성된 파일을 열 수 없음: %v", err)
	}
	defer f.Close()

	wantSheets := []string{"요약", "전공필수", "드볼", "이수과목"}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, wantSheets) {
		t.Errorf("시트 목록 불일치\n기대: %v\n실제: %v", wantSheets, got)
	}

	title, _ := f.GetCellValue("요약", "A1")
	if title != "홍길동 (C135195) 졸업 요건 판정" {
		t.Errorf("요약 제목 불일치: %q", title)
	}
	// 총 학점 행: 이수 15 / 요구 20 / 부족 5
	shortfall, _ := f.GetCellValue("요약", "D6")
	if shortfall != "5" {
		t.Errorf("총 학점 부족 5 기대, 실제=%q", shortfall)
	}

	rows, err := f.GetRows("전공필수")
	if err != nil {
		t.Fatalf("전공필수 시트 읽기 실패: %v", err)
	}
	if len(rows) != 4 || rows[3][1] != "운영체제" || rows[3][3] != "미이수" {
		t.Errorf("전공필수 시트 내용 불일치: %v", rows)
	}

	courseRows, _ := f.GetRows("이수과목")
	if len(courseRows) != 1+len(sampleCourses()) {
		t.Errorf("이수과목 시트에는 F 과목 포함 전체가 있어야 함, 실제 행 수=%d", len(courseRows))
	}
}

func TestExportService_Forbidden(t *testing.T) {
	env, u := setupAnalysis(t)
	other := env.addUser("C000002", "컴퓨터공학과", 2023, model.RoleStudent)

	if _, _, err := env.svc.Export.ExportAnalysis(context.Background(), callerOf(other), u.UserID); !errors.Is(err, ErrForbidden) {
		t.Errorf("ErrForbidden 기대, 실제: %v", err)
	}
}

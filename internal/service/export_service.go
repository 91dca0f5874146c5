package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gradcheck/backend/internal/graduation"
)

// ── 내보내기 모듈 업무 오류 ──

var ErrExportGenerateFail = errors.New("엑셀 파일 생성에 실패했습니다")

// ExportService 내보내기 업무 인터페이스
//
// 졸업 판정 보고서 (.xlsx) 구성:
//   - "요약": 학생 정보, 판정 상태, 구분별 이수/요구/부족 학점, 부족 항목
//   - "전공필수": 요건 과목별 계획 학기·이수 여부·이수 학기
//   - "드볼": 영역별 과목 수·학점·이수 여부
//   - "이수과목": 학기 순 전체 과목 (F·재수강 포함)
//
// 결과는 bytes.Buffer 로 반환하고 HTTP 헤더는 Handler 가 설정한다.
type ExportService interface {
	ExportAnalysis(ctx context.Context, caller Caller, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	analysis AnalysisService
	logger   *zap.Logger
}

// NewExportService ExportService 생성
func NewExportService(analysis AnalysisService, logger *zap.Logger) ExportService {
	return &exportService{analysis: analysis, logger: logger}
}

const (
	sheetSummary = "요약"
	sheetRoadmap = "전공필수"
	sheetDrbol   = "드볼"
	sheetCourses = "이수과목"
)

func (s *exportService) ExportAnalysis(ctx context.Context, caller Caller, userID string) (*bytes.Buffer, string, error) {
	report, err := s.analysis.Report(ctx, caller, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	shortStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
	})

	// 기본 Sheet1 을 요약 시트로 사용
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		s.logger.Error("시트 이름 변경 실패", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	for _, name := range []string{sheetRoadmap, sheetDrbol, sheetCourses} {
		if _, err := f.NewSheet(name); err != nil {
			s.logger.Error("시트 생성 실패", zap.String("sheet", name), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	writeSummarySheet(f, report, headerStyle, shortStyle)
	writeRoadmapSheet(f, report.Roadmap, headerStyle)
	writeDrbolSheet(f, report.Result.Drbol, headerStyle)
	writeCoursesSheet(f, report.Courses, headerStyle)
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("엑셀 쓰기 실패", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("졸업판정_%s.xlsx", report.User.StudentID)
	return buf, filename, nil
}

// ── 시트 작성 ──

func writeSummarySheet(f *excelize.File, r *Report, headerStyle, shortStyle int) {
	sh := sheetSummary
	f.SetColWidth(sh, "A", "A", 18)
	f.SetColWidth(sh, "B", "D", 12)

	f.SetCellValue(sh, "A1", fmt.Sprintf("%s (%s) 졸업 요건 판정", r.User.FullName, r.User.StudentID))
	f.MergeCell(sh, "A1", "D1")
	f.SetCellStyle(sh, "A1", "D1", headerStyle)

	f.SetCellValue(sh, "A2", "학과")
	f.SetCellValue(sh, "B2", r.Spec.Major)
	f.SetCellValue(sh, "C2", "적용 연도")
	f.SetCellValue(sh, "D2", r.Spec.Year)
	f.SetCellValue(sh, "A3", "판정")
	f.SetCellValue(sh, "B3", r.Result.Message)

	row := 5
	for i, h := range []string{"구분", "이수", "요구", "부족"} {
		f.SetCellValue(sh, cell(colName(i), row), h)
	}
	f.SetCellStyle(sh, cell("A", row), cell("D", row), headerStyle)

	c := r.Result.Credits
	for _, line := range []struct {
		label string
		pair  graduation.CreditPair
	}{
		{"총 학점", c.Total},
		{"전공", c.Major},
		{"교양", c.General},
		{"드볼", c.Drbol},
		{"SW/데이터활용", c.SW},
		{"MSC", c.MSC},
		{"특성화교양", c.SpecialGeneral},
	} {
		row++
		f.SetCellValue(sh, cell("A", row), line.label)
		f.SetCellValue(sh, cell("B", row), line.pair.Completed)
		f.SetCellValue(sh, cell("C", row), line.pair.Required)
		f.SetCellValue(sh, cell("D", row), line.pair.Shortfall())
		if line.pair.Shortfall() > 0 {
			f.SetCellStyle(sh, cell("D", row), cell("D", row), shortStyle)
		}
	}

	row += 2
	f.SetCellValue(sh, cell("A", row), "부족 항목")
	f.SetCellStyle(sh, cell("A", row), cell("A", row), headerStyle)
	if len(r.Result.Deficiencies) == 0 {
		f.SetCellValue(sh, cell("B", row), "-")
	}
	for _, d := range r.Result.Deficiencies {
		f.SetCellValue(sh, cell("B", row), d)
		row++
	}
}

func writeRoadmapSheet(f *excelize.File, entries []graduation.RoadmapEntry, headerStyle int) {
	sh := sheetRoadmap
	f.SetColWidth(sh, "A", "A", 12)
	f.SetColWidth(sh, "B", "B", 28)
	f.SetColWidth(sh, "C", "E", 12)

	writeHeader(f, sh, []string{"학수번호", "과목명", "계획 학기", "이수", "이수 학기"}, headerStyle)
	for i, e := range entries {
		row := i + 2
		done := "미이수"
		if e.Completed {
			done = "이수"
		}
		f.SetCellValue(sh, cell("A", row), e.Code)
		f.SetCellValue(sh, cell("B", row), e.Name)
		f.SetCellValue(sh, cell("C", row), e.PlannedSemester)
		f.SetCellValue(sh, cell("D", row), done)
		f.SetCellValue(sh, cell("E", row), e.TakenSemester)
	}
}

func writeDrbolSheet(f *excelize.File, d graduation.Distribution, headerStyle int) {
	sh := sheetDrbol
	f.SetColWidth(sh, "A", "A", 16)
	f.SetColWidth(sh, "B", "D", 10)

	writeHeader(f, sh, []string{"영역", "과목 수", "학점", "이수"}, headerStyle)
	row := 2
	for _, a := range d.Areas {
		covered := "-"
		if a.Covered {
			covered = "O"
		}
		f.SetCellValue(sh, cell("A", row), a.Area)
		f.SetCellValue(sh, cell("B", row), a.CourseCount)
		f.SetCellValue(sh, cell("C", row), a.Credit)
		f.SetCellValue(sh, cell("D", row), covered)
		row++
	}

	row++
	f.SetCellValue(sh, cell("A", row), "이수 영역")
	f.SetCellValue(sh, cell("B", row), fmt.Sprintf("%d / %d", d.CoveredAreas, d.RequiredAreas))
	row++
	f.SetCellValue(sh, cell("A", row), "영역 학점")
	f.SetCellValue(sh, cell("B", row), fmt.Sprintf("%d / %d", d.TotalCredit, d.RequiredCredit))
}

func writeCoursesSheet(f *excelize.File, courses []graduation.CourseRecord, headerStyle int) {
	sh := sheetCourses
	f.SetColWidth(sh, "A", "B", 10)
	f.SetColWidth(sh, "C", "C", 28)
	f.SetColWidth(sh, "D", "H", 10)

	writeHeader(f, sh, []string{"학기", "학수번호", "과목명", "이수구분", "세부구분", "학점", "성적", "재수강"}, headerStyle)
	row := 2
	for _, grp := range graduation.GroupBySemester(courses) {
		for _, c := range grp.Items {
			retake := ""
			if c.Retake {
				retake = "Y"
			}
			f.SetCellValue(sh, cell("A", row), grp.Semester)
			f.SetCellValue(sh, cell("B", row), c.Code)
			f.SetCellValue(sh, cell("C", row), c.Name)
			f.SetCellValue(sh, cell("D", row), c.Type)
			f.SetCellValue(sh, cell("E", row), c.MajorField)
			f.SetCellValue(sh, cell("F", row), c.Credit)
			f.SetCellValue(sh, cell("G", row), c.Grade)
			f.SetCellValue(sh, cell("H", row), retake)
			row++
		}
	}
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), style)
}

// colName 0 부터 시작하는 열 번호 → "A", "B", ...
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

// cell "A" + 3 → "A3"
func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

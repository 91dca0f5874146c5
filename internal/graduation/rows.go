package graduation

import (
	"fmt"
	"strings"
)

// 표 형식 성적표의 열 구성
const (
	// RowColumns [학기, 학수번호, 과목명, 이수구분, 세부구분, 학점, 성적, 재수강]
	RowColumns = 8
	// LegacyRowColumns [학기, 학수번호, 과목명, 학점, 성적, 재수강]
	LegacyRowColumns = 6
)

// RowError 해석하지 못한 행
type RowError struct {
	Row    int    `json:"row"` // 0부터 시작하는 입력 행 번호
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("%d행: %s", e.Row+1, e.Reason)
}

// headerCells 머리글 행의 첫 칸
var headerCells = map[string]bool{"학기": true, "이수학기": true, "semester": true, "년도-학기": true}

// ParseRows OCR 표 결과(2차원 문자열 배열)를 과목 레코드로 변환한다.
// 빈 행과 머리글 행은 건너뛰고, 형식이 맞지 않는 행은 RowError 로 보고한 뒤 계속 진행한다.
func ParseRows(rows [][]string) ([]CourseRecord, []RowError) {
	records := make([]CourseRecord, 0, len(rows))
	var rowErrs []RowError

	for i, row := range rows {
		cells := make([]string, len(row))
		blank := true
		for j, c := range row {
			cells[j] = strings.TrimSpace(c)
			if cells[j] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if headerCells[strings.ToLower(cells[0])] {
			continue
		}

		var rec CourseRecord
		var creditText string
		switch len(cells) {
		case RowColumns:
			rec = CourseRecord{
				Semester:   cells[0],
				Code:       cells[1],
				Name:       cells[2],
				Type:       cells[3],
				MajorField: cells[4],
				Grade:      strings.ToUpper(cells[6]),
				Retake:     ParseRetake(cells[7]),
			}
			creditText = cells[5]
		case LegacyRowColumns:
			rec = CourseRecord{
				Semester: cells[0],
				Code:     cells[1],
				Name:     cells[2],
				Grade:    strings.ToUpper(cells[4]),
				Retake:   ParseRetake(cells[5]),
			}
			creditText = cells[3]
		default:
			rowErrs = append(rowErrs, RowError{
				Row:    i,
				Reason: fmt.Sprintf("열 개수 %d (%d 또는 %d 필요)", len(cells), RowColumns, LegacyRowColumns),
			})
			continue
		}

		if rec.Name == "" && rec.Code == "" {
			rowErrs = append(rowErrs, RowError{Row: i, Reason: "과목명과 학수번호가 모두 비어 있음"})
			continue
		}
		credit, ok := parseCreditStrict(creditText)
		if !ok {
			rowErrs = append(rowErrs, RowError{Row: i, Reason: fmt.Sprintf("학점 %q 해석 불가 (0~%d)", creditText, MaxCredit)})
			continue
		}
		rec.Credit = credit
		records = append(records, rec)
	}
	return records, rowErrs
}

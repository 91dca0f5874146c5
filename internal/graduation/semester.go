package graduation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// OtherSemester 학기 정보가 없는 항목의 버킷
const OtherSemester = "기타"

var semesterPattern = regexp.MustCompile(`^(\d{1,4})-(\d{1,2})$`)

// Semester "<year>-<term>" 형식 학기 라벨의 해석 결과
type Semester struct {
	Year int
	Term int
}

// ParseSemester 학기 라벨 해석. 형식이 다르면 ok=false.
func ParseSemester(label string) (Semester, bool) {
	m := semesterPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return Semester{}, false
	}
	year, _ := strconv.Atoi(m[1])
	term, _ := strconv.Atoi(m[2])
	return Semester{Year: year, Term: term}, true
}

// ValidSemesterLabel 빈 값이거나 "<year>-<term>" 형식이면 true
func ValidSemesterLabel(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return true
	}
	_, ok := ParseSemester(label)
	return ok
}

// semesterBucket 그룹 키. 비어 있으면 OtherSemester.
func semesterBucket(label string) string {
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return OtherSemester
}

// semesterLess 학기 정렬: (year, term) 오름차순, 해석 불가 라벨은 뒤로(사전순), "기타"는 맨 뒤
func semesterLess(a, b string) bool {
	if a == OtherSemester || b == OtherSemester {
		return b == OtherSemester && a != OtherSemester
	}
	sa, okA := ParseSemester(a)
	sb, okB := ParseSemester(b)
	switch {
	case okA && okB:
		if sa.Year != sb.Year {
			return sa.Year < sb.Year
		}
		if sa.Term != sb.Term {
			return sa.Term < sb.Term
		}
		return a < b
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// SortSemesters 학기 라벨을 정렬한 새 슬라이스 반환
func SortSemesters(labels []string) []string {
	sorted := append([]string(nil), labels...)
	sort.SliceStable(sorted, func(i, j int) bool { return semesterLess(sorted[i], sorted[j]) })
	return sorted
}

// ── 학기별 순서 보장 그룹 ──

// SemesterGroup 한 학기의 항목 목록
type SemesterGroup[T any] struct {
	Semester string `json:"semester"`
	Items    []T    `json:"items"`
}

// SemesterGroups 학기 순으로 정렬된 그룹 목록.
// JSON 으로는 {"1-1": [...], "1-2": [...]} 형태의 순서 있는 객체가 된다.
type SemesterGroups[T any] []SemesterGroup[T]

// Semesters 그룹 키 목록 (정렬 순서)
func (g SemesterGroups[T]) Semesters() []string {
	labels := make([]string, len(g))
	for i, grp := range g {
		labels[i] = grp.Semester
	}
	return labels
}

// MarshalJSON 정렬 순서를 유지한 JSON 객체로 직렬화
func (g SemesterGroups[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, grp := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(grp.Semester)
		if err != nil {
			return nil, err
		}
		items := grp.Items
		if items == nil {
			items = []T{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 객체의 키 순서를 그대로 그룹 순서로 복원한다
func (g *SemesterGroups[T]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*g = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("학기 그룹은 JSON 객체여야 합니다: %v", tok)
	}

	groups := SemesterGroups[T]{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("잘못된 학기 키: %v", keyTok)
		}
		var items []T
		if err := dec.Decode(&items); err != nil {
			return err
		}
		groups = append(groups, SemesterGroup[T]{Semester: key, Items: items})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = groups
	return nil
}

// groupBySemester 입력 순서를 유지하며 학기별로 묶은 뒤 학기 순으로 정렬
func groupBySemester[T any](items []T, label func(T) string) SemesterGroups[T] {
	index := make(map[string]int)
	var groups SemesterGroups[T]
	for _, it := range items {
		key := semesterBucket(label(it))
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, SemesterGroup[T]{Semester: key})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return semesterLess(groups[i].Semester, groups[j].Semester)
	})
	return groups
}

// GroupBySemester 과목 레코드를 학기별로 묶는다 (학기 없는 과목은 "기타")
func GroupBySemester(records []CourseRecord) SemesterGroups[CourseRecord] {
	return groupBySemester(records, func(r CourseRecord) string { return r.Semester })
}

// CoursesInSemester 특정 학기 과목 (입력 순서 유지). "기타" 는 학기 정보가 없는 과목.
// 해당 과목이 없으면 빈 슬라이스.
func CoursesInSemester(records []CourseRecord, semester string) []CourseRecord {
	semester = semesterBucket(semester)
	result := []CourseRecord{}
	for _, r := range records {
		if semesterBucket(r.Semester) == semester {
			result = append(result, r)
		}
	}
	return result
}

package graduation

import "strings"

// RequirementItem 요건 과목 목록의 한 항목
type RequirementItem struct {
	Code     string   `json:"code,omitempty"`
	Name     string   `json:"name"`
	Semester string   `json:"semester,omitempty"`
	Aliases  []string `json:"aliases,omitempty"`
}

// Key 요건 항목 식별 키
func (i RequirementItem) Key() string {
	return IdentityKey(i.Code, i.Name)
}

// Ref 응답용 축약 표현
func (i RequirementItem) Ref() CourseRef {
	return CourseRef{Code: strings.TrimSpace(i.Code), Name: i.Name}
}

// CourseRef 과목 {code, name} 쌍
type CourseRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Minimums 구분별 최소 이수 학점
type Minimums struct {
	Total          int `json:"total"`
	Major          int `json:"major"`
	General        int `json:"general"`
	Drbol          int `json:"drbol"`
	SpecialGeneral int `json:"special_general"`
	SW             int `json:"sw"`
	MSC            int `json:"msc"`
}

// DefaultMinimums 학칙 기본값
func DefaultMinimums() Minimums {
	return Minimums{
		Total:          132,
		Major:          50,
		General:        8,
		Drbol:          18,
		SpecialGeneral: 3,
		SW:             9,
		MSC:            23,
	}
}

// clamp 음수 최소 학점은 0 으로 본다
func (m Minimums) clamp() Minimums {
	for _, p := range []*int{&m.Total, &m.Major, &m.General, &m.Drbol, &m.SpecialGeneral, &m.SW, &m.MSC} {
		if *p < 0 {
			*p = 0
		}
	}
	return m
}

// ── 드볼 규칙 ──

// maxRequiredAreas 정의된 영역이 더 많아도 요구되는 영역 수 상한
const maxRequiredAreas = 6

// AreaRule 영역별 요구 학점
type AreaRule struct {
	Area           string `json:"area"`
	RequiredCredit int    `json:"required_credit"`
}

// AreaCourses 영역별 개설 과목 (미이수 영역 추천용)
type AreaCourses struct {
	Area    string            `json:"area"`
	Courses []RequirementItem `json:"courses"`
}

// DrbolRule 드볼 규칙.
// AreaRules 가 있으면 영역 목록과 요구 학점을 그것에서 얻고,
// 없으면 Areas(콤마 구분)와 RequiredCredit(총 학점)을 사용한다.
type DrbolRule struct {
	Areas          string        `json:"areas,omitempty"`
	RequiredCredit int           `json:"required_credit"`
	AreaRules      []AreaRule    `json:"area_rules,omitempty"`
	AreaCourses    []AreaCourses `json:"area_courses,omitempty"`
}

// AreaNames 영역 이름 목록 (공백 제거, 빈 값·중복 제외, 설정 순서 유지)
func (r DrbolRule) AreaNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(r.AreaRules) > 0 {
		for _, ar := range r.AreaRules {
			add(ar.Area)
		}
		return names
	}
	for _, part := range strings.Split(r.Areas, ",") {
		add(part)
	}
	return names
}

// perArea 영역별 요구 학점 모드 여부
func (r DrbolRule) perArea() bool {
	return len(r.AreaRules) > 0
}

// areaRequired 영역별 요구 학점 (영역 모드가 아니면 0)
func (r DrbolRule) areaRequired(area string) int {
	for _, ar := range r.AreaRules {
		if strings.TrimSpace(ar.Area) == area && ar.RequiredCredit > 0 {
			return ar.RequiredCredit
		}
	}
	return 0
}

// RequiredTotal 드볼 요구 총 학점
func (r DrbolRule) RequiredTotal(fallback int) int {
	if r.perArea() {
		sum := 0
		for _, name := range r.AreaNames() {
			sum += r.areaRequired(name)
		}
		return sum
	}
	if r.RequiredCredit > 0 {
		return r.RequiredCredit
	}
	if fallback < 0 {
		return 0
	}
	return fallback
}

// coursesFor 영역 개설 과목
func (r DrbolRule) coursesFor(area string) []RequirementItem {
	for _, ac := range r.AreaCourses {
		if strings.TrimSpace(ac.Area) == area {
			return ac.Courses
		}
	}
	return nil
}

// ── 학과 졸업 요건 ──

// RequirementSpec 한 학과(입학년도)의 졸업 요건
type RequirementSpec struct {
	Major    string   `json:"major"`
	Year     int      `json:"year"`
	Minimums Minimums `json:"minimums"`

	MajorRequired   []RequirementItem `json:"major_required"`
	MajorElective   []RequirementItem `json:"major_elective"`
	GeneralRequired []RequirementItem `json:"general_required"`
	GeneralElective []RequirementItem `json:"general_elective"`
	SpecialGeneral  []RequirementItem `json:"special_general"`
	SW              []RequirementItem `json:"sw"`
	MSC             []RequirementItem `json:"msc"`

	Drbol DrbolRule `json:"drbol"`
}

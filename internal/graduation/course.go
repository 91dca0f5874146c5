package graduation

import (
	"strings"
)

// GradeFail 집계에서 제외되는 성적
const GradeFail = "F"

// CourseRecord 성적표의 이수 과목 한 건 (OCR/파서가 만든 구조화 데이터)
type CourseRecord struct {
	Code       string `json:"code,omitempty"`
	Name       string `json:"name"`
	Credit     int    `json:"credit"`
	Type       string `json:"type"`
	MajorField string `json:"major_field"`
	Grade      string `json:"grade"`
	Retake     bool   `json:"retake"`
	Semester   string `json:"semester"`
}

// Valid F 학점도 재수강도 아닌 과목만 요건 계산에 포함한다
func (r CourseRecord) Valid() bool {
	return !strings.EqualFold(strings.TrimSpace(r.Grade), GradeFail) && !r.Retake
}

// Key 과목 식별 키
func (r CourseRecord) Key() string {
	return IdentityKey(r.Code, r.Name)
}

// ── 이수 구분 ──

// Category 과목이 속하는 이수 구분 비트 집합. 한 과목이 여러 구분에 동시에 속할 수 있다.
type Category uint8

const (
	CategoryMajor Category = 1 << iota
	CategoryGeneral
	CategoryDrbol
	CategorySW
	CategoryMSC
	CategorySpecialGeneral
)

// categoryNames 외부(쿼리 파라미터, 응답) 표기
var categoryNames = []struct {
	cat  Category
	name string
}{
	{CategoryMajor, "major"},
	{CategoryGeneral, "general"},
	{CategoryDrbol, "drbol"},
	{CategorySW, "sw"},
	{CategoryMSC, "msc"},
	{CategorySpecialGeneral, "special_general"},
}

// Has 구분 포함 여부
func (c Category) Has(other Category) bool {
	return c&other != 0
}

// Names 포함된 구분 이름 (고정 순서)
func (c Category) Names() []string {
	var names []string
	for _, cn := range categoryNames {
		if c.Has(cn.cat) {
			names = append(names, cn.name)
		}
	}
	return names
}

// ParseCategory 이름으로 구분 조회
func ParseCategory(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, cn := range categoryNames {
		if cn.name == name {
			return cn.cat, true
		}
	}
	return 0, false
}

// 구분 키워드
const (
	keywordMajor          = "전공"
	keywordGeneral        = "교양"
	keywordDrbol          = "드볼"
	keywordSW             = "sw"
	keywordDataLiteracy   = "데이터활용"
	keywordMSC            = "msc"
	keywordSpecialGeneral = "특성화교양"
)

// Classify 자유 텍스트 구분 라벨을 Category 로 변환한다.
// 부분 문자열 매칭은 이 함수에만 존재한다. 라틴 키워드(sw, msc)는 대소문자를 무시하고
// 한글 키워드는 그대로 비교한다. 특성화교양은 major_field 기준이다.
func Classify(courseType, majorField string) Category {
	var c Category
	lowerType := strings.ToLower(courseType)

	if strings.Contains(courseType, keywordMajor) {
		c |= CategoryMajor
	}
	if strings.Contains(courseType, keywordGeneral) {
		c |= CategoryGeneral
	}
	if strings.Contains(courseType, keywordDrbol) {
		c |= CategoryDrbol
	}
	if strings.Contains(lowerType, keywordSW) || strings.Contains(courseType, keywordDataLiteracy) {
		c |= CategorySW
	}
	if strings.Contains(lowerType, keywordMSC) {
		c |= CategoryMSC
	}
	if strings.Contains(majorField, keywordSpecialGeneral) {
		c |= CategorySpecialGeneral
	}
	return c
}

// Course 수집 경계에서 필터·분류를 마친 유효 과목
type Course struct {
	CourseRecord
	Categories Category `json:"-"`
}

// Ingest 유효 과목만 남기고 각 과목의 구분을 한 번만 계산한다
func Ingest(records []CourseRecord) []Course {
	courses := make([]Course, 0, len(records))
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		if r.Credit < 0 || r.Credit > MaxCredit {
			r.Credit = 0
		}
		courses = append(courses, Course{
			CourseRecord: r,
			Categories:   Classify(r.Type, r.MajorField),
		})
	}
	return courses
}

// FilterValid 유효 과목 레코드만 반환
func FilterValid(records []CourseRecord) []CourseRecord {
	valid := make([]CourseRecord, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			valid = append(valid, r)
		}
	}
	return valid
}

// CoursesInCategory 지정 구분에 속하는 유효 과목
func CoursesInCategory(records []CourseRecord, cat Category) []CourseRecord {
	var result []CourseRecord
	for _, c := range Ingest(records) {
		if c.Categories.Has(cat) {
			result = append(result, c.CourseRecord)
		}
	}
	return result
}

// FilterByType type 라벨에 키워드 중 하나라도 포함된 레코드 (예: "전공,교양").
// 키워드가 없으면 입력을 그대로 반환한다.
func FilterByType(records []CourseRecord, keywords []string) []CourseRecord {
	var kws []string
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			kws = append(kws, k)
		}
	}
	if len(kws) == 0 {
		return records
	}

	var result []CourseRecord
	for _, r := range records {
		for _, k := range kws {
			if strings.Contains(r.Type, k) {
				result = append(result, r)
				break
			}
		}
	}
	return result
}

package graduation

import (
	"strconv"
	"strings"
)

// 판정 상태
const (
	StatusComplete = "complete"
	StatusPending  = "pending"
)

// MessageSatisfied 부족 항목이 없을 때의 요약 문구
const MessageSatisfied = "졸업 요건 충족"

// messageSeparator 부족 문구 구분자
const messageSeparator = " / "

// CreditPair 이수 학점 / 요구 학점
type CreditPair struct {
	Completed int `json:"completed"`
	Required  int `json:"required"`
}

// Shortfall 부족 학점 (0 이상)
func (p CreditPair) Shortfall() int {
	return max(0, p.Required-p.Completed)
}

// Credits 구분별 학점 현황
type Credits struct {
	Total          CreditPair `json:"total"`
	Major          CreditPair `json:"major"`
	General        CreditPair `json:"general"`
	Drbol          CreditPair `json:"drbol"`
	SW             CreditPair `json:"sw"`
	MSC            CreditPair `json:"msc"`
	SpecialGeneral CreditPair `json:"special_general"`
}

// EvaluationResult 통합 판정 결과
type EvaluationResult struct {
	Major                 string                    `json:"major"`
	Credits               Credits                   `json:"credits"`
	MissingMajorCourses   SemesterGroups[CourseRef] `json:"missing_major_courses"`
	MissingGeneralCourses []CourseRef               `json:"missing_general_courses,omitempty"`
	MissingDrbolAreas     []string                  `json:"missing_drbol_areas"`
	Drbol                 Distribution              `json:"drbol"`
	Status                string                    `json:"status"`
	Deficiencies          []string                  `json:"deficiencies"`
	Message               string                    `json:"message"`
}

// Complete 졸업 요건 충족 여부
func (r EvaluationResult) Complete() bool {
	return r.Status == StatusComplete
}

// ── 옵션 ──

type evalOptions struct {
	generalRequired bool
}

// Option 판정 옵션
type Option func(*evalOptions)

// WithGeneralRequired 교양 필수 과목 누락 목록도 계산한다 (상태에는 영향 없음)
func WithGeneralRequired() Option {
	return func(o *evalOptions) { o.generalRequired = true }
}

// ── 판정 ──

// SumCredits 구분별 이수 학점 합계. 한 과목이 여러 구분에 동시에 기여할 수 있다.
func SumCredits(courses []Course) (total, major, general, drbol, sw, msc, special int) {
	for _, c := range courses {
		total += c.Credit
		if c.Categories.Has(CategoryMajor) {
			major += c.Credit
		}
		if c.Categories.Has(CategoryGeneral) {
			general += c.Credit
		}
		if c.Categories.Has(CategoryDrbol) {
			drbol += c.Credit
		}
		if c.Categories.Has(CategorySW) {
			sw += c.Credit
		}
		if c.Categories.Has(CategoryMSC) {
			msc += c.Credit
		}
		if c.Categories.Has(CategorySpecialGeneral) {
			special += c.Credit
		}
	}
	return
}

// ComputeCredits 구분별 학점 현황. 드볼 이수 학점은 영역 학점 합계를 쓴다.
func ComputeCredits(spec RequirementSpec, records []CourseRecord) Credits {
	courses := Ingest(records)
	return computeCredits(spec, courses, evaluateDistribution(spec, courses))
}

func computeCredits(spec RequirementSpec, courses []Course, dist Distribution) Credits {
	m := spec.Minimums.clamp()
	total, major, general, _, sw, msc, special := SumCredits(courses)
	return Credits{
		Total:          CreditPair{Completed: total, Required: m.Total},
		Major:          CreditPair{Completed: major, Required: m.Major},
		General:        CreditPair{Completed: general, Required: m.General},
		Drbol:          CreditPair{Completed: dist.TotalCredit, Required: dist.RequiredCredit},
		SW:             CreditPair{Completed: sw, Required: m.SW},
		MSC:            CreditPair{Completed: msc, Required: m.MSC},
		SpecialGeneral: CreditPair{Completed: special, Required: m.SpecialGeneral},
	}
}

// Evaluate 졸업 요건 통합 판정. 입력만 읽는 순수 함수이며 같은 입력에 같은 결과를 낸다.
// 과목이 없으면 모든 이수 학점이 0 인 결과를 반환한다.
func Evaluate(spec RequirementSpec, records []CourseRecord, opts ...Option) EvaluationResult {
	var o evalOptions
	for _, opt := range opts {
		opt(&o)
	}

	courses := Ingest(records)
	ks := newKeySet(courses)
	dist := evaluateDistribution(spec, courses)
	credits := computeCredits(spec, courses, dist)

	res := EvaluationResult{
		Major:               spec.Major,
		Credits:             credits,
		MissingMajorCourses: missingGrouped(spec.MajorRequired, ks),
		MissingDrbolAreas:   dist.MissingAreas,
		Drbol:               dist,
		Status:              StatusComplete,
		Deficiencies:        []string{},
	}
	if o.generalRequired {
		res.MissingGeneralCourses = missingFlat(spec.GeneralRequired, ks)
	}

	add := func(msg string) {
		if msg == "" {
			return
		}
		res.Status = StatusPending
		res.Deficiencies = append(res.Deficiencies, msg)
	}
	add(shortfallMessage("총 학점", credits.Total))
	add(shortfallMessage("전공", credits.Major))
	add(shortfallMessage("교양필수", credits.General))
	add(dist.message())
	add(shortfallMessage("SW/데이터활용", credits.SW))
	add(shortfallMessage("MSC", credits.MSC))
	add(shortfallMessage("특성화교양", credits.SpecialGeneral))
	if names := missingNames(res.MissingMajorCourses); len(names) > 0 {
		add("전공 필수 미이수: " + strings.Join(names, ", "))
	}

	res.Message = MessageSatisfied
	if len(res.Deficiencies) > 0 {
		res.Message = strings.Join(res.Deficiencies, messageSeparator)
	}
	return res
}

func shortfallMessage(label string, p CreditPair) string {
	if p.Completed >= p.Required {
		return ""
	}
	return label + " " + itoa(p.Shortfall()) + "학점 부족"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

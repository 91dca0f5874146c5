package graduation

// ── 드볼(배분 이수) 판정 ──────────────────────────────────────
//
//   - 요구 영역 수 = min(6, 정의된 영역 수)
//   - 영역별 과목 수·학점은 major_field 가 영역 이름과 정확히 같은 유효 과목으로 계산
//   - 과목이 1개 이상이면 해당 영역 이수
//   - 총 학점은 영역 학점의 합 (type 의 "드볼" 키워드 합계가 아님)
//   - 예외: 총 학점이 요구 학점보다 정확히 1 적고, 이수 영역 중 학점 합이 정확히 2 인
//     영역이 있으면 학점 요건 충족으로 본다. 다른 부족분에는 적용하지 않는다.
// ─────────────────────────────────────────────────────────────

// AreaStatus 영역별 이수 현황
type AreaStatus struct {
	Area            string      `json:"area"`
	CourseCount     int         `json:"course_count"`
	Credit          int         `json:"credit"`
	Covered         bool        `json:"covered"`
	RequiredCredit  int         `json:"required_credit,omitempty"`
	CreditRemaining int         `json:"credit_remaining,omitempty"`
	Suggestions     []CourseRef `json:"suggestions,omitempty"`
}

// Distribution 드볼 판정 결과
type Distribution struct {
	Areas            []AreaStatus `json:"areas"`
	RequiredAreas    int          `json:"required_areas"`
	CoveredAreas     int          `json:"covered_areas"`
	CoverageOK       bool         `json:"coverage_ok"`
	TotalCredit      int          `json:"total_credit"`
	RequiredCredit   int          `json:"required_credit"`
	CreditOK         bool         `json:"credit_ok"`
	ExceptionApplied bool         `json:"exception_applied"`
	Satisfied        bool         `json:"satisfied"`
	AreasRemaining   int          `json:"areas_remaining"`
	CreditRemaining  int          `json:"credit_remaining"`
	MissingAreas     []string     `json:"missing_areas"`
}

// DistributionStatus 드볼 규칙 판정 (단독 사용 가능)
func DistributionStatus(spec RequirementSpec, records []CourseRecord) Distribution {
	return evaluateDistribution(spec, Ingest(records))
}

func evaluateDistribution(spec RequirementSpec, courses []Course) Distribution {
	rule := spec.Drbol
	names := rule.AreaNames()

	d := Distribution{
		Areas:          make([]AreaStatus, 0, len(names)),
		RequiredAreas:  min(maxRequiredAreas, len(names)),
		RequiredCredit: rule.RequiredTotal(spec.Minimums.Drbol),
		MissingAreas:   []string{},
	}

	ks := newKeySet(courses)
	for _, name := range names {
		as := AreaStatus{Area: name}
		for _, c := range courses {
			if c.MajorField == name {
				as.CourseCount++
				as.Credit += c.Credit
			}
		}
		as.Covered = as.CourseCount >= 1
		if rule.perArea() {
			as.RequiredCredit = rule.areaRequired(name)
			as.CreditRemaining = max(0, as.RequiredCredit-as.Credit)
		}
		if as.Covered {
			d.CoveredAreas++
		} else {
			d.MissingAreas = append(d.MissingAreas, name)
			for _, it := range rule.coursesFor(name) {
				if !ks.contains(it) {
					as.Suggestions = append(as.Suggestions, it.Ref())
				}
			}
		}
		d.TotalCredit += as.Credit
		d.Areas = append(d.Areas, as)
	}

	d.CoverageOK = d.CoveredAreas >= d.RequiredAreas
	d.CreditOK = d.TotalCredit >= d.RequiredCredit
	if !d.CreditOK && d.TotalCredit == d.RequiredCredit-1 && hasTwoCreditArea(d.Areas) {
		d.CreditOK = true
		d.ExceptionApplied = true
	}
	d.Satisfied = d.CoverageOK && d.CreditOK
	d.AreasRemaining = max(0, d.RequiredAreas-d.CoveredAreas)
	if !d.ExceptionApplied {
		d.CreditRemaining = max(0, d.RequiredCredit-d.TotalCredit)
	}
	return d
}

func hasTwoCreditArea(areas []AreaStatus) bool {
	for _, a := range areas {
		if a.Covered && a.Credit == 2 {
			return true
		}
	}
	return false
}

// message 드볼 부족 문구. 충족이면 빈 문자열.
func (d Distribution) message() string {
	if d.Satisfied {
		return ""
	}
	switch {
	case d.AreasRemaining > 0 && d.CreditRemaining > 0:
		return "드볼 " + itoa(d.AreasRemaining) + "개 영역, " + itoa(d.CreditRemaining) + "학점 부족"
	case d.AreasRemaining > 0:
		return "드볼 " + itoa(d.AreasRemaining) + "개 영역 부족"
	default:
		return "드볼 " + itoa(d.CreditRemaining) + "학점 부족"
	}
}

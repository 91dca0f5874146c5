package dto

import "gradcheck/backend/internal/graduation"

// ── 졸업 요건 모듈 DTO ──

// RequirementItemInput 요건 과목 입력
type RequirementItemInput struct {
	Code     string   `json:"code"     binding:"omitempty,max=20"`
	Name     string   `json:"name"     binding:"required,max=100"`
	Semester string   `json:"semester" binding:"omitempty,semester_label"`
	Aliases  []string `json:"aliases"  binding:"omitempty,max=10,dive,max=100"`
}

// AreaRuleInput 드볼 영역별 요구 학점 입력
type AreaRuleInput struct {
	Area           string `json:"area"            binding:"required,max=50"`
	RequiredCredit int    `json:"required_credit" binding:"min=0,max=60"`
}

// AreaCoursesInput 드볼 영역별 추천 과목 입력
type AreaCoursesInput struct {
	Area    string                 `json:"area"    binding:"required,max=50"`
	Courses []RequirementItemInput `json:"courses" binding:"dive"`
}

// RequirementRequest 졸업 요건 생성 요청. 최소 학점이 비어 있으면 기본값을 쓴다.
type RequirementRequest struct {
	Major string `json:"major" binding:"required,max=100"`
	Year  int    `json:"year"  binding:"required,min=1990,max=2100"`

	TotalRequired          *int `json:"total_required"           binding:"omitempty,min=0,max=300"`
	MajorRequired          *int `json:"major_required"           binding:"omitempty,min=0,max=300"`
	GeneralRequired        *int `json:"general_required"         binding:"omitempty,min=0,max=300"`
	DrbolRequired          *int `json:"drbol_required"           binding:"omitempty,min=0,max=300"`
	SpecialGeneralRequired *int `json:"special_general_required" binding:"omitempty,min=0,max=300"`
	SWRequired             *int `json:"sw_required"              binding:"omitempty,min=0,max=300"`
	MSCRequired            *int `json:"msc_required"             binding:"omitempty,min=0,max=300"`

	MajorMustCourses        []RequirementItemInput `json:"major_must_courses"        binding:"dive"`
	MajorSelectiveCourses   []RequirementItemInput `json:"major_selective_courses"   binding:"dive"`
	GeneralMustCourses      []RequirementItemInput `json:"general_must_courses"      binding:"dive"`
	GeneralSelectiveCourses []RequirementItemInput `json:"general_selective_courses" binding:"dive"`
	SpecialGeneralCourses   []RequirementItemInput `json:"special_general_courses"   binding:"dive"`
	SWCourses               []RequirementItemInput `json:"sw_courses"                binding:"dive"`
	MSCCourses              []RequirementItemInput `json:"msc_courses"               binding:"dive"`

	DrbolAreas   string             `json:"drbol_areas"   binding:"max=500"`
	DrbolRules   []AreaRuleInput    `json:"drbol_rules"   binding:"dive"`
	DrbolCourses []AreaCoursesInput `json:"drbol_courses" binding:"dive"`
}

// UpdateRequirementRequest 졸업 요건 수정 요청 (전체 교체, 버전 필수)
type UpdateRequirementRequest struct {
	RequirementRequest
	Version int `json:"version" binding:"required,min=1"`
}

// RequirementListRequest 졸업 요건 목록 조회 파라미터
type RequirementListRequest struct {
	PaginationRequest
	Major string `form:"major" binding:"omitempty,max=100"`
}

// Minimums 입력값을 기본 최소 학점 위에 덮어쓴다
func (r *RequirementRequest) Minimums() graduation.Minimums {
	m := graduation.DefaultMinimums()
	for _, f := range []struct {
		src *int
		dst *int
	}{
		{r.TotalRequired, &m.Total},
		{r.MajorRequired, &m.Major},
		{r.GeneralRequired, &m.General},
		{r.DrbolRequired, &m.Drbol},
		{r.SpecialGeneralRequired, &m.SpecialGeneral},
		{r.SWRequired, &m.SW},
		{r.MSCRequired, &m.MSC},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return m
}

// ToItems 입력 목록을 요건 항목으로 변환 (nil 이면 빈 목록)
func ToItems(in []RequirementItemInput) []graduation.RequirementItem {
	items := make([]graduation.RequirementItem, 0, len(in))
	for _, it := range in {
		items = append(items, graduation.RequirementItem{
			Code:     it.Code,
			Name:     it.Name,
			Semester: it.Semester,
			Aliases:  it.Aliases,
		})
	}
	return items
}

// ToAreaRules 드볼 영역 규칙 변환
func ToAreaRules(in []AreaRuleInput) []graduation.AreaRule {
	rules := make([]graduation.AreaRule, 0, len(in))
	for _, r := range in {
		rules = append(rules, graduation.AreaRule{Area: r.Area, RequiredCredit: r.RequiredCredit})
	}
	return rules
}

// ToAreaCourses 드볼 영역 추천 과목 변환
func ToAreaCourses(in []AreaCoursesInput) []graduation.AreaCourses {
	out := make([]graduation.AreaCourses, 0, len(in))
	for _, ac := range in {
		out = append(out, graduation.AreaCourses{Area: ac.Area, Courses: ToItems(ac.Courses)})
	}
	return out
}

// RequirementResponse 졸업 요건 응답
type RequirementResponse struct {
	ID       string              `json:"id"`
	Major    string              `json:"major"`
	Year     int                 `json:"year"`
	Minimums graduation.Minimums `json:"minimums"`

	MajorMustCourses        []graduation.RequirementItem `json:"major_must_courses"`
	MajorSelectiveCourses   []graduation.RequirementItem `json:"major_selective_courses"`
	GeneralMustCourses      []graduation.RequirementItem `json:"general_must_courses"`
	GeneralSelectiveCourses []graduation.RequirementItem `json:"general_selective_courses"`
	SpecialGeneralCourses   []graduation.RequirementItem `json:"special_general_courses"`
	SWCourses               []graduation.RequirementItem `json:"sw_courses"`
	MSCCourses              []graduation.RequirementItem `json:"msc_courses"`

	DrbolAreas   []string                 `json:"drbol_areas"`
	DrbolRules   []graduation.AreaRule    `json:"drbol_rules"`
	DrbolCourses []graduation.AreaCourses `json:"drbol_courses"`

	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

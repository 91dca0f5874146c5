package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gradcheck/backend/internal/graduation"
)

// GraduationRequirement 학과·입학년도별 졸업 요건 (graduation_requirements 테이블)
type GraduationRequirement struct {
	RequirementID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"requirement_id"`
	Major         string `gorm:"type:varchar(100);not null"                     json:"major"`
	Year          int    `gorm:"type:smallint;not null"                         json:"year"`

	TotalRequired          int `gorm:"not null;default:132" json:"total_required"`
	MajorRequired          int `gorm:"not null;default:50"  json:"major_required"`
	GeneralRequired        int `gorm:"not null;default:8"   json:"general_required"`
	DrbolRequired          int `gorm:"not null;default:18"  json:"drbol_required"`
	SpecialGeneralRequired int `gorm:"not null;default:3"   json:"special_general_required"`
	SWRequired             int `gorm:"column:sw_required;not null;default:9"   json:"sw_required"`
	MSCRequired            int `gorm:"column:msc_required;not null;default:23" json:"msc_required"`

	MajorMustCourses        datatypes.JSONSlice[graduation.RequirementItem] `gorm:"type:jsonb;not null" json:"major_must_courses"`
	MajorSelectiveCourses   datatypes.JSONSlice[graduation.RequirementItem] `gorm:"type:jsonb;not null" json:"major_selective_courses"`
	GeneralMustCourses      datatypes.JSONSlice[graduation.RequirementItem] `gorm:"type:jsonb;not null" json:"general_must_courses"`
	GeneralSelectiveCourses datatypes.JSONSlice[graduation.RequirementItem] `gorm:"type:jsonb;not null" json:"general_selective_courses"`
	SpecialGeneralCourses   datatypes.JSONSlice[graduation.RequirementItem] `gorm:"type:jsonb;not null" json:"special_general_courses"`
	SWCourses               datatypes.JSONSlice[graduation.RequirementItem] `gorm:"column:sw_courses;type:jsonb;not null"  json:"sw_courses"`
	MSCCourses              datatypes.JSONSlice[graduation.RequirementItem] `gorm:"column:msc_courses;type:jsonb;not null" json:"msc_courses"`

	DrbolAreas   string                                      `gorm:"type:text;not null;default:''" json:"drbol_areas"` // 콤마 구분 영역 이름
	DrbolRules   datatypes.JSONSlice[graduation.AreaRule]    `gorm:"type:jsonb;not null"           json:"drbol_rules"`
	DrbolCourses datatypes.JSONSlice[graduation.AreaCourses] `gorm:"type:jsonb;not null"           json:"drbol_courses"`

	VersionedModel
}

// TableName 테이블 이름
func (GraduationRequirement) TableName() string { return "graduation_requirements" }

// ToSpec 판정용 요건으로 변환
func (r *GraduationRequirement) ToSpec() graduation.RequirementSpec {
	return graduation.RequirementSpec{
		Major: r.Major,
		Year:  r.Year,
		Minimums: graduation.Minimums{
			Total:          r.TotalRequired,
			Major:          r.MajorRequired,
			General:        r.GeneralRequired,
			Drbol:          r.DrbolRequired,
			SpecialGeneral: r.SpecialGeneralRequired,
			SW:             r.SWRequired,
			MSC:            r.MSCRequired,
		},
		MajorRequired:   r.MajorMustCourses,
		MajorElective:   r.MajorSelectiveCourses,
		GeneralRequired: r.GeneralMustCourses,
		GeneralElective: r.GeneralSelectiveCourses,
		SpecialGeneral:  r.SpecialGeneralCourses,
		SW:              r.SWCourses,
		MSC:             r.MSCCourses,
		Drbol: graduation.DrbolRule{
			Areas:          r.DrbolAreas,
			RequiredCredit: r.DrbolRequired,
			AreaRules:      r.DrbolRules,
			AreaCourses:    r.DrbolCourses,
		},
	}
}

// BeforeSave 빈 목록은 null 대신 [] 로 저장한다
func (r *GraduationRequirement) BeforeSave(_ *gorm.DB) error {
	for _, list := range []*datatypes.JSONSlice[graduation.RequirementItem]{
		&r.MajorMustCourses, &r.MajorSelectiveCourses, &r.GeneralMustCourses,
		&r.GeneralSelectiveCourses, &r.SpecialGeneralCourses, &r.SWCourses, &r.MSCCourses,
	} {
		if *list == nil {
			*list = datatypes.JSONSlice[graduation.RequirementItem]{}
		}
	}
	if r.DrbolRules == nil {
		r.DrbolRules = datatypes.JSONSlice[graduation.AreaRule]{}
	}
	if r.DrbolCourses == nil {
		r.DrbolCourses = datatypes.JSONSlice[graduation.AreaCourses]{}
	}
	return nil
}

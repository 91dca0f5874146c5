package dto

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"gradcheck/backend/internal/graduation"
)

// ── 커스텀 검증 규칙 ──

var (
	studentIDPattern  = regexp.MustCompile(`^[A-Za-z]\d{6}$`)
	hangulNamePattern = regexp.MustCompile(`^[가-힣]{2,5}$`)
)

// RegisterValidators gin 바인딩 엔진에 커스텀 규칙 등록
//   - student_id:     영문자 1자 + 숫자 6자리 (예: C135195)
//   - hangul_name:    한글 2~5자
//   - semester_label: 빈 값 또는 "<year>-<term>"
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 바인딩 엔진이 validator/v10 이 아닙니다")
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"student_id": func(fl validator.FieldLevel) bool {
			return studentIDPattern.MatchString(fl.Field().String())
		},
		"hangul_name": func(fl validator.FieldLevel) bool {
			return hangulNamePattern.MatchString(fl.Field().String())
		},
		"semester_label": func(fl validator.FieldLevel) bool {
			return graduation.ValidSemesterLabel(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("검증 규칙 %s 등록 실패: %w", tag, err)
		}
	}
	return nil
}

// ValidationMessage 바인딩 오류를 사용자에게 보여줄 문구로 변환
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "요청 형식이 올바르지 않습니다"
	}
	e := verrs[0]
	switch e.Tag() {
	case "required":
		return e.Field() + " 은(는) 필수입니다"
	case "min":
		return e.Field() + " 은(는) " + e.Param() + " 이상이어야 합니다"
	case "max":
		return e.Field() + " 은(는) " + e.Param() + " 이하여야 합니다"
	case "oneof":
		return e.Field() + " 은(는) 다음 중 하나여야 합니다: " + e.Param()
	case "student_id":
		return "학번은 영문자 1자와 숫자 6자리여야 합니다 (예: C135195)"
	case "hangul_name":
		return "이름은 한글 2~5자만 입력 가능합니다"
	case "semester_label":
		return e.Field() + " 은(는) \"학년-학기\" 형식이어야 합니다 (예: 3-1)"
	default:
		return e.Field() + " 검증 실패: " + e.Tag()
	}
}

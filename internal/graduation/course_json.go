package graduation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UnmarshalJSON 불완전한 레코드를 관대하게 해석한다.
//   - credit: 숫자, 숫자 문자열, null/누락 → 0 (음수·MaxCredit 초과는 0)
//   - retake: bool, "Y"/"N", "재수강", "true"/"false", null/누락 → false
//   - grade: 대문자로 통일
//   - 문자열 필드: 숫자로 와도 문자열로 받고, null → ""
func (r *CourseRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Code       json.RawMessage `json:"code"`
		Name       json.RawMessage `json:"name"`
		Credit     json.RawMessage `json:"credit"`
		Type       json.RawMessage `json:"type"`
		MajorField json.RawMessage `json:"major_field"`
		Grade      json.RawMessage `json:"grade"`
		Retake     json.RawMessage `json:"retake"`
		Semester   json.RawMessage `json:"semester"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = CourseRecord{
		Code:       looseString(raw.Code),
		Name:       looseString(raw.Name),
		Credit:     ParseCredit(looseString(raw.Credit)),
		Type:       looseString(raw.Type),
		MajorField: looseString(raw.MajorField),
		Grade:      strings.ToUpper(looseString(raw.Grade)),
		Retake:     ParseRetake(looseString(raw.Retake)),
		Semester:   looseString(raw.Semester),
	}
	return nil
}

func looseString(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	// 숫자·bool 은 원문 그대로
	return strings.TrimSpace(string(v))
}

// MaxCredit 한 과목에 인정하는 최대 학점
const MaxCredit = 30

// ParseCredit 학점 문자열 → 정수. 해석 불가·음수·MaxCredit 초과는 0.
// "3.0" 같은 소수 표기는 정수부만 사용한다.
func ParseCredit(s string) int {
	n, ok := parseCreditStrict(s)
	if !ok {
		return 0
	}
	return n
}

// parseCreditStrict 0..MaxCredit 범위의 학점만 ok. 빈 문자열은 0 으로 ok.
func parseCreditStrict(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > MaxCredit {
		return 0, false
	}
	if f < 0 {
		return 0, true
	}
	return int(f), true
}

// ParseRetake 재수강 표기 해석
func ParseRetake(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "y", "yes", "o", "재수강", "r":
		return true
	default:
		return false
	}
}

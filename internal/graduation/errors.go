package graduation

import "errors"

// ── 졸업 요건 판정 오류 분류 ──
//
// 판정 함수 자체는 오류를 반환하지 않는다. 아래 값은 주변 계층(service)이
// %w 로 감싸서 사용하는 공통 분류이다.

var (
	// ErrNotFound 학과 졸업 요건, 사용자, 성적표가 존재하지 않음
	ErrNotFound = errors.New("대상을 찾을 수 없습니다")
	// ErrNoData 성적표는 있으나 과목 데이터가 없음
	ErrNoData = errors.New("성적표 데이터가 없습니다")
	// ErrInvalidData 과목 레코드 형식 오류
	ErrInvalidData = errors.New("잘못된 과목 데이터입니다")
)

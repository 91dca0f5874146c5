package errors

import "errors"

// 여러 모듈이 공유하는 오류

var (
	// ErrCacheMiss 캐시에 값이 없음
	ErrCacheMiss = errors.New("캐시 항목이 없습니다")
	// ErrOptimisticLock 다른 요청이 먼저 레코드를 수정함
	ErrOptimisticLock = errors.New("다른 요청에서 이미 수정되었습니다. 새로고침 후 다시 시도하세요")
)

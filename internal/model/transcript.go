package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gradcheck/backend/internal/graduation"
)

// 성적표 처리 상태
const (
	TranscriptPending    = "pending"
	TranscriptProcessing = "processing"
	TranscriptDone       = "done"
	TranscriptError      = "error"
)

// 성적표 입력 경로
const (
	SourceJSON   = "json"   // 구조화된 과목 목록
	SourceRows   = "rows"   // OCR 표 결과
	SourceXLSX   = "xlsx"   // 엑셀 업로드
	SourceWorker = "worker" // 외부 OCR 워커 콜백
)

// ParsedData 성적표 해석 결과 (JSON 컬럼)
type ParsedData struct {
	Courses []graduation.CourseRecord `json:"courses"`
}

// Transcript 성적표 (transcripts 테이블)
type Transcript struct {
	TranscriptID string                                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"transcript_id"`
	UserID       string                                   `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Status       string                                   `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Source       string                                   `gorm:"type:varchar(20);not null"                      json:"source"`
	ParsedData   *datatypes.JSONType[ParsedData]          `gorm:"type:jsonb"                                     json:"parsed_data,omitempty"`
	RowErrors    datatypes.JSONSlice[graduation.RowError] `gorm:"type:jsonb;not null"                            json:"row_errors"`
	ErrorMessage string                                   `gorm:"type:text;not null;default:''"                  json:"error_message,omitempty"`
	Timestamps
}

// TableName 테이블 이름
func (Transcript) TableName() string { return "transcripts" }

// Courses 저장된 과목 목록 (없으면 nil)
func (t *Transcript) Courses() []graduation.CourseRecord {
	if t.ParsedData == nil {
		return nil
	}
	return t.ParsedData.Data().Courses
}

// SetCourses 과목 목록 저장
func (t *Transcript) SetCourses(courses []graduation.CourseRecord) {
	if courses == nil {
		courses = []graduation.CourseRecord{}
	}
	data := datatypes.NewJSONType(ParsedData{Courses: courses})
	t.ParsedData = &data
}

// BeforeSave 행 오류가 없으면 [] 로 저장한다
func (t *Transcript) BeforeSave(_ *gorm.DB) error {
	if t.RowErrors == nil {
		t.RowErrors = datatypes.JSONSlice[graduation.RowError]{}
	}
	return nil
}

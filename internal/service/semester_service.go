package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/graduation"
)

// SemesterService 학기별 과목 조회 인터페이스.
// 학기 그룹에는 F·재수강 과목도 포함하고, 학점 합계는 유효 과목만 센다.
type SemesterService interface {
	// Overview 학기 순으로 정렬된 과목 그룹. filter 는 콤마 구분 이수구분 키워드.
	Overview(ctx context.Context, caller Caller, userID, filter string) (*dto.SemesterOverviewResponse, error)
	// Detail 한 학기의 과목 ("기타" 는 학기 정보가 없는 과목)
	Detail(ctx context.Context, caller Caller, userID, semester string) (*dto.SemesterCoursesResponse, error)
	// MissingRequired 해당 학기에 배정된 전공필수 중 아직 이수하지 않은 과목
	MissingRequired(ctx context.Context, caller Caller, userID, semester string) (*dto.SemesterMissingResponse, error)
}

type semesterService struct {
	loader *studentLoader
	logger *zap.Logger
}

// NewSemesterService SemesterService 생성
func NewSemesterService(loader *studentLoader, logger *zap.Logger) SemesterService {
	return &semesterService{loader: loader, logger: logger}
}

func (s *semesterService) Overview(ctx context.Context, caller Caller, userID, filter string) (*dto.SemesterOverviewResponse, error) {
	data, err := s.loader.load(ctx, caller, userID, false)
	if err != nil {
		return nil, err
	}

	records := graduation.FilterByType(data.Courses(), strings.Split(filter, ","))
	groups := graduation.GroupBySemester(records)
	semesters := groups.Semesters()
	if groups == nil {
		groups = graduation.SemesterGroups[graduation.CourseRecord]{}
	}
	return &dto.SemesterOverviewResponse{Semesters: semesters, Courses: groups}, nil
}

func (s *semesterService) Detail(ctx context.Context, caller Caller, userID, semester string) (*dto.SemesterCoursesResponse, error) {
	data, err := s.loader.load(ctx, caller, userID, false)
	if err != nil {
		return nil, err
	}

	semester = strings.TrimSpace(semester)
	courses := graduation.CoursesInSemester(data.Courses(), semester)

	total := 0
	for _, c := range graduation.FilterValid(courses) {
		total += max(0, c.Credit)
	}
	return &dto.SemesterCoursesResponse{Semester: semester, TotalCredit: total, Courses: courses}, nil
}

func (s *semesterService) MissingRequired(ctx context.Context, caller Caller, userID, semester string) (*dto.SemesterMissingResponse, error) {
	data, err := s.loader.load(ctx, caller, userID, true)
	if err != nil {
		return nil, err
	}

	semester = strings.TrimSpace(semester)
	missing := graduation.MissingInSemester(data.Requirement.ToSpec().MajorRequired, data.Courses(), semester)
	return &dto.SemesterMissingResponse{Semester: semester, Missing: missing}, nil
}

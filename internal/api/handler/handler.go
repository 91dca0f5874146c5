package handler

import (
	"gradcheck/backend/config"
	"gradcheck/backend/internal/service"
)

// Handler 모든 Handler 의 집합
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Requirement *RequirementHandler
	Transcript  *TranscriptHandler
	Analysis    *AnalysisHandler
	Semester    *SemesterHandler
	Export      *ExportHandler
}

// NewHandler Handler 집합 생성
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth, &cfg.Auth),
		User:        NewUserHandler(svc.User),
		Requirement: NewRequirementHandler(svc.Requirement),
		Transcript:  NewTranscriptHandler(svc.Transcript),
		Analysis:    NewAnalysisHandler(svc.Analysis),
		Semester:    NewSemesterHandler(svc.Semester),
		Export:      NewExportHandler(svc.Export),
	}
}

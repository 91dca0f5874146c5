package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/model"
	"gradcheck/backend/internal/repository"
	"gradcheck/backend/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("학번 또는 비밀번호가 올바르지 않습니다")
	ErrStudentIDExists    = errors.New("이미 가입된 학번입니다")
	ErrInvalidRefresh     = errors.New("유효하지 않은 refresh token 입니다")
)

// AuthService 인증 업무 인터페이스
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Refresh refresh token 으로 새 토큰 쌍을 발급하고 기존 refresh token 은 폐기한다
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout access token 을 만료 시각까지 블랙리스트에 올린다
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService AuthService 생성. blacklist 가 nil 이면 로그아웃·토큰 폐기는 기록되지 않는다.
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// normalizeStudentID 학번은 항상 대문자로 저장·조회한다
func normalizeStudentID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ────────────────────── Signup ──────────────────────

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	studentID := normalizeStudentID(req.StudentID)

	if _, err := s.repo.User.GetByStudentID(ctx, studentID); err == nil {
		return nil, ErrStudentIDExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("학번 중복 확인 실패", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("비밀번호 해시 실패", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		StudentID:    studentID,
		FullName:     strings.TrimSpace(req.FullName),
		EntryYear:    req.EntryYear,
		Major:        strings.TrimSpace(req.Major),
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("사용자 생성 실패", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("회원가입", zap.String("user_id", user.UserID), zap.String("major", user.Major))
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 사용자 조회
	user, err := s.repo.User.GetByStudentID(ctx, normalizeStudentID(req.StudentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("사용자 조회 실패", zap.Error(err))
		return nil, err
	}

	// 2. 비밀번호 확인 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 토큰 쌍 발급
	return s.issueTokens(user, req.RememberMe)
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefresh
	}
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefresh
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("블랙리스트 조회 실패", zap.Error(err))
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidRefresh
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		s.logger.Error("사용자 조회 실패", zap.Error(err))
		return nil, err
	}

	resp, err := s.issueTokens(user, claims.RememberMe)
	if err != nil {
		return nil, err
	}

	// 기존 refresh token 은 재사용할 수 없도록 폐기
	if claims.ExpiresAt != nil {
		s.revoke(ctx, claims.ID, claims.ExpiresAt.Time)
	}
	return resp, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("토큰 블랙리스트 등록 실패", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) revoke(ctx context.Context, jti string, expiresAt time.Time) {
	if err := s.Logout(ctx, jti, expiresAt); err != nil {
		s.logger.Warn("refresh token 폐기 실패", zap.String("jti", jti), zap.Error(err))
	}
}

func (s *authService) issueTokens(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.StudentID, user.Role)
	if err != nil {
		s.logger.Error("access token 발급 실패", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.StudentID, user.Role, rememberMe)
	if err != nil {
		s.logger.Error("refresh token 발급 실패", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

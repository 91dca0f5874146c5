package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gradcheck/backend/internal/dto"
	"gradcheck/backend/internal/model"
	"gradcheck/backend/pkg/jwt"
)

// ── Signup ──

func TestSignup_Success(t *testing.T) {
	env := newTestEnv()

	result, err := env.svc.Auth.Signup(context.Background(), &dto.SignupRequest{
		StudentID: "c135195",
		Password:  "password123",
		FullName:  "김철수",
		EntryYear: 2021,
		Major:     "컴퓨터공학과",
	})
	if err != nil {
		t.Fatalf("Signup 은 성공해야 함: %v", err)
	}
	if result.StudentID != "C135195" {
		t.Errorf("학번은 대문자로 저장되어야 함, 실제=%s", result.StudentID)
	}
	if result.Role != model.RoleStudent {
		t.Errorf("기본 역할은 student, 실제=%s", result.Role)
	}

	stored, err := env.users.GetByStudentID(context.Background(), "C135195")
	if err != nil {
		t.Fatalf("저장된 사용자를 찾을 수 없음: %v", err)
	}
	if stored.PasswordHash == "password123" || stored.PasswordHash == "" {
		t.Error("비밀번호는 해시로 저장되어야 함")
	}
}

func TestSignup_DuplicateStudentID(t *testing.T) {
	env := newTestEnv()
	env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)

	_, err := env.svc.Auth.Signup(context.Background(), &dto.SignupRequest{
		StudentID: "c135195",
		Password:  "password123",
		FullName:  "김철수",
		EntryYear: 2021,
		Major:     "컴퓨터공학과",
	})
	if !errors.Is(err, ErrStudentIDExists) {
		t.Errorf("ErrStudentIDExists 기대, 실제: %v", err)
	}
}

// ── Login ──

func TestLogin_Success(t *testing.T) {
	env := newTestEnv()
	env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)

	result, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{
		StudentID: "c135195",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("Login 은 성공해야 함: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("토큰이 비어 있으면 안 됨")
	}
	if result.ExpiresIn != 900 {
		t.Errorf("ExpiresIn=900 기대, 실제=%d", result.ExpiresIn)
	}

	claims, err := env.jwt.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("access token 해석 실패: %v", err)
	}
	if claims.StudentID != "C135195" || claims.TokenType != jwt.TokenTypeAccess {
		t.Errorf("클레임 불일치: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv()
	env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)

	_, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{
		StudentID: "C135195",
		Password:  "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("ErrInvalidCredentials 기대, 실제: %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{
		StudentID: "Z999999",
		Password:  "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("존재하지 않는 학번도 ErrInvalidCredentials 여야 함, 실제: %v", err)
	}
}

// ── Refresh ──

func TestRefresh_RotatesToken(t *testing.T) {
	env := newTestEnv()
	env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)
	ctx := context.Background()

	login, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{StudentID: "C135195", Password: "password123", RememberMe: true})
	if err != nil {
		t.Fatalf("Login 실패: %v", err)
	}

	refreshed, err := env.svc.Auth.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh 는 성공해야 함: %v", err)
	}
	claims, _ := env.jwt.ParseToken(refreshed.RefreshToken)
	if claims == nil || !claims.RememberMe {
		t.Error("remember_me 가 유지되어야 함")
	}

	// 한 번 쓴 refresh token 은 재사용할 수 없다
	if _, err := env.svc.Auth.Refresh(ctx, login.RefreshToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("재사용된 refresh token 은 ErrInvalidRefresh, 실제: %v", err)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	env := newTestEnv()
	u := env.addUser("C135195", "컴퓨터공학과", 2021, model.RoleStudent)

	access, _ := env.jwt.GenerateAccessToken(u.UserID, u.StudentID, u.Role)
	if _, err := env.svc.Auth.Refresh(context.Background(), access); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("access token 으로 갱신하면 ErrInvalidRefresh, 실제: %v", err)
	}
	if _, err := env.svc.Auth.Refresh(context.Background(), ""); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("빈 토큰은 ErrInvalidRefresh, 실제: %v", err)
	}
}

// ── Logout ──

func TestLogout_BlacklistsUntilExpiry(t *testing.T) {
	env := newTestEnv()

	if err := env.svc.Auth.Logout(context.Background(), "jti-1", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Logout 실패: %v", err)
	}
	ttl, ok := env.blacklist.jtis["jti-1"]
	if !ok {
		t.Fatal("jti 가 블랙리스트에 없음")
	}
	if ttl <= 9*time.Minute || ttl > 10*time.Minute {
		t.Errorf("TTL 은 남은 유효기간이어야 함, 실제=%v", ttl)
	}

	// 이미 만료된 토큰은 기록하지 않는다
	_ = env.svc.Auth.Logout(context.Background(), "jti-2", time.Now().Add(-time.Minute))
	if _, ok := env.blacklist.jtis["jti-2"]; ok {
		t.Error("만료된 토큰은 블랙리스트에 올리지 않아야 함")
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"cmcs/backend/config"
	"cmcs/backend/internal/dto"
	"cmcs/backend/internal/model"
	"cmcs/backend/internal/repository"
	"cmcs/backend/pkg/jwt"
)

func newTestAuthService() (AuthService, *repository.Repository) {
	cfg := newTestConfig()
	cfg.Auth = config.AuthConfig{
		JWTSecret:               "test-secret-at-least-16-chars",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 168 * time.Hour,
	}
	repo := newTestRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	return NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop()), repo
}

func seedAuthUser(t *testing.T, repo *repository.Repository, username, password string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	user := &model.User{
		Username:     username,
		Name:         "测试用户",
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleHR,
		IsActive:     active,
	}
	if err := repo.User.Create(context.Background(), user); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, repo := newTestAuthService()
	seedAuthUser(t, repo, "admin", "password123", true)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("登录成功应返回 Token 对")
	}
	if resp.User.Username != "admin" {
		t.Errorf("用户名 = %s, 期望 admin", resp.User.Username)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn = %d, 期望 900", resp.ExpiresIn)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo := newTestAuthService()
	seedAuthUser(t, repo, "admin", "password123", true)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，得到 %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestAuthService()

	// 用户不存在与密码错误返回同一错误，避免枚举用户名
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "ghost",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，得到 %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc, repo := newTestAuthService()
	seedAuthUser(t, repo, "leaver", "password123", false)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "leaver",
		Password: "password123",
	})
	if !errors.Is(err, ErrUserDisabled) {
		t.Errorf("期望 ErrUserDisabled，得到 %v", err)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, repo := newTestAuthService()
	seedAuthUser(t, repo, "admin", "password123", true)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 失败: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("换发应返回新的 Token 对")
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, repo := newTestAuthService()
	seedAuthUser(t, repo, "admin", "password123", true)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}

	// Access Token 不能用来换发
	_, err = svc.RefreshToken(context.Background(), login.AccessToken)
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，得到 %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, repo := newTestAuthService()
	user := seedAuthUser(t, repo, "admin", "password123", true)

	err := svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpassword456",
	})
	if err != nil {
		t.Fatalf("ChangePassword 失败: %v", err)
	}

	// 旧密码失效，新密码可登录
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin", Password: "password123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，得到 %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin", Password: "newpassword456",
	}); err != nil {
		t.Errorf("新密码登录失败: %v", err)
	}
}

func TestChangePasswordWrongOld(t *testing.T) {
	svc, repo := newTestAuthService()
	user := seedAuthUser(t, repo, "admin", "password123", true)

	err := svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newpassword456",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，得到 %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go

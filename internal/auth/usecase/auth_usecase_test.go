package usecase_test

import (
	"testing"
	"time"

	authdto "jobradar-backend/internal/auth/dto"
	"jobradar-backend/internal/auth/repository"
	"jobradar-backend/internal/auth/usecase"
	"jobradar-backend/pkg/config"
)

func newAuth(t *testing.T) usecase.AuthUsecase {
	t.Helper()
	hash, err := repository.HashPassword("hunter2secret")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	cfg := &config.Config{
		AdminEmail:        "ops@example.com",
		AdminPasswordHash: hash,
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   time.Hour,
	}
	return usecase.NewAuthUsecase(cfg)
}

func TestLoginAndValidate(t *testing.T) {
	auth := newAuth(t)

	resp, err := auth.Login(&authdto.LoginRequest{
		Email:    "ops@example.com",
		Password: "hunter2secret",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("empty access token")
	}
	if resp.Email != "ops@example.com" {
		t.Errorf("email = %q", resp.Email)
	}

	email, err := auth.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if email != "ops@example.com" {
		t.Errorf("validated email = %q", email)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newAuth(t)

	if _, err := auth.Login(&authdto.LoginRequest{
		Email: "ops@example.com", Password: "wrong",
	}); err == nil {
		t.Error("wrong password accepted")
	}
	if _, err := auth.Login(&authdto.LoginRequest{
		Email: "intruder@example.com", Password: "hunter2secret",
	}); err == nil {
		t.Error("unknown email accepted")
	}
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	auth := newAuth(t)

	if _, err := auth.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	auth := newAuth(t)

	hash, err := repository.HashPassword("hunter2secret")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	other := usecase.NewAuthUsecase(&config.Config{
		AdminEmail:        "ops@example.com",
		AdminPasswordHash: hash,
		JWTSecret:         "different-secret",
		JWTAccessExpiry:   time.Hour,
	})
	resp, err := other.Login(&authdto.LoginRequest{
		Email: "ops@example.com", Password: "hunter2secret",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := auth.ValidateToken(resp.AccessToken); err == nil {
		t.Error("token signed with a different secret accepted")
	}
}

package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pirouette/internal/config"
	"pirouette/internal/models"
	"pirouette/internal/repository"
	"pirouette/internal/repository/memory"
	"pirouette/internal/security"
	"pirouette/internal/service"
)

func newAuthFixture(t *testing.T) (*service.AuthService, *memory.UserStore) {
	t.Helper()

	cfg := &config.AppConfig{
		Session: config.SessionConfig{
			Secret:     "test-secret-test-secret-test-secret",
			TTL:        time.Hour,
			CookieName: "session",
		},
	}
	users := memory.NewUserStore()
	return service.NewAuthService(users, nil, cfg, zerolog.Nop()), users
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := auth.Register(ctx, service.RegisterInput{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Email != "ada@example.com" {
		t.Fatalf("email not case-folded: %q", res.User.Email)
	}
	if res.User.Role != models.UserRoleUser {
		t.Fatalf("expected user role, got %q", res.User.Role)
	}
	if res.Token == "" {
		t.Fatal("expected a session token on registration")
	}

	// Login with either casing of the email.
	got, err := auth.Login(ctx, "ADA@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.User.ID != res.User.ID {
		t.Fatalf("login resolved the wrong user: %q", got.User.ID)
	}

	claims, err := security.ParseSessionToken(got.Token, "test-secret-test-secret-test-secret")
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != res.User.ID {
		t.Fatalf("token uid %q, want %q", claims.UserID, res.User.ID)
	}
	if claims.Role != string(models.UserRoleUser) {
		t.Fatalf("token role %q", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("token missing jti")
	}
}

func TestRegister_AdminRole(t *testing.T) {
	auth, _ := newAuthFixture(t)

	res, err := auth.Register(context.Background(), service.RegisterInput{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "password123",
		AsAdmin:  true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Role != models.UserRoleAdmin {
		t.Fatalf("expected admin role, got %q", res.User.Role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	input := service.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "password123"}
	if _, err := auth.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	input.Name = "Imposter"
	if _, err := auth.Register(ctx, input); !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, service.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := auth.Login(ctx, "ada@example.com", "wrong-password"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	// Unknown email comes back indistinguishable from a wrong password.
	if _, err := auth.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogoutWithoutCacheIsNoop(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := auth.Register(ctx, service.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	auth.Logout(ctx, res.Token)

	claims, err := security.ParseSessionToken(res.Token, "test-secret-test-secret-test-secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if auth.IsRevoked(ctx, claims.ID) {
		t.Fatal("no revocation list is wired, token must not read as revoked")
	}
}

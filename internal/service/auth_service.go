package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pirouette/internal/config"
	"pirouette/internal/ids"
	"pirouette/internal/models"
	"pirouette/internal/repository"
	"pirouette/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

const revokedKeyPrefix = "session:revoked:"

type AuthService struct {
	users UserStore
	cache *redis.Client
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(users UserStore, cache *redis.Client, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users: users,
		cache: cache,
		cfg:   cfg,
		log:   log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	AsAdmin  bool
}

type AuthResult struct {
	User  models.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return AuthResult{}, fmt.Errorf("email and password required")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	role := models.UserRoleUser
	if input.AsAdmin {
		role = models.UserRoleAdmin
	}

	user := models.User{
		ID:           ids.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (AuthResult, error) {
	user, err := s.VerifyPassword(ctx, email, password)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token}, nil
}

// VerifyPassword resolves the user by (case-folded) email and checks the
// plaintext against the stored hash. A wrong password and an unknown email
// are the same ErrInvalidCredentials; only store failures differ.
func (s *AuthService) VerifyPassword(ctx context.Context, email string, password string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Logout puts the token id on the revocation list for the remainder of its
// lifetime. With no cache wired the token simply expires on its own.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) {
	if s.cache == nil {
		return
	}

	claims, err := security.ParseSessionToken(tokenStr, s.cfg.Session.Secret)
	if err != nil || claims.ID == "" {
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, revokedKeyPrefix+claims.ID, "1", ttl).Err(); err != nil {
		s.log.Warn().Err(err).Msg("session revocation write failed")
	}
}

// IsRevoked reports whether the token id was denylisted by a logout.
func (s *AuthService) IsRevoked(ctx context.Context, tokenID string) bool {
	if s.cache == nil || tokenID == "" {
		return false
	}
	n, err := s.cache.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		s.log.Warn().Err(err).Msg("session revocation read failed")
		return false
	}
	return n > 0
}

func (s *AuthService) issueToken(user models.User) (string, error) {
	return security.IssueSessionToken(
		s.cfg.Session.Secret,
		user.ID,
		string(user.Role),
		s.cfg.Session.TTL,
	)
}

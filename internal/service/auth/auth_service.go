package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/skyfare/ticketdesk/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// SessionStore holds issued bearer tokens with a TTL.
type SessionStore interface {
	SaveSession(ctx context.Context, token string, userID int64, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (int64, bool, error)
	DeleteSession(ctx context.Context, token string) error
}

type AuthService struct {
	users    repository.UserRepository
	sessions SessionStore
	tokenTTL time.Duration
}

func NewAuthService(users repository.UserRepository, sessions SessionStore, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokenTTL: tokenTTL}
}

// Login verifies the credentials and issues an opaque bearer token. Wrong
// email and wrong password collapse to the same error so the endpoint does
// not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if user.Status != domain.UserStatusActive {
		return "", nil, fmt.Errorf("account is inactive: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	token := uuid.NewString()
	if err := s.sessions.SaveSession(ctx, token, user.ID, s.tokenTTL); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token back to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", domain.ErrUnauthorized)
	}
	userID, found, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	if user.Status != domain.UserStatusActive {
		return nil, fmt.Errorf("account is inactive: %w", domain.ErrUnauthorized)
	}
	return user, nil
}

var _ AuthUseCase = (*AuthService)(nil)

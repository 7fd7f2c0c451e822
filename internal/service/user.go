// Package service contains the business logic layer.
//
// This file implements user registration, login, and session management.
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/repository"
)

// SessionDuration is how long a session stays valid.
// Keep in sync with the session cookie MaxAge in the middleware package.
const SessionDuration = 7 * 24 * time.Hour

// UserStore is the persistence surface the user service needs. It is
// satisfied by *repository.Queries.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, name string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.Session, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// UserService defines operations for users and sessions.
type UserService interface {
	Register(ctx context.Context, params domain.RegisterParams) (*domain.LoginResult, error)
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
	Logout(ctx context.Context, token string) error

	// GetBySessionToken resolves a raw session token to its user.
	// Expired sessions and banned users fail with an unauthorized error.
	GetBySessionToken(ctx context.Context, token string) (*domain.User, error)
}

type userService struct {
	store  UserStore
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(queries *repository.Queries, logger *slog.Logger) UserService {
	return &userService{
		store:  queries,
		logger: logger,
	}
}

// NewUserServiceWithStore creates a UserService on a bare store. Used in
// tests.
func NewUserServiceWithStore(store UserStore, logger *slog.Logger) UserService {
	return &userService{store: store, logger: logger}
}

// Register creates a new user on the free plan and opens a session.
func (s *userService) Register(ctx context.Context, params domain.RegisterParams) (*domain.LoginResult, error) {
	const op = "user.register"

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Invalid(op, "A valid email address is required")
	}
	if len(params.Password) < 8 {
		return nil, domain.Invalid(op, "Password must be at least 8 characters")
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.Conflict(op, "An account with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.Internal(err, op, "failed to check existing user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	user, err := s.store.CreateUser(ctx, email, string(hash), strings.TrimSpace(params.Name))
	if err != nil {
		// Two concurrent registrations can both pass the lookup above; the
		// unique index on email breaks the tie and the loser gets a conflict.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Conflict(op, "An account with this email already exists")
		}
		return nil, domain.Internal(err, op, "failed to create user")
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create session")
	}

	s.logger.Info("user registered", "user_id", user.ID, "plan", user.Plan)
	return &domain.LoginResult{User: user, Token: token}, nil
}

// Login verifies credentials and opens a session.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	const op = "user.login"

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.Unauthorized(op, "Invalid email or password")
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.Unauthorized(op, "Invalid email or password")
	}
	if user.Banned {
		return nil, domain.Forbidden(op, "Account is suspended")
	}

	// Opportunistic cleanup of expired session rows. Login is the one hot
	// path that always reaches the sessions table anyway; a failure here
	// never blocks the login.
	if n, err := s.store.DeleteExpiredSessions(ctx); err != nil {
		s.logger.Warn("expired session cleanup failed", "error", err)
	} else if n > 0 {
		s.logger.Debug("expired sessions purged", "count", n)
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create session")
	}

	return &domain.LoginResult{User: user, Token: token}, nil
}

// Logout invalidates the session for a raw token. Unknown tokens are a
// no-op.
func (s *userService) Logout(ctx context.Context, token string) error {
	const op = "user.logout"
	if err := s.store.DeleteSession(ctx, hashToken(token)); err != nil {
		return domain.Internal(err, op, "failed to delete session")
	}
	return nil
}

// GetBySessionToken resolves a raw session token to its user.
func (s *userService) GetBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	const op = "user.session"

	session, err := s.store.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.Unauthorized(op, "Invalid session")
		}
		return nil, domain.Internal(err, op, "failed to load session")
	}
	if session.IsExpired() {
		return nil, domain.Unauthorized(op, "Session expired")
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.Unauthorized(op, "Invalid session")
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}
	if user.Banned {
		return nil, domain.Forbidden(op, "Account is suspended")
	}

	return user, nil
}

// openSession generates a raw token, stores its hash, and returns the raw
// token. The raw token is never persisted.
func (s *userService) openSession(ctx context.Context, user *domain.User) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	_, err := s.store.CreateSession(ctx, user.ID, hashToken(token), time.Now().Add(SessionDuration))
	if err != nil {
		return "", err
	}
	return token, nil
}

// hashToken returns the hex SHA-256 of a raw session token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

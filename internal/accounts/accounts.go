// Package accounts is the server-side domain of the stand-in auth API:
// registered accounts, login sessions, and the repositories persisting them.
package accounts

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/regdash/internal/registration"
)

// Account is a registered user with a hashed password.
type Account struct {
	ID           string
	Name         string
	Username     string
	Email        string
	PasswordHash []byte
	Gender       registration.Gender
	Country      string
	Hobbies      []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount builds an account from a validated payload and a password hash.
func NewAccount(p registration.Payload, passwordHash []byte, now time.Time) *Account {
	return &Account{
		ID:           uuid.NewString(),
		Name:         p.Name,
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: passwordHash,
		Gender:       registration.Gender(p.Gender),
		Country:      p.Country,
		Hobbies:      slices.Clone(p.Hobbies),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// User is the public view of the account.
func (a *Account) User() registration.User {
	return registration.User{
		ID:       a.ID,
		Name:     a.Name,
		Username: a.Username,
		Email:    a.Email,
		Gender:   string(a.Gender),
		Country:  a.Country,
		Hobbies:  slices.Clone(a.Hobbies),
	}
}

// Session is a login session referenced by the session cookie.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// NewSession starts a session for userID lasting ttl.
func NewSession(userID string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Active reports whether the session is neither revoked nor expired at now.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// AccountRepository persists accounts.
type AccountRepository interface {
	// Create inserts a. A duplicate email or username is a *ConflictError.
	Create(ctx context.Context, a *Account) error
	FindByID(ctx context.Context, id string) (*Account, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

// SessionRepository persists sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	Find(ctx context.Context, id string) (*Session, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// NotFoundError is returned when a lookup matches nothing.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ConflictError is returned when a unique column already holds the value.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already taken", e.Field)
}

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zjrosen/regdash/internal/accounts"
	"github.com/zjrosen/regdash/internal/infrastructure/sqlite"
	"github.com/zjrosen/regdash/internal/registration"
)

// Builder accumulates test data and inserts it in the correct order.
type Builder struct {
	t        *testing.T
	db       *sqlite.DB
	accounts []accountData
	sessions []sessionData

	builtAccounts map[string]*accounts.Account
	builtSessions map[string][]*accounts.Session
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sqlite.DB) *Builder {
	t.Helper()
	return &Builder{
		t:             t,
		db:            db,
		builtAccounts: make(map[string]*accounts.Account),
		builtSessions: make(map[string][]*accounts.Session),
	}
}

// WithAccount adds an account with optional configuration.
func (b *Builder) WithAccount(username string, opts ...AccountOption) *Builder {
	account := defaultAccount(username)
	for _, opt := range opts {
		opt(&account)
	}
	b.accounts = append(b.accounts, account)
	return b
}

// WithSession adds a login session for the account with username.
func (b *Builder) WithSession(username string, opts ...SessionOption) *Builder {
	session := sessionData{username: username, startedAt: time.Now(), ttl: time.Hour}
	for _, opt := range opts {
		opt(&session)
	}
	b.sessions = append(b.sessions, session)
	return b
}

// Build inserts all accumulated data into the database.
func (b *Builder) Build() *Builder {
	b.t.Helper()
	// Insert in dependency order: accounts → sessions
	for _, a := range b.accounts {
		b.insertAccount(a)
	}
	for _, s := range b.sessions {
		b.insertSession(s)
	}
	return b
}

// Account returns the built account for username.
func (b *Builder) Account(username string) *accounts.Account {
	b.t.Helper()
	a, ok := b.builtAccounts[username]
	require.True(b.t, ok, "account %q was not built", username)
	return a
}

// Sessions returns the built sessions for username, in insertion order.
func (b *Builder) Sessions(username string) []*accounts.Session {
	return b.builtSessions[username]
}

func (b *Builder) insertAccount(a accountData) {
	b.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.MinCost)
	require.NoError(b.t, err)

	account := accounts.NewAccount(registration.Payload{
		Name:                 a.name,
		Username:             a.username,
		Email:                a.email,
		Password:             a.password,
		PasswordConfirmation: a.password,
		Gender:               string(a.gender),
		Hobbies:              a.hobbies,
		Country:              a.country,
	}, hash, a.createdAt)
	require.NoError(b.t, b.db.AccountRepository().Create(context.Background(), account))
	b.builtAccounts[a.username] = account
}

func (b *Builder) insertSession(s sessionData) {
	b.t.Helper()
	account := b.Account(s.username)

	session := accounts.NewSession(account.ID, s.startedAt, s.ttl)
	repo := b.db.SessionRepository()
	require.NoError(b.t, repo.Create(context.Background(), session))
	if s.revoked {
		require.NoError(b.t, repo.Revoke(context.Background(), session.ID, s.startedAt))
		revokedAt := s.startedAt
		session.RevokedAt = &revokedAt
	}
	b.builtSessions[s.username] = append(b.builtSessions[s.username], session)
}

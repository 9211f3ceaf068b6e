package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zjrosen/regdash/internal/registration"
)

func TestBuilder_WithAccount_Defaults(t *testing.T) {
	db := NewTestDB(t)
	b := NewBuilder(t, db).WithAccount("alice").Build()

	got, err := db.AccountRepository().FindByID(context.Background(), b.Account("alice").ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Name)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, registration.GenderFemale, got.Gender)
	require.Equal(t, registration.Countries[0], got.Country)
	require.Equal(t, []string{registration.Hobbies[0]}, got.Hobbies)
	require.NoError(t, bcrypt.CompareHashAndPassword(got.PasswordHash, []byte(DefaultPassword)))
}

func TestBuilder_WithAccount_AllOptions(t *testing.T) {
	db := NewTestDB(t)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewBuilder(t, db).
		WithAccount("bob",
			Name("Bob Smith"), Email("bob@test.dev"), Password("hunter22"),
			Gender(registration.GenderMale), Country("Japan"),
			Hobbies("Music", "Art"), CreatedAt(created)).
		Build()

	got, err := db.AccountRepository().FindByID(context.Background(), b.Account("bob").ID)
	require.NoError(t, err)
	require.Equal(t, "Bob Smith", got.Name)
	require.Equal(t, "bob@test.dev", got.Email)
	require.Equal(t, registration.GenderMale, got.Gender)
	require.Equal(t, "Japan", got.Country)
	require.Equal(t, []string{"Music", "Art"}, got.Hobbies)
	require.True(t, created.Equal(got.CreatedAt))
	require.NoError(t, bcrypt.CompareHashAndPassword(got.PasswordHash, []byte("hunter22")))
}

func TestBuilder_WithSession(t *testing.T) {
	db := NewTestDB(t)
	start := time.Now().Truncate(time.Second)
	b := NewBuilder(t, db).
		WithAccount("alice").
		WithSession("alice", StartedAt(start), ExpiresIn(time.Minute)).
		WithSession("alice", Revoked()).
		Build()

	sessions := b.Sessions("alice")
	require.Len(t, sessions, 2)

	active, err := db.SessionRepository().Find(context.Background(), sessions[0].ID)
	require.NoError(t, err)
	require.Equal(t, b.Account("alice").ID, active.UserID)
	require.True(t, active.Active(start))
	require.False(t, active.Active(start.Add(time.Minute)))

	revoked, err := db.SessionRepository().Find(context.Background(), sessions[1].ID)
	require.NoError(t, err)
	require.NotNil(t, revoked.RevokedAt)
	require.False(t, revoked.Active(time.Now()))
}

func TestBuilder_StandardTestData(t *testing.T) {
	db := NewTestDB(t)
	b := NewBuilder(t, db).WithStandardTestData().Build()

	ctx := context.Background()
	taken, err := db.AccountRepository().UsernameTaken(ctx, "janed")
	require.NoError(t, err)
	require.True(t, taken)
	taken, err = db.AccountRepository().EmailTaken(ctx, "john@example.com")
	require.NoError(t, err)
	require.True(t, taken)

	require.True(t, b.Sessions("janed")[0].Active(time.Now()))
	require.False(t, b.Sessions("johnd")[0].Active(time.Now()))
}

func TestValidPayload_PassesValidation(t *testing.T) {
	p := ValidPayload("carol")

	require.Equal(t, "carol", p.Username)
	require.Equal(t, p.Password, p.PasswordConfirmation)
	require.Contains(t, registration.Hobbies, p.Hobbies[0])
	require.Contains(t, registration.Countries, p.Country)
}

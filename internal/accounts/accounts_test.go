package accounts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/regdash/internal/registration"
)

func TestNewAccount_User(t *testing.T) {
	now := time.Now()
	p := registration.Payload{
		Name:     "Jane Doe",
		Username: "janed",
		Email:    "jane@example.com",
		Gender:   "female",
		Hobbies:  []string{"Reading", "Art"},
		Country:  "Canada",
	}

	a := NewAccount(p, []byte("hash"), now)
	require.Len(t, a.ID, 36)
	require.Equal(t, now, a.CreatedAt)

	u := a.User()
	require.Equal(t, a.ID, u.ID)
	require.Equal(t, "female", u.Gender)
	require.Equal(t, []string{"Reading", "Art"}, u.Hobbies)

	p.Hobbies[0] = "changed"
	require.Equal(t, "Reading", a.Hobbies[0], "account must not alias the payload")
}

func TestSession_Active(t *testing.T) {
	now := time.Now()
	s := NewSession("u1", now, time.Hour)

	require.True(t, s.Active(now))
	require.False(t, s.Active(now.Add(2*time.Hour)))

	revoked := now
	s.RevokedAt = &revoked
	require.False(t, s.Active(now))
}

func TestErrors(t *testing.T) {
	require.Equal(t, "session not found: abc", (&NotFoundError{Kind: "session", ID: "abc"}).Error())
	require.Equal(t, "email already taken", (&ConflictError{Field: "email"}).Error())
}

package testutil

import (
	"time"

	"github.com/zjrosen/regdash/internal/registration"
)

// DefaultPassword is the plain-text password of accounts built without a
// Password option.
const DefaultPassword = "password1"

// accountData holds all data for an account to be inserted.
type accountData struct {
	username  string
	name      string
	email     string
	password  string
	gender    registration.Gender
	country   string
	hobbies   []string
	createdAt time.Time
}

// defaultAccount returns an accountData with sensible defaults.
func defaultAccount(username string) accountData {
	return accountData{
		username:  username,
		name:      username, // Default name is the username
		email:     username + "@example.com",
		password:  DefaultPassword,
		gender:    registration.GenderFemale,
		country:   registration.Countries[0],
		hobbies:   []string{registration.Hobbies[0]},
		createdAt: time.Now(),
	}
}

// AccountOption configures an account during builder setup.
type AccountOption func(*accountData)

// Name sets the account's full name.
func Name(name string) AccountOption {
	return func(a *accountData) { a.name = name }
}

// Email sets the account's email.
func Email(email string) AccountOption {
	return func(a *accountData) { a.email = email }
}

// Password sets the account's plain-text password.
func Password(password string) AccountOption {
	return func(a *accountData) { a.password = password }
}

// Gender sets the account's gender.
func Gender(g registration.Gender) AccountOption {
	return func(a *accountData) { a.gender = g }
}

// Country sets the account's country.
func Country(country string) AccountOption {
	return func(a *accountData) { a.country = country }
}

// Hobbies sets the account's hobbies, in order.
func Hobbies(hobbies ...string) AccountOption {
	return func(a *accountData) { a.hobbies = hobbies }
}

// CreatedAt sets the account's creation time.
func CreatedAt(t time.Time) AccountOption {
	return func(a *accountData) { a.createdAt = t }
}

// sessionData holds data for a session to be inserted.
type sessionData struct {
	username  string
	startedAt time.Time
	ttl       time.Duration
	revoked   bool
}

// SessionOption configures a session during builder setup.
type SessionOption func(*sessionData)

// StartedAt sets when the session began.
func StartedAt(t time.Time) SessionOption {
	return func(s *sessionData) { s.startedAt = t }
}

// ExpiresIn sets the session lifetime.
func ExpiresIn(ttl time.Duration) SessionOption {
	return func(s *sessionData) { s.ttl = ttl }
}

// Revoked marks the session as logged out at its start time.
func Revoked() SessionOption {
	return func(s *sessionData) { s.revoked = true }
}

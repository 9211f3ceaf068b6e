package testutil

import (
	"time"

	"github.com/zjrosen/regdash/internal/registration"
)

// WithStandardTestData adds two accounts: janed with an active session and
// johnd whose only session was logged out.
func (b *Builder) WithStandardTestData() *Builder {
	lastWeek := time.Now().Add(-7 * 24 * time.Hour)

	return b.
		WithAccount("janed",
			Name("Jane Doe"), Email("jane@example.com"),
			Gender(registration.GenderFemale), Country("Canada"),
			Hobbies("Reading", "Coding"), CreatedAt(lastWeek)).
		WithAccount("johnd",
			Name("John Doe"), Email("john@example.com"),
			Gender(registration.GenderMale), Country("United States"),
			Hobbies("Gaming"), CreatedAt(lastWeek)).
		WithSession("janed").
		WithSession("johnd", Revoked())
}

// ValidPayload returns a registration payload that passes every rule.
func ValidPayload(username string) registration.Payload {
	return registration.Payload{
		Name:                 "Test User",
		Username:             username,
		Email:                username + "@example.com",
		Password:             DefaultPassword,
		PasswordConfirmation: DefaultPassword,
		Gender:               string(registration.GenderOther),
		Hobbies:              []string{"Reading"},
		Country:              "Canada",
	}
}

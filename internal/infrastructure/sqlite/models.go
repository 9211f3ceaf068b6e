package sqlite

import (
	"encoding/json"
	"time"

	"github.com/zjrosen/regdash/internal/accounts"
	"github.com/zjrosen/regdash/internal/registration"
)

// accountModel is a users row. Times are Unix seconds and hobbies are a
// JSON array.
type accountModel struct {
	ID           string
	Name         string
	Username     string
	Email        string
	PasswordHash []byte
	Gender       string
	Country      string
	Hobbies      string
	CreatedAt    int64
	UpdatedAt    int64
}

func toAccountModel(a *accounts.Account) (*accountModel, error) {
	hobbies, err := json.Marshal(a.Hobbies)
	if err != nil {
		return nil, err
	}
	if a.Hobbies == nil {
		hobbies = []byte("[]")
	}
	return &accountModel{
		ID:           a.ID,
		Name:         a.Name,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Gender:       string(a.Gender),
		Country:      a.Country,
		Hobbies:      string(hobbies),
		CreatedAt:    a.CreatedAt.Unix(),
		UpdatedAt:    a.UpdatedAt.Unix(),
	}, nil
}

func (m *accountModel) toDomain() (*accounts.Account, error) {
	var hobbies []string
	if err := json.Unmarshal([]byte(m.Hobbies), &hobbies); err != nil {
		return nil, err
	}
	return &accounts.Account{
		ID:           m.ID,
		Name:         m.Name,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Gender:       registration.Gender(m.Gender),
		Country:      m.Country,
		Hobbies:      hobbies,
		CreatedAt:    time.Unix(m.CreatedAt, 0),
		UpdatedAt:    time.Unix(m.UpdatedAt, 0),
	}, nil
}

// sessionModel is a sessions row.
type sessionModel struct {
	ID        string
	UserID    string
	CreatedAt int64
	ExpiresAt int64
	RevokedAt *int64 // nullable
}

func toSessionModel(s *accounts.Session) *sessionModel {
	m := &sessionModel{
		ID:        s.ID,
		UserID:    s.UserID,
		CreatedAt: s.CreatedAt.Unix(),
		ExpiresAt: s.ExpiresAt.Unix(),
	}
	if s.RevokedAt != nil {
		revokedAt := s.RevokedAt.Unix()
		m.RevokedAt = &revokedAt
	}
	return m
}

func (m *sessionModel) toDomain() *accounts.Session {
	s := &accounts.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		CreatedAt: time.Unix(m.CreatedAt, 0),
		ExpiresAt: time.Unix(m.ExpiresAt, 0),
	}
	if m.RevokedAt != nil {
		t := time.Unix(*m.RevokedAt, 0)
		s.RevokedAt = &t
	}
	return s
}

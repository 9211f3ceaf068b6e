package auth

import (
	"context"
	"sync"

	"github.com/zjrosen/regdash/internal/log"
	"github.com/zjrosen/regdash/internal/registration"
)

// Guard is the access mode of a view.
type Guard string

const (
	// GuardGuest views are for visitors; a signed-in user is sent away.
	GuardGuest Guard = "guest"
	// GuardAuth views need a user; a guest is sent away.
	GuardAuth Guard = "auth"
)

// Allows reports whether a view with this guard may be shown for user.
func (g Guard) Allows(user *registration.User) bool {
	switch g {
	case GuardGuest:
		return user == nil
	case GuardAuth:
		return user != nil
	default:
		return true
	}
}

// Session tracks the current user on top of a Collaborator and announces
// every change on its broker.
type Session struct {
	collab Collaborator
	broker *Broker

	mu       sync.RWMutex
	user     *registration.User
	resolved bool
}

// NewSession creates a Session. broker may be shared with other producers.
func NewSession(collab Collaborator, broker *Broker) *Session {
	return &Session{collab: collab, broker: broker}
}

// Broker returns the broker session events are published on.
func (s *Session) Broker() *Broker {
	return s.broker
}

// User returns the current user, nil for a guest or before Resolve.
func (s *Session) User() *registration.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Resolved reports whether the first lookup has completed.
func (s *Session) Resolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}

// Resolve looks up the current user and publishes EventResolved.
func (s *Session) Resolve(ctx context.Context) (*registration.User, error) {
	user, err := s.collab.User(ctx)
	if err != nil {
		log.ErrorErr(log.CatAuth, "Failed to resolve user", err)
		return nil, err
	}
	s.set(user)
	s.broker.Publish(EventResolved, user)
	return user, nil
}

// Register submits payload. On success the new user is loaded and
// EventSignedIn is published; rejected input is returned as field errors.
func (s *Session) Register(ctx context.Context, payload registration.Payload) (*registration.FieldErrors, error) {
	errs, err := s.collab.Register(ctx, payload)
	if err != nil {
		return nil, err
	}
	if !errs.Empty() {
		return errs, nil
	}

	user, err := s.collab.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	s.set(user)
	s.broker.Publish(EventSignedIn, user)
	return nil, nil
}

// Logout ends the session and publishes EventSignedOut.
func (s *Session) Logout(ctx context.Context) error {
	if s.User() == nil {
		return ErrUnauthenticated
	}
	if err := s.collab.Logout(ctx); err != nil {
		log.ErrorErr(log.CatAuth, "Logout failed", err)
		return err
	}
	s.set(nil)
	s.broker.Publish(EventSignedOut, nil)
	return nil
}

func (s *Session) set(user *registration.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.resolved = true
}

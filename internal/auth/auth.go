// Package auth is the client side of the authentication API: an HTTP
// collaborator speaking the Sanctum-style cookie protocol, a session holder
// that applies guest/auth guards, and a broker announcing session changes
// to the TUI.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zjrosen/regdash/internal/registration"
)

// Collaborator owns all network I/O for registration and sessions.
type Collaborator interface {
	// User returns the signed-in user, or nil for a guest.
	User(ctx context.Context) (*registration.User, error)
	// Register creates an account and signs it in. Rejected input comes back
	// as field errors with a nil error.
	Register(ctx context.Context, payload registration.Payload) (*registration.FieldErrors, error)
	// Logout ends the current session.
	Logout(ctx context.Context) error
}

var (
	// ErrUnauthenticated is returned when an operation needs a session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnexpectedStatus matches any *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// StatusError reports an HTTP status the client has no mapping for.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

// Is makes errors.Is(err, ErrUnexpectedStatus) true for every StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// GeneralField is the FieldErrors key used for failures not tied to a field.
const GeneralField = "general"

const (
	msgSessionExpired = "Your session has expired. Please try again."
	msgUnreachable    = "Unable to reach the server. Please try again."
	msgGeneric        = "Something went wrong. Please try again."
)

// FieldErrorsFromError folds a transport or status failure into the same
// shape as validation errors so the register view can show it in its banner.
func FieldErrorsFromError(err error) *registration.FieldErrors {
	if err == nil {
		return nil
	}
	errs := registration.NewFieldErrors()

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.Status == StatusPageExpired:
		errs.Add(GeneralField, msgSessionExpired)
	case errors.As(err, &statusErr) && statusErr.Message != "":
		errs.Add(GeneralField, statusErr.Message)
	case errors.As(err, &statusErr):
		errs.Add(GeneralField, fmt.Sprintf("%s (%d %s)", msgGeneric, statusErr.Status, http.StatusText(statusErr.Status)))
	case errors.Is(err, context.DeadlineExceeded), isNetError(err):
		errs.Add(GeneralField, msgUnreachable)
	default:
		errs.Add(GeneralField, msgGeneric)
	}
	return errs
}

// StatusPageExpired is the status the API uses for a CSRF token mismatch.
const StatusPageExpired = 419

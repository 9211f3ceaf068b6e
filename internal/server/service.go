package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/zjrosen/regdash/internal/accounts"
	"github.com/zjrosen/regdash/internal/log"
	"github.com/zjrosen/regdash/internal/registration"
)

// service implements registration and session handling over the
// repositories.
type service struct {
	accounts   accounts.AccountRepository
	sessions   accounts.SessionRepository
	tokens     *tokenService
	validate   *validator.Validate
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

// issuedSession is a freshly created session and its signed cookie value.
type issuedSession struct {
	session *accounts.Session
	token   string
}

func (s *service) register(ctx context.Context, req registerRequest) (*accounts.Account, *issuedSession, error) {
	errs, err := validateRequest(s.validate, req)
	if err != nil {
		return nil, nil, &Error{Code: CodeInternal, Message: "Server Error", Err: err}
	}
	p := req.payload()

	if !errs.Has("email") {
		if err := s.checkTaken(ctx, errs, "email", p.Email, s.accounts.EmailTaken); err != nil {
			return nil, nil, err
		}
	}
	if !errs.Has("username") {
		if err := s.checkTaken(ctx, errs, "username", p.Username, s.accounts.UsernameTaken); err != nil {
			return nil, nil, err
		}
	}
	if !errs.Empty() {
		return nil, nil, validationError(ordered(errs))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, &Error{Code: CodeInternal, Message: "Server Error", Err: fmt.Errorf("hash password: %w", err)}
	}

	account := accounts.NewAccount(p, hash, s.now())
	if err := s.accounts.Create(ctx, account); err != nil {
		var conflict *accounts.ConflictError
		if errors.As(err, &conflict) {
			// Lost a race with a concurrent registration.
			errs := registration.NewFieldErrors()
			errs.Add(conflict.Field, takenMessage(conflict.Field))
			return nil, nil, validationError(errs)
		}
		return nil, nil, &Error{Code: CodeInternal, Message: "Server Error", Err: err}
	}
	log.Info(log.CatServer, "Account created", "id", account.ID, "username", account.Username)

	issued, err := s.startSession(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}
	return account, issued, nil
}

func (s *service) checkTaken(ctx context.Context, errs *registration.FieldErrors, field, value string, taken func(context.Context, string) (bool, error)) error {
	ok, err := taken(ctx, value)
	if err != nil {
		return &Error{Code: CodeInternal, Message: "Server Error", Err: err}
	}
	if ok {
		errs.Add(field, takenMessage(field))
	}
	return nil
}

func takenMessage(field string) string {
	return fmt.Sprintf("The %s has already been taken.", field)
}

// ordered rebuilds errs so fields follow the form order regardless of the
// order checks ran in.
func ordered(errs *registration.FieldErrors) *registration.FieldErrors {
	out := registration.NewFieldErrors()
	for _, field := range fieldOrder {
		for _, msg := range errs.Get(field) {
			out.Add(field, msg)
		}
	}
	return out
}

// validationError builds the 422 error whose message follows Laravel's
// "first message (and N more errors)" summary.
func validationError(errs *registration.FieldErrors) *Error {
	_, first, _ := errs.First()
	msg := first
	total := 0
	for _, field := range errs.Fields() {
		total += len(errs.Get(field))
	}
	switch extra := total - 1; {
	case extra == 1:
		msg = fmt.Sprintf("%s (and 1 more error)", first)
	case extra > 1:
		msg = fmt.Sprintf("%s (and %d more errors)", first, extra)
	}
	return &Error{Code: CodeValidation, Message: msg, Fields: errs}
}

func (s *service) startSession(ctx context.Context, userID string) (*issuedSession, error) {
	session := accounts.NewSession(userID, s.now(), s.sessionTTL)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, &Error{Code: CodeInternal, Message: "Server Error", Err: err}
	}
	token, err := s.tokens.issue(session.ID, userID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return nil, &Error{Code: CodeInternal, Message: "Server Error", Err: err}
	}
	return &issuedSession{session: session, token: token}, nil
}

// authenticate resolves a session cookie to its live session and account.
func (s *service) authenticate(ctx context.Context, token string) (*accounts.Account, *accounts.Session, error) {
	now := s.now()
	claims, err := s.tokens.parse(token, now)
	if err != nil {
		log.Debug(log.CatServer, "Rejected session token", "error", err)
		return nil, nil, errUnauthenticated
	}

	session, err := s.sessions.Find(ctx, claims.ID)
	var notFound *accounts.NotFoundError
	if errors.As(err, &notFound) {
		return nil, nil, errUnauthenticated
	}
	if err != nil {
		return nil, nil, &Error{Code: CodeInternal, Message: "Server Error", Err: err}
	}
	if !session.Active(now) || session.UserID != claims.Subject {
		return nil, nil, errUnauthenticated
	}

	account, err := s.accounts.FindByID(ctx, session.UserID)
	if errors.As(err, &notFound) {
		return nil, nil, errUnauthenticated
	}
	if err != nil {
		return nil, nil, &Error{Code: CodeInternal, Message: "Server Error", Err: err}
	}
	return account, session, nil
}

func (s *service) logout(ctx context.Context, session *accounts.Session) error {
	if err := s.sessions.Revoke(ctx, session.ID, s.now()); err != nil {
		return &Error{Code: CodeInternal, Message: "Server Error", Err: err}
	}
	log.Info(log.CatServer, "Session revoked", "session", session.ID)
	return nil
}

func (s *service) pruneSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}

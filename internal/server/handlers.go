package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/zjrosen/regdash/internal/accounts"
	"github.com/zjrosen/regdash/internal/log"
)

// Cookie names.
const (
	xsrfCookie    = "XSRF-TOKEN"
	xsrfHeader    = "X-XSRF-TOKEN"
	sessionCookie = "regdash_session"
)

// csrfCookie issues a fresh XSRF-TOKEN cookie.
// GET /sanctum/csrf-cookie
func (s *Server) csrfCookie(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		writeError(w, &Error{Code: CodeInternal, Message: "Server Error", Err: err})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     xsrfCookie,
		Value:    hex.EncodeToString(buf),
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// requireCSRF rejects state-changing requests whose X-XSRF-TOKEN header
// does not match the XSRF-TOKEN cookie.
func requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(xsrfCookie)
		header := r.Header.Get(xsrfHeader)
		if decoded, derr := url.QueryUnescape(header); derr == nil {
			header = decoded
		}
		if err != nil || cookie.Value == "" ||
			subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
			log.Warn(log.CatServer, "CSRF token mismatch", "path", r.URL.Path)
			writeError(w, errCSRFMismatch)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// register creates an account and signs it in.
// POST /register
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, newError(CodeBadRequest, "Invalid request body."))
		return
	}

	_, issued, err := s.svc.register(r.Context(), req)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Code == CodeValidation {
			s.metrics.Registrations.WithLabelValues(outcomeRejected).Inc()
		} else {
			s.metrics.Registrations.WithLabelValues(outcomeError).Inc()
		}
		writeError(w, err)
		return
	}

	s.metrics.Registrations.WithLabelValues(outcomeCreated).Inc()
	s.setSessionCookie(w, issued)
	w.WriteHeader(http.StatusNoContent)
}

// user returns the signed-in user.
// GET /api/user
func (s *Server) user(w http.ResponseWriter, r *http.Request) {
	account, _, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account.User())
}

// logout revokes the session and clears its cookie.
// POST /logout
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	_, session, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.svc.logout(r.Context(), session); err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

type healthResponse struct {
	Status string `json:"status"`
}

// health reports whether the database answers.
// GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			log.ErrorErr(log.CatServer, "Health check failed", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) authenticate(r *http.Request) (*accounts.Account, *accounts.Session, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, nil, errUnauthenticated
	}
	return s.svc.authenticate(r.Context(), cookie.Value)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, issued *issuedSession) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    issued.token,
		Path:     "/",
		Expires:  issued.session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

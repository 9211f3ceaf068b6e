package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zjrosen/regdash/internal/log"
	"github.com/zjrosen/regdash/internal/registration"
)

// Code classifies a handler failure.
type Code string

const (
	CodeBadRequest      Code = "bad_request"
	CodeValidation      Code = "validation"
	CodeUnauthenticated Code = "unauthenticated"
	CodeCSRFMismatch    Code = "csrf_mismatch"
	CodeInternal        Code = "internal"
)

// statusPageExpired is Laravel's status for a CSRF token mismatch.
const statusPageExpired = 419

// Error is a failure with a client-facing message.
type Error struct {
	Code    Code
	Message string
	Fields  *registration.FieldErrors // set for CodeValidation
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the code to an HTTP status.
func (e *Error) Status() int {
	switch e.Code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeCSRFMismatch:
		return statusPageExpired
	default:
		return http.StatusInternalServerError
	}
}

func newError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

var (
	errUnauthenticated = newError(CodeUnauthenticated, "Unauthenticated.")
	errCSRFMismatch    = newError(CodeCSRFMismatch, "CSRF token mismatch.")
)

type errorResponse struct {
	Message string                    `json:"message"`
	Errors  *registration.FieldErrors `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.ErrorErr(log.CatServer, "Failed to encode JSON response", err)
	}
}

// writeError renders err. Anything that is not an *Error is logged and
// reported as a 500 without details.
func writeError(w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		log.ErrorErr(log.CatServer, "Unhandled error", err)
		e = &Error{Code: CodeInternal, Message: "Server Error"}
	}
	if e.Code == CodeInternal && e.Err != nil {
		log.ErrorErr(log.CatServer, e.Message, e.Err)
	}
	writeJSON(w, e.Status(), errorResponse{Message: e.Message, Errors: e.Fields})
}

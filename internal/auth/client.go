package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/regdash/internal/cachemanager"
	"github.com/zjrosen/regdash/internal/log"
	"github.com/zjrosen/regdash/internal/registration"
	"github.com/zjrosen/regdash/internal/tracing"
)

// API paths.
const (
	PathCSRFCookie = "/sanctum/csrf-cookie"
	PathRegister   = "/register"
	PathUser       = "/api/user"
	PathLogout     = "/logout"
)

// Cookie and header names of the CSRF handshake.
const (
	CookieXSRF = "XSRF-TOKEN"
	HeaderXSRF = "X-XSRF-TOKEN"
)

// ClientConfig configures NewClient.
type ClientConfig struct {
	BaseURL      string
	Timeout      time.Duration
	UserCacheTTL time.Duration // 0 disables the user cache
	Tracing      *tracing.Provider
	Transport    http.RoundTripper // nil uses http.DefaultTransport
}

// Client is the HTTP Collaborator. Cookies persist in an in-memory jar for
// the lifetime of the client.
type Client struct {
	base     *url.URL
	http     *http.Client
	tracer   trace.Tracer
	cacheTTL time.Duration
	users    *cachemanager.ReadThroughCache[string, *registration.User, struct{}]
}

var _ Collaborator = (*Client)(nil)

// NewClient creates a client for the API at cfg.BaseURL.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	provider := cfg.Tracing
	if provider == nil {
		provider = tracing.Disabled()
	}

	c := &Client{
		base: base,
		http: &http.Client{
			Jar:       jar,
			Timeout:   cfg.Timeout,
			Transport: tracing.NewTransport(cfg.Transport, provider),
		},
		tracer:   provider.Tracer(),
		cacheTTL: cfg.UserCacheTTL,
	}
	c.users = cachemanager.NewReadThroughCache[string, *registration.User, struct{}](
		cachemanager.NewInMemoryCacheManager[*registration.User]("user", cfg.UserCacheTTL, cachemanager.DefaultCleanupInterval),
		func(ctx context.Context, _ struct{}) (*registration.User, error) { return c.fetchUser(ctx) },
		cfg.UserCacheTTL <= 0,
	)
	return c, nil
}

func (c *Client) userKey() string {
	return "user:" + c.base.String()
}

// User returns the signed-in user or nil when the API answers 401.
func (c *Client) User(ctx context.Context) (*registration.User, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanAuthUser)
	defer span.End()

	user, hit, err := c.users.Get(ctx, c.userKey(), struct{}{}, c.cacheTTL)
	span.SetAttributes(attribute.Bool(tracing.AttrCacheHit, hit))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user != nil {
		span.SetAttributes(attribute.String(tracing.AttrUserID, user.ID))
	}
	return user, nil
}

func (c *Client) fetchUser(ctx context.Context) (*registration.User, error) {
	resp, err := c.do(ctx, http.MethodGet, PathUser, nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		var user registration.User
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		log.Debug(log.CatAuth, "Resolved user", "id", user.ID)
		return &user, nil
	case http.StatusUnauthorized, StatusPageExpired:
		log.Debug(log.CatAuth, "No session", "status", resp.StatusCode)
		return nil, nil
	default:
		return nil, statusError("user", resp)
	}
}

type validationResponse struct {
	Message string                    `json:"message"`
	Errors  *registration.FieldErrors `json:"errors"`
}

// Register posts payload to the API. A 422 answer is returned as field
// errors in the order the API listed them.
func (c *Client) Register(ctx context.Context, payload registration.Payload) (*registration.FieldErrors, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanAuthRegister)
	defer span.End()

	errs, err := c.register(ctx, payload)
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case !errs.Empty():
		field, _, _ := errs.First()
		span.SetAttributes(attribute.Int(tracing.AttrFieldErrors, errs.Len()))
		span.AddEvent(tracing.EventValidationFailed, trace.WithAttributes(
			attribute.String(tracing.AttrFirstBadField, field),
		))
	}
	return errs, err
}

func (c *Client) register(ctx context.Context, payload registration.Payload) (*registration.FieldErrors, error) {
	if err := c.csrf(ctx); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, PathRegister, payload)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		if err := c.users.Invalidate(ctx, c.userKey()); err != nil {
			log.ErrorErr(log.CatCache, "Failed to invalidate user cache", err)
		}
		log.Info(log.CatAuth, "Registered", "username", payload.Username)
		return nil, nil
	case http.StatusUnprocessableEntity:
		var body validationResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode validation errors: %w", err)
		}
		errs := body.Errors
		if errs.Empty() {
			msg := strings.TrimSpace(body.Message)
			if msg == "" {
				msg = msgGeneric
			}
			errs = registration.NewFieldErrors()
			errs.Add(GeneralField, msg)
		}
		log.Debug(log.CatAuth, "Registration rejected", "fields", errs.Fields())
		return errs, nil
	default:
		return nil, statusError("register", resp)
	}
}

// Logout ends the session. A missing session counts as logged out.
func (c *Client) Logout(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, tracing.SpanAuthLogout)
	defer span.End()

	err := c.logout(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) logout(ctx context.Context) error {
	if err := c.csrf(ctx); err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPost, PathLogout, nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if err := c.users.Invalidate(ctx, c.userKey()); err != nil {
		log.ErrorErr(log.CatCache, "Failed to invalidate user cache", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusUnauthorized:
		log.Info(log.CatAuth, "Logged out")
		return nil
	default:
		return statusError("logout", resp)
	}
}

// csrf primes the XSRF-TOKEN cookie.
func (c *Client) csrf(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, tracing.SpanAuthCSRF)
	defer span.End()

	resp, err := c.do(ctx, http.MethodGet, PathCSRFCookie, nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError("csrf", resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.xsrfToken(); token != "" {
		req.Header.Set(HeaderXSRF, token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.ErrorErr(log.CatAPI, "Request failed", err, "method", method, "path", path)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	log.Debug(log.CatAPI, "Request", "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

// xsrfToken returns the decoded XSRF-TOKEN cookie value.
func (c *Client) xsrfToken() string {
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name != CookieXSRF {
			continue
		}
		if v, err := url.QueryUnescape(cookie.Value); err == nil {
			return v
		}
		return cookie.Value
	}
	return ""
}

func statusError(op string, resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	return &StatusError{Op: op, Status: resp.StatusCode, Message: body.Message}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

func isNetError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

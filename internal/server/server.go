// Package server is a stand-in for the authentication API the TUI talks
// to. It follows the Laravel Breeze API conventions: a CSRF cookie
// handshake, cookie sessions, and 422 responses carrying field errors.
package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/zjrosen/regdash/internal/accounts"
	"github.com/zjrosen/regdash/internal/log"
	"github.com/zjrosen/regdash/internal/tracing"
)

// Config configures a Server.
type Config struct {
	Addr       string
	SessionTTL time.Duration
	// Secret signs session cookies. When empty a random key is generated
	// and sessions do not survive a restart.
	Secret []byte
	// PruneInterval is how often expired sessions are deleted. Zero uses
	// one minute.
	PruneInterval time.Duration
	BcryptCost    int
	Tracing       *tracing.Provider
	Now           func() time.Time
}

// Deps are the stores a Server persists to.
type Deps struct {
	Accounts accounts.AccountRepository
	Sessions accounts.SessionRepository
	// Ping checks storage health for GET /health. Optional.
	Ping func(context.Context) error
}

// Server serves the auth API.
type Server struct {
	cfg     Config
	svc     *service
	metrics *Metrics
	ping    func(context.Context) error
	handler http.Handler
}

// New builds a Server. It does not start listening.
func New(cfg Config, deps Deps) (*Server, error) {
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.PruneInterval == 0 {
		cfg.PruneInterval = time.Minute
	}
	if len(cfg.Secret) == 0 {
		cfg.Secret = make([]byte, 32)
		if _, err := rand.Read(cfg.Secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		log.Warn(log.CatServer, "No session secret configured; using an ephemeral key")
	}

	s := &Server{
		cfg:     cfg,
		metrics: NewMetrics(),
		ping:    deps.Ping,
		svc: &service{
			accounts:   deps.Accounts,
			sessions:   deps.Sessions,
			tokens:     newTokenService(cfg.Secret),
			validate:   newRequestValidator(),
			sessionTTL: cfg.SessionTTL,
			bcryptCost: cfg.BcryptCost,
			now:        cfg.Now,
		},
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(tracing.Middleware(s.cfg.Tracing, routePattern))
	r.Use(s.metrics.Middleware)
	r.Use(requestLogger)

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Get("/sanctum/csrf-cookie", s.csrfCookie)
	r.Get("/api/user", s.user)

	r.Group(func(r chi.Router) {
		r.Use(requireCSRF)
		r.Post("/register", s.register)
		r.Post("/logout", s.logout)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Not Found"})
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug(log.CatServer, "Request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// Run listens on cfg.Addr and serves until ctx is cancelled, then shuts
// down gracefully. Expired sessions are pruned in the background.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go s.pruneLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.CatServer, "Starting auth API", "addr", listener.Addr().String())
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(log.CatServer, "Stopping auth API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.svc.pruneSessions(ctx)
			if err != nil {
				log.ErrorErr(log.CatServer, "Failed to prune sessions", err)
				continue
			}
			s.metrics.SessionsPruned.Add(float64(n))
		}
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/regdash/internal/accounts"
	"github.com/zjrosen/regdash/internal/log"
)

// sessionRepository implements accounts.SessionRepository.
type sessionRepository struct {
	db *sql.DB
}

func newSessionRepository(db *sql.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

var _ accounts.SessionRepository = (*sessionRepository)(nil)

func (r *sessionRepository) Create(ctx context.Context, s *accounts.Session) error {
	m := toSessionModel(s)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at, revoked_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.CreatedAt, m.ExpiresAt, m.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Find returns the session with id, including revoked and expired ones.
func (r *sessionRepository) Find(ctx context.Context, id string) (*accounts.Session, error) {
	var m sessionModel
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at, revoked_at FROM sessions WHERE id = ?`, id,
	).Scan(&m.ID, &m.UserID, &m.CreatedAt, &m.ExpiresAt, &m.RevokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &accounts.NotFoundError{Kind: "session", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return m.toDomain(), nil
}

// Revoke marks the session revoked. Revoking twice keeps the first time.
func (r *sessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = COALESCE(revoked_at, ?) WHERE id = ?`,
		at.Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &accounts.NotFoundError{Kind: "session", ID: id}
	}
	return nil
}

// DeleteExpired removes sessions that expired or were revoked before now.
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ? OR revoked_at IS NOT NULL`,
		now.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		log.Debug(log.CatDB, "Pruned sessions", "count", n)
	}
	return n, nil
}

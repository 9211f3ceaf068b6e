package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ncruces/go-sqlite3"

	"github.com/zjrosen/regdash/internal/accounts"
)

const accountColumns = `id, name, username, email, password_hash, gender, country, hobbies, created_at, updated_at`

// accountRepository implements accounts.AccountRepository.
type accountRepository struct {
	db *sql.DB
}

func newAccountRepository(db *sql.DB) *accountRepository {
	return &accountRepository{db: db}
}

var _ accounts.AccountRepository = (*accountRepository)(nil)

func (r *accountRepository) Create(ctx context.Context, a *accounts.Account) error {
	m, err := toAccountModel(a)
	if err != nil {
		return fmt.Errorf("failed to encode account: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Username, m.Email, m.PasswordHash, m.Gender, m.Country, m.Hobbies,
		m.CreatedAt, m.UpdatedAt,
	)
	if errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
		return &accounts.ConflictError{Field: uniqueColumn(err)}
	}
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// uniqueColumn extracts the column from "UNIQUE constraint failed: users.email".
func uniqueColumn(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, "users."); i >= 0 {
		col := msg[i+len("users."):]
		if j := strings.IndexAny(col, " ,)"); j >= 0 {
			col = col[:j]
		}
		return col
	}
	return "account"
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (*accounts.Account, error) {
	var m accountModel
	err := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM users WHERE id = ?`, id,
	).Scan(&m.ID, &m.Name, &m.Username, &m.Email, &m.PasswordHash, &m.Gender, &m.Country,
		&m.Hobbies, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &accounts.NotFoundError{Kind: "account", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	a, err := m.toDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to decode account %s: %w", id, err)
	}
	return a, nil
}

func (r *accountRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE email = ? LIMIT 1`, email)
}

func (r *accountRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE username = ? LIMIT 1`, username)
}

func (r *accountRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	return true, nil
}

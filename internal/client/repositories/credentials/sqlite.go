package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/biwott-v/campus-connect-cli/internal/dbx"
)

// Fixed keys in the session table. The token key is the well-known location
// of the persisted credential.
const (
	keyAccessToken  = "access_token"
	keyAccountEmail = "account_email"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Token(ctx context.Context) (string, error) {
	return r.get(ctx, r.db, keyAccessToken)
}

func (r *SQLiteRepository) AccountEmail(ctx context.Context) (string, error) {
	return r.get(ctx, r.db, keyAccountEmail)
}

func (r *SQLiteRepository) Save(ctx context.Context, token, accountEmail string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := r.set(ctx, tx, keyAccessToken, token); err != nil {
			return err
		}
		return r.set(ctx, tx, keyAccountEmail, accountEmail)
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session store: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) get(ctx context.Context, db dbx.DBTX, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)

package authstate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mpcconsole/internal/common"
	"mpcconsole/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context) (*Record, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM auth_state WHERE key = ?`, Namespace).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read auth state: %w", err)
	}

	rec := &Record{}
	if err := json.Unmarshal(value, rec); err != nil {
		return nil, fmt.Errorf("failed to decode auth state: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, rec *Record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode auth state: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO auth_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, Namespace, value)
	if err != nil {
		return fmt.Errorf("failed to save auth state: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_state WHERE key = ?`, Namespace)
	if err != nil {
		return fmt.Errorf("failed to clear auth state: %w", err)
	}
	return nil
}

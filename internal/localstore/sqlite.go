package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vmunix/marquee/internal/migrations"
)

// SQLite is a Storage backed by the local_storage table.
// A quota of zero means unlimited.
type SQLite struct {
	db    *sql.DB
	quota int64
}

// NewSQLite creates a SQLite storage and applies its schema.
func NewSQLite(ctx context.Context, db *sql.DB, quotaBytes int64) (*SQLite, error) {
	if _, err := db.ExecContext(ctx, migrations.LocalStorageSQL); err != nil {
		return nil, fmt.Errorf("migrate local_storage: %w", err)
	}
	return &SQLite{db: db, quota: quotaBytes}, nil
}

func (s *SQLite) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM local_storage WHERE key = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage get: %w", err)
	}
	return value, true, nil
}

func (s *SQLite) SetItem(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if s.quota > 0 {
		var others int64
		err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0) FROM local_storage WHERE key != ?", key,
		).Scan(&others)
		if err != nil {
			return fmt.Errorf("storage usage: %w", err)
		}
		if others+itemSize(key, value) > s.quota {
			return ErrQuotaExceeded
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO local_storage (key, value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("storage set: %w", err)
	}
	return tx.Commit()
}

func (s *SQLite) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM local_storage WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("storage remove: %w", err)
	}
	return nil
}

// Usage returns total stored bytes and item count.
func (s *SQLite) Usage(ctx context.Context) (bytes int64, items int, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0), COUNT(*) FROM local_storage",
	).Scan(&bytes, &items)
	if err != nil {
		return 0, 0, fmt.Errorf("storage usage: %w", err)
	}
	return bytes, items, nil
}

package blobs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cabinkeeper/internal/dbx"
	"github.com/dmitrijs2005/cabinkeeper/internal/repositories/blobs/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// OpenSQLite opens (creating if needed) the database at dsn and applies the
// embedded migrations. ":memory:" is accepted.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := RunSQLiteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite migrations: %w", err)
	}
	return NewSQLiteRepository(db), nil
}

func RunSQLiteMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.SQLite)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "sqlite")
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	return sqliteSet(ctx, r.db, key, value)
}

func (r *SQLiteRepository) SetAll(ctx context.Context, items map[string][]byte) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, key := range sortedKeys(items) {
			if err := sqliteSet(ctx, tx, key, items[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

func sqliteSet(ctx context.Context, q dbx.DBTX, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set blob[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete blob[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

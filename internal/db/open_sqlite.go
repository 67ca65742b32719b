//go:build !mem

package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/leancanvas/pkg/canvas"
)

type sqliteStore struct{ db *sql.DB }

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (Store, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqliteStore{db: dbh}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  hash TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	return err
}

func (s *sqliteStore) Load(ctx context.Context) (canvas.Record, error) {
	var value string
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, StorageKey)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return canvas.Record{}, ErrNotFound
		}
		return canvas.Record{}, err
	}
	return decodeRecord([]byte(value))
}

// Save upserts the record; an unchanged record (same hash) is not rewritten.
func (s *sqliteStore) Save(ctx context.Context, r canvas.Record) error {
	data, err := encodeRecord(r)
	if err != nil {
		return err
	}
	hash := r.Hash()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var stored string
	err = tx.QueryRowContext(ctx, `SELECT hash FROM kv WHERE key=?`, StorageKey).Scan(&stored)
	switch {
	case err == nil && stored == hash:
		return nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO kv(key, value, hash, updated_at) VALUES(?,?,?,?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, hash=excluded.hash, updated_at=excluded.updated_at`,
		StorageKey, string(data), hash, time.Now().UTC())
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key=?`, StorageKey)
	return err
}

func (s *sqliteStore) Close() error { return s.db.Close() }

package labstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"labcompass/lib/chrono"

	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// SQL stores values in the lab_snapshot table of a sqlite or libsql
// database.
type SQL struct {
	db   *sql.DB
	time chrono.TimeAPI
}

// NewSQL creates the lab_snapshot table if it is missing.
func NewSQL(ctx context.Context, db *sql.DB) (*SQL, error) {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return nil, fmt.Errorf("migrate lab_snapshot: %w", err)
	}
	return &SQL{db: db, time: chrono.NewStandardTime()}, nil
}

// OpenSQLite opens (and creates if needed) a local sqlite database, path may
// be ":memory:".
func OpenSQLite(ctx context.Context, path string) (*SQL, error) {
	if path == "" {
		return nil, fmt.Errorf("labstore: sqlite driver needs a path")
	}
	if path != ":memory:" {
		_, statErr := os.Stat(path)
		if os.IsNotExist(statErr) {
			f, err := os.Create(path)
			if err != nil {
				return nil, err
			}
			f.Close()
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer, an in memory database only exists
	// within its connection
	db.SetMaxOpenConns(1)
	_, err = db.ExecContext(ctx, "PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}

	store, err := NewSQL(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// OpenLibsql connects to a remote libsql database, url is of the form
// libsql://host?authToken=... or http(s)://host.
func OpenLibsql(ctx context.Context, url string) (*SQL, error) {
	if url == "" {
		return nil, fmt.Errorf("labstore: libsql driver needs a url")
	}
	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, err
	}
	store, err := NewSQL(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(
		ctx,
		"select value from lab_snapshot where key = ?",
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(
		ctx,
		`insert into lab_snapshot(key, value, updated_at) values (?, ?, ?)
		on conflict(key) do update set value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.time.Now().UnixMilli(),
	)
	return err
}

// UpdatedAt returns when key was last set, in unix milliseconds.
func (s *SQL) UpdatedAt(ctx context.Context, key string) (int64, error) {
	var updatedAt int64
	err := s.db.QueryRowContext(
		ctx,
		"select updated_at from lab_snapshot where key = ?",
		key,
	).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return updatedAt, err
}

func (s *SQL) Close() error {
	return s.db.Close()
}

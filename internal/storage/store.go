package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// LedgerStore owns the SQLite handle behind the four ledger collections.
// Every operation is one statement round trip serialized by mu.
type LedgerStore struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// Open creates the database file if needed, applies the schema and returns
// a ready store. The caller must Close it.
func Open(ctx context.Context, dbPath string) (*LedgerStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, storeErr("open", fmt.Errorf("create db directory: %w", err))
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storeErr("open", fmt.Errorf("open sqlite database: %w", err))
	}

	// One connection: the lock below is the only writer discipline.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		closeQuietly(db)
		return nil, storeErr("open", fmt.Errorf("ping database: %w", err))
	}

	if err := RunMigrations(dbPath); err != nil {
		closeQuietly(db)
		return nil, storeErr("open", err)
	}

	slog.DebugContext(ctx, "Ledger store opened", "db_path", dbPath)

	return &LedgerStore{db: db}, nil
}

// Close releases the connection. A second Close fails with ErrStoreClosed.
func (s *LedgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storeErr("close", ErrStoreClosed)
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return storeErr("close", err)
	}
	return nil
}

// Ping checks that the store is open and the database answers.
func (s *LedgerStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storeErr("ping", ErrStoreClosed)
	}
	return storeErr("ping", s.db.PingContext(ctx))
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing db", "error", err)
	}
}

// insert runs an INSERT and returns the new row id. Callers hold mu.
func (s *LedgerStore) insert(ctx context.Context, op, query string, args ...any) (int64, error) {
	if s.closed {
		return 0, storeErr(op, ErrStoreClosed)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storeErr(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeErr(op, fmt.Errorf("last insert id: %w", err))
	}
	return id, nil
}

// exec runs an UPDATE or DELETE and returns the affected row count. Zero is
// not an error. Callers hold mu.
func (s *LedgerStore) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	if s.closed {
		return 0, storeErr(op, ErrStoreClosed)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storeErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr(op, fmt.Errorf("rows affected: %w", err))
	}
	return n, nil
}

// query runs a SELECT and hands each row to scan. Callers hold mu.
func (s *LedgerStore) query(ctx context.Context, op, query string, scan func(*sql.Rows) error, args ...any) error {
	if s.closed {
		return storeErr(op, ErrStoreClosed)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return storeErr(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return storeErr(op, fmt.Errorf("scan row: %w", err))
		}
	}
	if err := rows.Err(); err != nil {
		return storeErr(op, fmt.Errorf("row iteration: %w", err))
	}
	return nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrPreconditionFailed = errors.New("precondition failed")
)

// Store is the persistence layer. It is safe for concurrent use.
type Store struct {
	conn   *sql.DB
	secret string
	now    func() time.Time
}

// New wraps an open database. sessionSecret keys the HMAC under which
// session tokens are stored.
func New(conn *sql.DB, sessionSecret string) *Store {
	return &Store{conn: conn, secret: sessionSecret, now: time.Now}
}

// SetClock replaces the time source used for expirations.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// DB returns the underlying connection pool
func (s *Store) DB() *sql.DB {
	return s.conn
}

// Timestamps are stored in UTC with second precision so both drivers
// round-trip them unchanged.
func (s *Store) timeNow() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queryIDs collects a single text column. Rows are closed before returning
// so the caller can keep using the same transaction.
func queryIDs(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Ettorelg/Tesi/auth"
	"github.com/Ettorelg/Tesi/models"
)

// CreateSession opens a login session for userID and returns the bearer token
func (s *Store) CreateSession(ctx context.Context, userID string, ttl time.Duration) (string, time.Time, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.timeNow()
	expires := now.Add(ttl)
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO sessioni (token_hash, utente_id, creata_il, scadenza)
		VALUES ($1, $2, $3, $4)
	`, auth.HashToken(token, s.secret), userID, now, expires)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expires, nil
}

// UserBySession resolves a bearer token to its user.
// Missing, unknown or expired tokens yield auth.ErrUnauthorized.
func (s *Store) UserBySession(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, auth.ErrUnauthorized
	}
	tokenHash := auth.HashToken(token, s.secret)

	var expires time.Time
	row := s.conn.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.password_hash, u.is_admin, u.sportello_nome, u.sportello_numero, u.creato_il,
		       s.scadenza
		FROM sessioni s
		JOIN utenti u ON u.id = s.utente_id
		WHERE s.token_hash = $1
	`, tokenHash)

	u, err := scanUser(scanWithExtra{row: row, extra: []any{&expires}})
	if err == sql.ErrNoRows {
		return models.User{}, auth.ErrUnauthorized
	}
	if err != nil {
		return models.User{}, err
	}

	if !s.timeNow().Before(expires) {
		if _, err := s.conn.ExecContext(ctx, `DELETE FROM sessioni WHERE token_hash = $1`, tokenHash); err != nil {
			slog.Error("failed to delete expired session", "error", err)
		}
		return models.User{}, auth.ErrUnauthorized
	}

	return u, nil
}

// DeleteSession ends a session. Unknown tokens are ignored.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM sessioni WHERE token_hash = $1`, auth.HashToken(token, s.secret))
	return err
}

// PurgeExpiredSessions deletes sessions past their expiration and returns
// how many were removed.
func (s *Store) PurgeExpiredSessions(ctx context.Context) (int, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT token_hash, scadenza FROM sessioni`)
	if err != nil {
		return 0, err
	}

	now := s.timeNow()
	var expired []string
	for rows.Next() {
		var hash string
		var expires time.Time
		if err := rows.Scan(&hash, &expires); err != nil {
			rows.Close()
			return 0, err
		}
		if !now.Before(expires) {
			expired = append(expired, hash)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, hash := range expired {
		if _, err := s.conn.ExecContext(ctx, `DELETE FROM sessioni WHERE token_hash = $1`, hash); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}

// scanWithExtra lets scanUser read a user row followed by extra columns
type scanWithExtra struct {
	row   rowScanner
	extra []any
}

func (s scanWithExtra) Scan(dest ...any) error {
	return s.row.Scan(append(dest, s.extra...)...)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Ettorelg/Tesi/auth"
	"github.com/Ettorelg/Tesi/db"
	"github.com/Ettorelg/Tesi/models"
)

// NewUser holds the fields accepted when creating an account
type NewUser struct {
	Username      string
	Password      string
	IsAdmin       bool
	CounterName   *string
	CounterNumber *int
}

const userColumns = `id, username, password_hash, is_admin, sportello_nome, sportello_numero, creato_il`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var counterName sql.NullString
	var counterNumber sql.NullInt64
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &counterName, &counterNumber, &u.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	if counterName.Valid {
		u.CounterName = &counterName.String
	}
	if counterNumber.Valid {
		n := int(counterNumber.Int64)
		u.CounterNumber = &n
	}
	return u, nil
}

// CreateUser adds an account. The username must be unique.
func (s *Store) CreateUser(ctx context.Context, nu NewUser) (models.User, error) {
	username := strings.TrimSpace(nu.Username)
	if username == "" {
		return models.User{}, validationError("username is required")
	}
	if nu.Password == "" {
		return models.User{}, validationError("password is required")
	}

	hash, err := auth.HashPassword(nu.Password)
	if err != nil {
		return models.User{}, err
	}
	id, err := auth.GenerateID(16)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:            id,
		Username:      username,
		PasswordHash:  hash,
		IsAdmin:       nu.IsAdmin,
		CounterName:   nu.CounterName,
		CounterNumber: nu.CounterNumber,
		CreatedAt:     s.timeNow(),
	}

	err = db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		var taken int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM utenti WHERE username = $1`, username).Scan(&taken)
		if err != nil {
			return err
		}
		if taken > 0 {
			return fmt.Errorf("user %q: %w", username, ErrAlreadyExists)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO utenti (id, username, password_hash, is_admin, sportello_nome, sportello_numero, creato_il)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, user.ID, user.Username, user.PasswordHash, user.IsAdmin,
			nullString(user.CounterName), nullInt(user.CounterNumber), user.CreatedAt)
		if db.IsUniqueViolation(err) {
			// Lost a race with a concurrent insert of the same name
			return fmt.Errorf("user %q: %w", username, ErrAlreadyExists)
		}
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// UpdateCounter assigns (or clears, with nil values) the counter of an operator
func (s *Store) UpdateCounter(ctx context.Context, username string, counterName *string, counterNumber *int) error {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE utenti SET sportello_nome = $1, sportello_numero = $2
		WHERE username = $3
	`, nullString(counterName), nullInt(counterNumber), username)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	return nil
}

// DeleteUser removes an account together with its sessions, licenses,
// departments and lines.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	return db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		var userID string
		err := tx.QueryRowContext(ctx, `SELECT id FROM utenti WHERE username = $1`, username).Scan(&userID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		if err != nil {
			return err
		}

		licenseIDs, err := queryIDs(ctx, tx, `SELECT id FROM licenze WHERE utente_id = $1`, userID)
		if err != nil {
			return err
		}
		for _, id := range licenseIDs {
			if err := deleteLicense(ctx, tx, id); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sessioni WHERE utente_id = $1`, userID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM utenti WHERE id = $1`, userID)
		return err
	})
}

// ListUsers returns every account ordered by username
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT `+userColumns+` FROM utenti ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserByName looks up an account by username
func (s *Store) UserByName(ctx context.Context, username string) (models.User, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM utenti WHERE username = $1`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return models.User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	return u, err
}

// UserByID looks up an account by ID
func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM utenti WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u, err
}

// Authenticate checks a username/password pair.
// Unknown users and wrong passwords both yield auth.ErrUnauthorized.
func (s *Store) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	u, err := s.UserByName(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return models.User{}, auth.ErrUnauthorized
	}
	if err != nil {
		return models.User{}, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist.
// It reports whether an account was created.
func (s *Store) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.UserByName(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if password == "" {
		return false, validationError("admin password required to create %q", username)
	}

	_, err = s.CreateUser(ctx, NewUser{Username: username, Password: password, IsAdmin: true})
	if errors.Is(err, ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Ettorelg/Tesi/auth"
	"github.com/Ettorelg/Tesi/db"
	"github.com/Ettorelg/Tesi/models"
)

// LicenseTerm is the validity of a newly granted license
const LicenseTerm = 365 * 24 * time.Hour

func isValidLicenseType(t string) bool {
	for _, known := range models.LicenseTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ListLicenses returns the licenses of a user in license type order
func (s *Store) ListLicenses(ctx context.Context, userID string) ([]models.License, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, utente_id, tipo, scadenza FROM licenze WHERE utente_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byType := map[string]models.License{}
	now := s.timeNow()
	for rows.Next() {
		var l models.License
		if err := rows.Scan(&l.ID, &l.UserID, &l.Type, &l.ExpiresAt); err != nil {
			return nil, err
		}
		l.ExpiresAt = l.ExpiresAt.UTC()
		l.Active = now.Before(l.ExpiresAt)
		l.ExpiresIn = humanize.RelTime(l.ExpiresAt, now, "ago", "from now")
		byType[l.Type] = l
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	licenses := []models.License{}
	for _, t := range models.LicenseTypes {
		if l, ok := byType[t]; ok {
			licenses = append(licenses, l)
		}
	}
	return licenses, nil
}

// SetLicenses makes the user's licenses match selected: types no longer
// selected are revoked together with their departments and lines, new
// types are granted for LicenseTerm, and unchanged types keep their
// expiration.
func (s *Store) SetLicenses(ctx context.Context, userID string, selected []string) (granted, revoked []string, err error) {
	want := map[string]bool{}
	for _, t := range selected {
		if !isValidLicenseType(t) {
			return nil, nil, validationError("unknown license type %q", t)
		}
		want[t] = true
	}

	now := s.timeNow()
	err = db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		granted, revoked = nil, nil

		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `SELECT id, tipo FROM licenze WHERE utente_id = $1`, userID)
		if err != nil {
			return err
		}
		have := map[string]string{} // tipo -> id
		for rows.Next() {
			var id, t string
			if err := rows.Scan(&id, &t); err != nil {
				rows.Close()
				return err
			}
			have[t] = id
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, t := range models.LicenseTypes {
			id, held := have[t]
			switch {
			case held && !want[t]:
				if err := deleteLicense(ctx, tx, id); err != nil {
					return err
				}
				revoked = append(revoked, t)

			case !held && want[t]:
				newID, err := auth.GenerateID(16)
				if err != nil {
					return err
				}
				_, err = tx.ExecContext(ctx, `
					INSERT INTO licenze (id, utente_id, tipo, scadenza)
					VALUES ($1, $2, $3, $4)
					ON CONFLICT (utente_id, tipo) DO NOTHING
				`, newID, userID, t, now.Add(LicenseTerm))
				if err != nil {
					return err
				}
				granted = append(granted, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return granted, revoked, nil
}

// RenewLicense sets a new expiration on an existing license
func (s *Store) RenewLicense(ctx context.Context, userID, licenseType string, expiresAt time.Time) error {
	if !isValidLicenseType(licenseType) {
		return validationError("unknown license type %q", licenseType)
	}
	if expiresAt.IsZero() {
		return validationError("expiration date is required")
	}

	res, err := s.conn.ExecContext(ctx, `
		UPDATE licenze SET scadenza = $1 WHERE utente_id = $2 AND tipo = $3
	`, expiresAt.UTC().Truncate(time.Second), userID, licenseType)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("license %s for user %s: %w", licenseType, userID, ErrNotFound)
	}
	return nil
}

// Overview gathers everything the license admin page shows for one user
func (s *Store) Overview(ctx context.Context, userID string) (models.LicenseOverview, error) {
	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return models.LicenseOverview{}, err
	}
	licenses, err := s.ListLicenses(ctx, userID)
	if err != nil {
		return models.LicenseOverview{}, err
	}
	departments, err := s.ListDepartments(ctx, userID)
	if err != nil {
		return models.LicenseOverview{}, err
	}

	return models.LicenseOverview{
		User:           user,
		Licenses:       licenses,
		Departments:    departments,
		AvailableTypes: models.LicenseTypes,
	}, nil
}

func requireUser(ctx context.Context, q querier, userID string) error {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM utenti WHERE id = $1`, userID).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return nil
}

// deleteLicense removes a license and everything hanging off it
func deleteLicense(ctx context.Context, tx *sql.Tx, licenseID string) error {
	deptIDs, err := queryIDs(ctx, tx, `SELECT id FROM reparti WHERE licenza_id = $1`, licenseID)
	if err != nil {
		return err
	}
	for _, id := range deptIDs {
		if err := deleteDepartment(ctx, tx, id); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM licenze WHERE id = $1`, licenseID)
	return err
}

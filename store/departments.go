// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Ettorelg/Tesi/auth"
	"github.com/Ettorelg/Tesi/db"
	"github.com/Ettorelg/Tesi/models"
)

// ListDepartments returns the departments reachable through the user's
// eliminacode license, each with its lines.
func (s *Store) ListDepartments(ctx context.Context, userID string) ([]models.Department, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT r.id, r.nome, r.licenza_id
		FROM reparti r
		JOIN licenze l ON l.id = r.licenza_id
		WHERE l.utente_id = $1 AND l.tipo = $2
		ORDER BY r.nome, r.id
	`, userID, models.LicenseQueue)
	if err != nil {
		return nil, err
	}

	departments := []models.Department{}
	index := map[string]int{}
	for rows.Next() {
		d := models.Department{Lines: []models.Line{}}
		if err := rows.Scan(&d.ID, &d.Name, &d.LicenseID); err != nil {
			rows.Close()
			return nil, err
		}
		index[d.ID] = len(departments)
		departments = append(departments, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lineRows, err := s.conn.QueryContext(ctx, `
		SELECT f.id, f.nome, f.reparto_id
		FROM file_reparto f
		JOIN reparti r ON r.id = f.reparto_id
		JOIN licenze l ON l.id = r.licenza_id
		WHERE l.utente_id = $1 AND l.tipo = $2
		ORDER BY f.nome, f.id
	`, userID, models.LicenseQueue)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var line models.Line
		if err := lineRows.Scan(&line.ID, &line.Name, &line.DepartmentID); err != nil {
			return nil, err
		}
		if i, ok := index[line.DepartmentID]; ok {
			departments[i].Lines = append(departments[i].Lines, line)
		}
	}
	return departments, lineRows.Err()
}

// AddDepartment creates a department under the user's eliminacode license.
// The license must exist and not be expired.
func (s *Store) AddDepartment(ctx context.Context, userID, name string) (models.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Department{}, validationError("department name is required")
	}
	id, err := auth.GenerateID(12)
	if err != nil {
		return models.Department{}, err
	}

	dept := models.Department{ID: id, Name: name, Lines: []models.Line{}}
	err = db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		var expires time.Time
		err := tx.QueryRowContext(ctx, `
			SELECT id, scadenza FROM licenze WHERE utente_id = $1 AND tipo = $2
		`, userID, models.LicenseQueue).Scan(&dept.LicenseID, &expires)
		if err == sql.ErrNoRows {
			return fmt.Errorf("user %s has no %s license: %w", userID, models.LicenseQueue, ErrPreconditionFailed)
		}
		if err != nil {
			return err
		}
		if !s.timeNow().Before(expires) {
			return fmt.Errorf("%s license of user %s expired on %s: %w",
				models.LicenseQueue, userID, expires.Format("2006-01-02"), ErrPreconditionFailed)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO reparti (id, nome, licenza_id) VALUES ($1, $2, $3)
		`, dept.ID, dept.Name, dept.LicenseID)
		return err
	})
	if err != nil {
		return models.Department{}, err
	}
	return dept, nil
}

// DeleteDepartment removes a department owned by userID and all its lines
func (s *Store) DeleteDepartment(ctx context.Context, userID, deptID string) error {
	return db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		if err := requireDepartment(ctx, tx, userID, deptID); err != nil {
			return err
		}
		return deleteDepartment(ctx, tx, deptID)
	})
}

// AddLine creates a service line in a department owned by userID
func (s *Store) AddLine(ctx context.Context, userID, deptID, name string) (models.Line, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Line{}, validationError("line name is required")
	}
	id, err := auth.GenerateID(12)
	if err != nil {
		return models.Line{}, err
	}

	line := models.Line{ID: id, Name: name, DepartmentID: deptID}
	err = db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		if err := requireDepartment(ctx, tx, userID, deptID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO file_reparto (id, nome, reparto_id) VALUES ($1, $2, $3)
		`, line.ID, line.Name, line.DepartmentID)
		return err
	})
	if err != nil {
		return models.Line{}, err
	}
	return line, nil
}

// DeleteLine removes a line from a department owned by userID
func (s *Store) DeleteLine(ctx context.Context, userID, lineID string) error {
	res, err := s.conn.ExecContext(ctx, `
		DELETE FROM file_reparto
		WHERE id = $1 AND reparto_id IN (
			SELECT r.id FROM reparti r
			JOIN licenze l ON l.id = r.licenza_id
			WHERE l.utente_id = $2
		)
	`, lineID, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("line %s: %w", lineID, ErrNotFound)
	}
	return nil
}

func requireDepartment(ctx context.Context, tx *sql.Tx, userID, deptID string) error {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reparti r
		JOIN licenze l ON l.id = r.licenza_id
		WHERE r.id = $1 AND l.utente_id = $2
	`, deptID, userID).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("department %s: %w", deptID, ErrNotFound)
	}
	return nil
}

func deleteDepartment(ctx context.Context, tx *sql.Tx, deptID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM file_reparto WHERE reparto_id = $1`, deptID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM reparti WHERE id = $1`, deptID)
	return err
}

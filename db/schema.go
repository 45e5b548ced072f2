// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Statements are kept to the subset of SQL shared by PostgreSQL and SQLite.
// IDs and timestamps are generated by the application.
var schema = []string{
	// Users and operators
	`CREATE TABLE IF NOT EXISTS utenti (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    sportello_nome TEXT,
    sportello_numero INTEGER,
    creato_il TIMESTAMP NOT NULL
)`,

	// Login sessions
	`CREATE TABLE IF NOT EXISTS sessioni (
    token_hash TEXT PRIMARY KEY,
    utente_id TEXT NOT NULL REFERENCES utenti(id) ON DELETE CASCADE,
    creata_il TIMESTAMP NOT NULL,
    scadenza TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_sessioni_utente_id ON sessioni(utente_id)`,

	// Licenses
	`CREATE TABLE IF NOT EXISTS licenze (
    id TEXT PRIMARY KEY,
    utente_id TEXT NOT NULL REFERENCES utenti(id) ON DELETE CASCADE,
    tipo TEXT NOT NULL,
    scadenza TIMESTAMP NOT NULL,
    UNIQUE (utente_id, tipo)
)`,

	// Departments
	`CREATE TABLE IF NOT EXISTS reparti (
    id TEXT PRIMARY KEY,
    nome TEXT NOT NULL,
    licenza_id TEXT NOT NULL REFERENCES licenze(id) ON DELETE CASCADE
)`,
	`CREATE INDEX IF NOT EXISTS idx_reparti_licenza_id ON reparti(licenza_id)`,

	// Lines
	`CREATE TABLE IF NOT EXISTS file_reparto (
    id TEXT PRIMARY KEY,
    nome TEXT NOT NULL,
    reparto_id TEXT NOT NULL REFERENCES reparti(id) ON DELETE CASCADE
)`,
	`CREATE INDEX IF NOT EXISTS idx_file_reparto_reparto_id ON file_reparto(reparto_id)`,
}

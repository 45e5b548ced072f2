// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and manages the schema and transactions.

# Connections

Open selects the driver by type:

	conn, err := db.Open(db.TypeSQLite, "file:eliminacode.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite (modernc.org/sqlite, pure Go) is the default and uses one pooled
connection. PostgreSQL (github.com/lib/pq) uses a pool of 10 connections.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
There is no migration tooling.

# Tables

  - utenti: operators and admins (unique username, bcrypt hash, counter)
  - sessioni: login sessions keyed by the HMAC of the bearer token
  - licenze: one row per (utente_id, tipo) with an expiration date
  - reparti: departments owned by an eliminacode license
  - file_reparto: service lines inside a department

# Relationships

	utenti 1──* sessioni
	utenti 1──* licenze
	licenze 1──* reparti
	reparti 1──* file_reparto

Foreign keys declare ON DELETE CASCADE; the store also deletes children
explicitly so the behavior does not depend on driver pragmas.

# Transactions

WithTx scopes a multi-statement sequence:

	err := db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		// use tx only
		return nil
	})

The transaction rolls back on error or panic and commits otherwise.
*/
package db

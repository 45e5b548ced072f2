// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the eliminacode server.

Eliminacode is a walk-in queue ticketing service: customers take a
sequential number at a kiosk, operators call the next number from their
counter (announced by voice, on display boards, or both), and an admin
manages operator accounts, counters and license-gated departments.

# Starting the Server

Only the session secret is required; everything else has a default:

	SESSION_SECRET=change-me ADMIN_PASSWORD=changeme go run .

Or with flags:

	go run . -p 5000 -t postgres -d "postgres://..." --session-secret change-me

A .env file in the working directory is loaded first if present.

# Configuration

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): connection string (default: file:eliminacode.db)
  - SESSION_SECRET (--session-secret): key for session token hashes (required)
  - SESSION_TTL (--session-ttl): session lifetime (default: 12h)
  - ADMIN_USERNAME / ADMIN_PASSWORD: admin account created when missing
  - REDIS_URL / REDIS_CHANNEL: publish called numbers for display boards
  - TTS_COMMAND: speech program, e.g. "espeak-ng -v it -s 120"
  - ANNOUNCE_WORKERS / ANNOUNCE_QUEUE: announcement worker pool size
  - ISSUE_RATE / ISSUE_BURST: per-IP limit on taking tickets (0 = off)
  - CONFIG_FILE (-c): optional YAML file with the same settings

# Architecture

  - queue: ticket sequencer (issued and called counters)
  - announce: non-blocking announcement workers and speakers
  - store: users, sessions, licenses, departments, lines
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: logging, CORS, sessions, rate limiting, JSON helpers
  - models: Request/response types
  - auth: IDs, session tokens, password hashing
  - db: Driver selection, schema creation, transactions
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main

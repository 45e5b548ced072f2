// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Every setting is resolved in this order: CLI flag, environment variable,
YAML config file, built-in default.

# CLI Flags and Environment Variables

	-p, --port             PORT              Server port (default: 5000)
	-d, --database-url     DATABASE_URL      Database URL (default for sqlite: file:eliminacode.db)
	-t, --database-type    DATABASE_TYPE     sqlite (default) or postgres
	-c, --config           CONFIG_FILE       YAML config file
	--session-secret       SESSION_SECRET    HMAC secret for session tokens (required)
	--session-ttl          SESSION_TTL       Session lifetime (default: 12h)
	--admin-user           ADMIN_USERNAME    Bootstrap admin (default: admin)
	--admin-password       ADMIN_PASSWORD    Bootstrap admin password
	--redis-url            REDIS_URL         Publish called numbers to Redis
	--redis-channel        REDIS_CHANNEL     Channel (default: eliminacode:chiamate)
	--tts-command          TTS_COMMAND       Speech command, e.g. "espeak-ng -v it -s 120"
	--announce-workers     ANNOUNCE_WORKERS  Announcement workers (default: 2)
	--announce-queue       ANNOUNCE_QUEUE    Pending announcements kept (default: 16)
	--issue-rate           ISSUE_RATE        Tickets/second per client IP, 0 = unlimited
	--issue-burst          ISSUE_BURST       Burst per client IP (default: 5)

# Config File

	port: 5000
	database:
	  type: postgres
	  url: postgres://eliminacode:pw@localhost/eliminacode?sslmode=disable
	session:
	  secret: change-me
	  ttl: 8h
	admin:
	  username: admin
	redis:
	  url: redis://localhost:6379/0
	announce:
	  command: espeak-ng -v it -s 120
	  workers: 2
	  queue_size: 16
	rate_limit:
	  rate: 0.5
	  burst: 3

Unknown keys are rejected so typos do not silently fall back to defaults.

# Validation

ParseFlags returns an error if:

  - SESSION_SECRET is missing
  - the database type is not sqlite or postgres
  - postgres is selected without a DATABASE_URL
  - a numeric or duration value does not parse
*/
package cliparse

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential and token utilities.

# Passwords

Operator passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword("secret")
	err = auth.CheckPassword(hash, "secret") // nil or ErrUnauthorized

# Session Tokens

Session tokens are random 32-byte secrets handed to the client:

	token, err := auth.GenerateSessionToken()

The database only ever sees the HMAC-SHA256 of the token keyed with the
server session secret:

	stored := auth.HashToken(token, cfg.SessionSecret)

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# Errors

ErrUnauthorized means no valid session or credentials; ErrForbidden means
the caller is authenticated but lacks the admin role.
*/
package auth

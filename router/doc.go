// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the eliminacode API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, seq, cfg)

# Endpoints

Health:

	GET /health

Sessions:

	POST /login  - Log in (JSON or form), sets the session cookie
	GET  /login  - Current user (session required)
	GET  /logout - End the session (session required)

Queue (public):

	POST /prendi_nuovo_numero    - Take a ticket (rate limited per IP)
	POST /chiama_prossimo        - Call the next ticket
	POST /richiama_stesso        - Announce the current ticket again
	POST /chiama_precedente      - Step back one ticket
	GET  /ottieni_numero_attuale - Current and issued numbers
	POST /resetta_coda           - Restart numbering from zero

Administration (admin session required):

	GET  /gestisci_utenti           - List users
	POST /gestisci_utenti           - Add, update or delete a user
	GET  /gestisci_licenze/{userID} - Licenses, departments and lines of a user
	POST /gestisci_licenze/{userID} - Change licenses, departments or lines

Every route except /health and / is wrapped with middleware.WithLogging.
*/
package router

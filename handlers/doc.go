// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the eliminacode API.

# Handler Types

Each handler is a struct holding its dependencies:

  - QueueHandler: ticket issuing and calling (wraps a queue.Sequencer)
  - AuthHandler: login, session status, logout
  - UserHandler: operator accounts and counters (admin only)
  - LicenseHandler: licenses, departments and lines per user (admin only)

	queueHandler := handlers.NewQueueHandler(seq)
	authHandler := handlers.NewAuthHandler(st, cfg)

# Queue

	POST /prendi_nuovo_numero    → IssueNumber   {"message":"Il tuo numero è: 4","numero":4}
	POST /chiama_prossimo        → CallNext      {"message":"Numero attuale: 3","numero":3}
	POST /richiama_stesso        → RecallCurrent
	POST /chiama_precedente      → CallPrevious
	GET  /ottieni_numero_attuale → CurrentNumber (adds "emessi")
	POST /resetta_coda           → Reset

# Sessions

POST /login takes {"username","password"} as JSON or form fields, sets the
HttpOnly "session" cookie and returns the same token for API clients
together with the dashboard to open.

# Admin

POST /gestisci_utenti dispatches on "action": add, update, delete.
POST /gestisci_licenze/{userID} dispatches on "action": set_licenses,
renew, add_department, delete_department, add_line, delete_line.

# Errors

Store errors map to status codes:

	store.ErrValidation          → 400
	auth.ErrUnauthorized         → 401
	auth.ErrForbidden            → 403
	store.ErrNotFound            → 404
	store.ErrAlreadyExists       → 409
	store.ErrPreconditionFailed  → 422

Anything else is logged and answered with 500 "Database error".
*/
package handlers

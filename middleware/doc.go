// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (request_id, method, path, remote) and completion
(status, duration_ms). The request ID comes from X-Request-ID or a new
UUID and is echoed in the response.

# CORS Middleware

Enable cross-origin requests for kiosks and display boards:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Sessions

A Gate resolves the session token (cookie "session" or
"Authorization: Bearer ...") through a SessionLookup and stores the user
in the request context:

	gate := middleware.NewGate(st)
	mux.HandleFunc("GET /logout", gate.RequireLogin(h.Logout))
	mux.HandleFunc("GET /gestisci_utenti", gate.RequireAdmin(h.ListUsers))

	user, _ := middleware.CurrentUser(r.Context())

RequireLogin answers 401 without a valid session; RequireAdmin also answers
403 to non-admin users.

# Rate Limiting

Per-client-IP token buckets for the public ticket endpoint:

	limiter := middleware.NewRateLimiter(cfg.IssueRate, cfg.IssueBurst)
	mux.HandleFunc("POST /prendi_nuovo_numero", limiter.Limit(h.IssueNumber))

A rate of zero disables limiting. Client IPs come from GetClientIP, which
honors X-Forwarded-For and X-Real-IP.
*/
package middleware

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Ettorelg/Tesi/auth"
	"github.com/Ettorelg/Tesi/models"
)

// SessionCookie is the cookie holding the session token
const SessionCookie = "session"

// SessionLookup resolves a session token to its user.
// Invalid tokens must yield auth.ErrUnauthorized.
type SessionLookup interface {
	UserBySession(ctx context.Context, token string) (models.User, error)
}

type userKey struct{}

// CurrentUser returns the user put in the context by the session gate
func CurrentUser(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey{}).(models.User)
	return u, ok
}

// WithUser stores a user in the context
func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// SessionToken reads the token from the session cookie or an
// "Authorization: Bearer" header.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return ""
}

// Gate guards handlers that need a logged-in user
type Gate struct {
	sessions SessionLookup
}

func NewGate(sessions SessionLookup) *Gate {
	return &Gate{sessions: sessions}
}

// RequireLogin rejects requests without a valid session with 401
func (g *Gate) RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := g.sessions.UserBySession(r.Context(), SessionToken(r))
		if errors.Is(err, auth.ErrUnauthorized) {
			ErrorResponse(w, http.StatusUnauthorized, "Login required")
			return
		}
		if err != nil {
			slog.Error("failed to look up session", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), user)))
	}
}

// RequireAdmin is RequireLogin plus 403 for non-admin users
func (g *Gate) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return g.RequireLogin(func(w http.ResponseWriter, r *http.Request) {
		user, _ := CurrentUser(r.Context())
		if !user.IsAdmin {
			slog.Warn("admin route denied", "user", user.Username, "path", r.URL.Path)
			ErrorResponse(w, http.StatusForbidden, "Accesso negato. Solo gli amministratori possono gestire gli utenti.")
			return
		}
		next(w, r)
	})
}

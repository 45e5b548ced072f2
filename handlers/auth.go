// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Ettorelg/Tesi/auth"
	"github.com/Ettorelg/Tesi/cliparse"
	"github.com/Ettorelg/Tesi/middleware"
	"github.com/Ettorelg/Tesi/models"
	"github.com/Ettorelg/Tesi/store"
)

const (
	RedirectAdmin = "/dashboard_admin"
	RedirectUser  = "/dashboard_user"
)

type AuthHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewAuthHandler(st *store.Store, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{store: st, cfg: cfg}
}

// Login handles POST /login. It accepts a JSON body or a form post.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if middleware.IsJSON(r) {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid form")
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.store.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrUnauthorized) {
		slog.Warn("login failed", "username", req.Username, "ip", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Credenziali errate.")
		return
	}
	if err != nil {
		writeError(w, err, "authenticate user")
		return
	}

	token, expires, err := h.store.CreateSession(r.Context(), user.ID, h.cfg.SessionTTL)
	if err != nil {
		writeError(w, err, "create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	redirect := RedirectUser
	if user.IsAdmin {
		redirect = RedirectAdmin
	}

	slog.Info("user logged in", "username", user.Username, "is_admin", user.IsAdmin)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Message:  "Accesso effettuato.",
		Token:    token,
		IsAdmin:  user.IsAdmin,
		Redirect: redirect,
	})
}

// Me handles GET /login for an authenticated session
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, user)
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSession(r.Context(), middleware.SessionToken(r)); err != nil {
		writeError(w, err, "delete session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	if user, ok := middleware.CurrentUser(r.Context()); ok {
		slog.Info("user logged out", "username", user.Username)
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Disconnessione effettuata."})
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Ettorelg/Tesi/middleware"
	"github.com/Ettorelg/Tesi/models"
	"github.com/Ettorelg/Tesi/store"
)

type UserHandler struct {
	store *store.Store
}

func NewUserHandler(st *store.Store) *UserHandler {
	return &UserHandler{store: st}
}

// ListUsers handles GET /gestisci_utenti
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, err, "list users")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, users)
}

// ManageUsers handles POST /gestisci_utenti
func (h *UserHandler) ManageUsers(w http.ResponseWriter, r *http.Request) {
	var req models.ManageUsersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username is required")
		return
	}

	switch req.Action {
	case models.ActionAdd:
		h.addUser(w, r, req)
	case models.ActionUpdate:
		h.updateUser(w, r, req)
	case models.ActionDelete:
		h.deleteUser(w, r, req)
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Azione non valida.")
	}
}

func (h *UserHandler) addUser(w http.ResponseWriter, r *http.Request, req models.ManageUsersRequest) {
	user, err := h.store.CreateUser(r.Context(), store.NewUser{
		Username:      req.Username,
		Password:      req.Password,
		IsAdmin:       req.IsAdmin,
		CounterName:   req.CounterName,
		CounterNumber: req.CounterNumber,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		middleware.ErrorResponse(w, http.StatusConflict, "Utente già esistente.")
		return
	}
	if err != nil {
		writeError(w, err, "create user")
		return
	}

	slog.Info("user created", "username", user.Username, "is_admin", user.IsAdmin)

	middleware.JSONResponse(w, http.StatusCreated, models.MessageResponse{Message: "Utente aggiunto con successo."})
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request, req models.ManageUsersRequest) {
	err := h.store.UpdateCounter(r.Context(), req.Username, req.CounterName, req.CounterNumber)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Utente non trovato.")
		return
	}
	if err != nil {
		writeError(w, err, "update user")
		return
	}

	slog.Info("counter updated", "username", req.Username)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Sportello aggiornato con successo."})
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request, req models.ManageUsersRequest) {
	if me, ok := middleware.CurrentUser(r.Context()); ok && me.Username == req.Username {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Non puoi eliminare il tuo stesso utente.")
		return
	}

	err := h.store.DeleteUser(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Utente non trovato.")
		return
	}
	if err != nil {
		writeError(w, err, "delete user")
		return
	}

	slog.Info("user deleted", "username", req.Username)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Utente eliminato con successo."})
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Ettorelg/Tesi/middleware"
	"github.com/Ettorelg/Tesi/models"
	"github.com/Ettorelg/Tesi/store"
)

type LicenseHandler struct {
	store *store.Store
}

func NewLicenseHandler(st *store.Store) *LicenseHandler {
	return &LicenseHandler{store: st}
}

// parseExpiry accepts a calendar date (midnight UTC) or an RFC 3339 timestamp
func parseExpiry(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: scadenza must be YYYY-MM-DD or RFC 3339, got %q", store.ErrValidation, s)
	}
	return t.UTC(), nil
}

// GetOverview handles GET /gestisci_licenze/{userID}
func (h *LicenseHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	ov, err := h.store.Overview(r.Context(), userID)
	if err != nil {
		writeError(w, err, "load license overview")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, ov)
}

// ManageLicenses handles POST /gestisci_licenze/{userID}
func (h *LicenseHandler) ManageLicenses(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	var req models.ManageLicensesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Every action targets an existing user
	if _, err := h.store.UserByID(r.Context(), userID); err != nil {
		writeError(w, err, "load user")
		return
	}

	ctx := r.Context()
	switch req.Action {
	case models.ActionSetLicenses:
		granted, revoked, err := h.store.SetLicenses(ctx, userID, req.Types)
		if err != nil {
			writeError(w, err, "set licenses")
			return
		}
		slog.Info("licenses updated", "user_id", userID, "granted", granted, "revoked", revoked)
		middleware.JSONResponse(w, http.StatusOK, models.SetLicensesResponse{
			Message: "Licenze aggiornate con successo.",
			Granted: nonNil(granted),
			Revoked: nonNil(revoked),
		})

	case models.ActionRenew:
		expiresAt, err := parseExpiry(req.ExpiresAt)
		if err != nil {
			writeError(w, err, "parse expiration")
			return
		}
		if err := h.store.RenewLicense(ctx, userID, req.Type, expiresAt); err != nil {
			writeError(w, err, "renew license")
			return
		}
		slog.Info("license renewed", "user_id", userID, "type", req.Type, "expires_at", expiresAt)
		middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Licenza rinnovata con successo."})

	case models.ActionAddDepartment:
		dept, err := h.store.AddDepartment(ctx, userID, req.Name)
		if err != nil {
			writeError(w, err, "add department")
			return
		}
		slog.Info("department added", "user_id", userID, "department_id", dept.ID)
		middleware.JSONResponse(w, http.StatusCreated, dept)

	case models.ActionDeleteDepartment:
		if err := h.store.DeleteDepartment(ctx, userID, req.DepartmentID); err != nil {
			writeError(w, err, "delete department")
			return
		}
		slog.Info("department deleted", "user_id", userID, "department_id", req.DepartmentID)
		middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Reparto eliminato con successo."})

	case models.ActionAddLine:
		line, err := h.store.AddLine(ctx, userID, req.DepartmentID, req.Name)
		if err != nil {
			writeError(w, err, "add line")
			return
		}
		slog.Info("line added", "user_id", userID, "department_id", req.DepartmentID, "line_id", line.ID)
		middleware.JSONResponse(w, http.StatusCreated, line)

	case models.ActionDeleteLine:
		if err := h.store.DeleteLine(ctx, userID, req.LineID); err != nil {
			writeError(w, err, "delete line")
			return
		}
		slog.Info("line deleted", "user_id", userID, "line_id", req.LineID)
		middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Fila eliminata con successo."})

	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Azione non valida.")
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

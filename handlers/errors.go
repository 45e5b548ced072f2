// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Ettorelg/Tesi/auth"
	"github.com/Ettorelg/Tesi/middleware"
	"github.com/Ettorelg/Tesi/store"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, store.ErrPreconditionFailed):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeError answers with the status matching err. Unexpected errors are
// logged and reported as a generic database error.
func writeError(w http.ResponseWriter, err error, op string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("failed to "+op, "error", err)
		middleware.ErrorResponse(w, status, "Database error")
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}

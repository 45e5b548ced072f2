// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Ettorelg/Tesi/middleware"
	"github.com/Ettorelg/Tesi/models"
	"github.com/Ettorelg/Tesi/queue"
)

type QueueHandler struct {
	seq *queue.Sequencer
}

func NewQueueHandler(seq *queue.Sequencer) *QueueHandler {
	return &QueueHandler{seq: seq}
}

func currentNumber(n int) models.NumberResponse {
	return models.NumberResponse{Message: fmt.Sprintf("Numero attuale: %d", n), Number: n}
}

// IssueNumber handles POST /prendi_nuovo_numero
func (h *QueueHandler) IssueNumber(w http.ResponseWriter, r *http.Request) {
	n := h.seq.IssueNext()
	slog.Info("ticket issued", "number", n, "ip", middleware.GetClientIP(r))

	middleware.JSONResponse(w, http.StatusOK, models.NumberResponse{
		Message: fmt.Sprintf("Il tuo numero è: %d", n),
		Number:  n,
	})
}

// CallNext handles POST /chiama_prossimo
func (h *QueueHandler) CallNext(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, currentNumber(h.seq.CallNext()))
}

// RecallCurrent handles POST /richiama_stesso
func (h *QueueHandler) RecallCurrent(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, currentNumber(h.seq.RecallCurrent()))
}

// CallPrevious handles POST /chiama_precedente
func (h *QueueHandler) CallPrevious(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, currentNumber(h.seq.CallPrevious()))
}

// CurrentNumber handles GET /ottieni_numero_attuale
func (h *QueueHandler) CurrentNumber(w http.ResponseWriter, r *http.Request) {
	st := h.seq.CurrentState()
	resp := currentNumber(st.Called)
	resp.Issued = &st.Issued
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Reset handles POST /resetta_coda
func (h *QueueHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.seq.Reset()
	slog.Info("queue reset", "ip", middleware.GetClientIP(r))

	middleware.JSONResponse(w, http.StatusOK, models.NumberResponse{
		Message: "La coda è stata resettata.",
		Number:  0,
	})
}

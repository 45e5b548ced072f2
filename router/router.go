// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/Ettorelg/Tesi/cliparse"
	"github.com/Ettorelg/Tesi/handlers"
	"github.com/Ettorelg/Tesi/middleware"
	"github.com/Ettorelg/Tesi/queue"
	"github.com/Ettorelg/Tesi/store"
)

func NewRouter(st *store.Store, seq *queue.Sequencer, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	queueHandler := handlers.NewQueueHandler(seq)
	authHandler := handlers.NewAuthHandler(st, cfg)
	userHandler := handlers.NewUserHandler(st)
	licenseHandler := handlers.NewLicenseHandler(st)

	gate := middleware.NewGate(st)
	limiter := middleware.NewRateLimiter(cfg.IssueRate, cfg.IssueBurst)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Sessions
	mux.HandleFunc("POST /login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("GET /login", middleware.WithLogging(gate.RequireLogin(authHandler.Me)))
	mux.HandleFunc("GET /logout", middleware.WithLogging(gate.RequireLogin(authHandler.Logout)))

	// Queue (public: kiosks, counters, display boards)
	mux.HandleFunc("POST /prendi_nuovo_numero", middleware.WithLogging(limiter.Limit(queueHandler.IssueNumber)))
	mux.HandleFunc("POST /chiama_prossimo", middleware.WithLogging(queueHandler.CallNext))
	mux.HandleFunc("POST /richiama_stesso", middleware.WithLogging(queueHandler.RecallCurrent))
	mux.HandleFunc("POST /chiama_precedente", middleware.WithLogging(queueHandler.CallPrevious))
	mux.HandleFunc("GET /ottieni_numero_attuale", middleware.WithLogging(queueHandler.CurrentNumber))
	mux.HandleFunc("POST /resetta_coda", middleware.WithLogging(queueHandler.Reset))

	// User administration
	mux.HandleFunc("GET /gestisci_utenti", middleware.WithLogging(gate.RequireAdmin(userHandler.ListUsers)))
	mux.HandleFunc("POST /gestisci_utenti", middleware.WithLogging(gate.RequireAdmin(userHandler.ManageUsers)))

	// License, department and line administration
	mux.HandleFunc("GET /gestisci_licenze/{userID}", middleware.WithLogging(gate.RequireAdmin(licenseHandler.GetOverview)))
	mux.HandleFunc("POST /gestisci_licenze/{userID}", middleware.WithLogging(gate.RequireAdmin(licenseHandler.ManageLicenses)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("eliminacode API v1"))
	})

	return mux
}

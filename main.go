// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Ettorelg/Tesi/announce"
	"github.com/Ettorelg/Tesi/cliparse"
	"github.com/Ettorelg/Tesi/db"
	"github.com/Ettorelg/Tesi/middleware"
	"github.com/Ettorelg/Tesi/queue"
	"github.com/Ettorelg/Tesi/router"
	"github.com/Ettorelg/Tesi/store"
)

const sessionPurgeInterval = time.Hour

func main() {
	// Optional .env next to the binary
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.PingContext(ctx); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	st := store.New(dbConn, cfg.SessionSecret)

	created, err := st.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	switch {
	case errors.Is(err, store.ErrValidation):
		slog.Warn("admin account missing and no admin password configured", "username", cfg.AdminUsername)
	case err != nil:
		slog.Error("failed to create admin account", "error", err)
		os.Exit(1)
	case created:
		slog.Info("admin account created", "username", cfg.AdminUsername)
	}

	// Announcements
	speaker, rdb := buildSpeaker(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}
	dispatcher := announce.NewDispatcher(speaker, cfg.AnnounceWorkers, cfg.AnnounceQueue)
	dispatcher.Start()

	seq := queue.New(dispatcher)

	// Create router
	mux := router.NewRouter(st, seq, cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopPurge := make(chan struct{})
	go purgeSessions(st, stopPurge)

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}

	close(stopPurge)
	dispatcher.Close()
	slog.Info("Announcements drained", "dropped", dispatcher.Dropped())
}

// buildSpeaker combines the configured announcement outputs. Redis and the
// TTS command are optional; failures to set them up are logged and skipped.
func buildSpeaker(ctx context.Context, cfg cliparse.Config) (announce.Speaker, *redis.Client) {
	speakers := announce.MultiSpeaker{announce.LogSpeaker{}}

	if cfg.TTSCommand != "" {
		cmd, err := announce.NewCommandSpeaker(cfg.TTSCommand)
		if err != nil {
			slog.Warn("TTS disabled", "error", err)
		} else {
			speakers = append(speakers, cmd)
			slog.Info("TTS enabled", "command", cfg.TTSCommand)
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		client, err := announce.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("redis announcements disabled", "error", err)
		} else {
			rdb = client
			speakers = append(speakers, announce.NewRedisSpeaker(rdb, cfg.RedisChannel))
			slog.Info("redis announcements enabled", "channel", cfg.RedisChannel)
		}
	}

	return speakers, rdb
}

func purgeSessions(st *store.Store, stop <-chan struct{}) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n, err := st.PurgeExpiredSessions(context.Background())
			if err != nil {
				slog.Error("failed to purge sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions purged", "count", n)
			}
		}
	}
}

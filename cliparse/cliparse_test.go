// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configEnv = []string{
	"PORT", "DATABASE_URL", "DATABASE_TYPE", "CONFIG_FILE", "SESSION_SECRET", "SESSION_TTL",
	"ADMIN_USERNAME", "ADMIN_PASSWORD", "REDIS_URL", "REDIS_CHANNEL", "TTS_COMMAND",
	"ANNOUNCE_WORKERS", "ANNOUNCE_QUEUE", "ISSUE_RATE", "ISSUE_BURST",
}

// clearEnv blanks every variable ParseFlags reads; empty counts as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected sqlite by default, got %q", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != "file:eliminacode.db" {
		t.Errorf("unexpected default database URL %q", cfg.DatabaseURL)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("expected 12h session TTL, got %v", cfg.SessionTTL)
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("expected admin username 'admin', got %q", cfg.AdminUsername)
	}
	if cfg.AnnounceWorkers != 2 || cfg.AnnounceQueue != 16 {
		t.Errorf("unexpected announce defaults: workers=%d queue=%d", cfg.AnnounceWorkers, cfg.AnnounceQueue)
	}
	if cfg.IssueRate != 0 || cfg.IssueBurst != 5 {
		t.Errorf("unexpected rate limit defaults: rate=%v burst=%d", cfg.IssueRate, cfg.IssueBurst)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("ISSUE_RATE", "0.5")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.SessionTTL)
	}
	if cfg.IssueRate != 0.5 {
		t.Errorf("expected issue rate 0.5, got %v", cfg.IssueRate)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "--session-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("expected database URL from flag, got %q", cfg.DatabaseURL)
	}
}

func TestParseFlags_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "eliminacode.yaml")
	content := `
port: 7000
database:
  type: postgres
  url: postgres://from-file
session:
  secret: file-secret
  ttl: 1h
redis:
  url: redis://localhost:6379/0
announce:
  command: espeak-ng -v it -s 120
  workers: 4
  queue_size: 32
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// Env beats the file
	t.Setenv("PORT", "7100")

	cfg, err := ParseFlags([]string{"--config", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 7100 {
		t.Errorf("env should override file: expected 7100, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://from-file" {
		t.Errorf("expected database URL from file, got %q", cfg.DatabaseURL)
	}
	if cfg.SessionSecret != "file-secret" {
		t.Errorf("expected secret from file, got %q", cfg.SessionSecret)
	}
	if cfg.TTSCommand != "espeak-ng -v it -s 120" {
		t.Errorf("unexpected TTS command %q", cfg.TTSCommand)
	}
	if cfg.AnnounceWorkers != 4 || cfg.AnnounceQueue != 32 {
		t.Errorf("unexpected announce settings: workers=%d queue=%d", cfg.AnnounceWorkers, cfg.AnnounceQueue)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing secret", map[string]string{}, nil},
		{"postgres without URL", map[string]string{"SESSION_SECRET": "s", "DATABASE_TYPE": "postgres"}, nil},
		{"unknown database type", map[string]string{"SESSION_SECRET": "s"}, []string{"-t", "mysql"}},
		{"invalid port env", map[string]string{"SESSION_SECRET": "s", "PORT": "abc"}, nil},
		{"invalid ttl", map[string]string{"SESSION_SECRET": "s", "SESSION_TTL": "forever"}, nil},
		{"zero workers", map[string]string{"SESSION_SECRET": "s"}, []string{"--announce-workers", "0"}},
		{"missing config file", map[string]string{"SESSION_SECRET": "s"}, []string{"-c", "/nonexistent/eliminacode.yaml"}},
		{"unknown flag", map[string]string{"SESSION_SECRET": "s"}, []string{"--bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestParseFlags_ConfigFileUnknownKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "s")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("prot: 1234\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseFlags([]string{"-c", path}); err == nil {
		t.Error("expected an error for a misspelled key")
	}
}

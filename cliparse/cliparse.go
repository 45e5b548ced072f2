package cliparse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	SessionSecret string
	SessionTTL    time.Duration

	// Bootstrap admin, created at startup when missing
	AdminUsername string
	AdminPassword string

	// Announcements
	RedisURL        string
	RedisChannel    string
	TTSCommand      string
	AnnounceWorkers int
	AnnounceQueue   int

	// Per-IP limit on ticket issuance; IssueRate 0 disables it
	IssueRate  float64
	IssueBurst int

	ConfigFile string
}

// fileConfig mirrors the optional YAML configuration file
type fileConfig struct {
	Port     int `yaml:"port"`
	Database struct {
		URL  string `yaml:"url"`
		Type string `yaml:"type"`
	} `yaml:"database"`
	Session struct {
		Secret string `yaml:"secret"`
		TTL    string `yaml:"ttl"`
	} `yaml:"session"`
	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
	Redis struct {
		URL     string `yaml:"url"`
		Channel string `yaml:"channel"`
	} `yaml:"redis"`
	Announce struct {
		Command   string `yaml:"command"`
		Workers   int    `yaml:"workers"`
		QueueSize int    `yaml:"queue_size"`
	} `yaml:"announce"`
	RateLimit struct {
		Rate  float64 `yaml:"rate"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// ParseFlags builds the configuration. Precedence is CLI flag, then
// environment variable, then config file, then default.
func ParseFlags(args []string) (Config, error) {
	var flags Config
	var sessionTTL string

	fs := pflag.NewFlagSet("eliminacode", pflag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVarP(&flags.Port, "port", "p", 0, "Server port")
	fs.StringVarP(&flags.DatabaseURL, "database-url", "d", "", "Database URL")
	fs.StringVarP(&flags.DatabaseType, "database-type", "t", "", "Database type (sqlite or postgres)")
	fs.StringVarP(&flags.ConfigFile, "config", "c", "", "YAML config file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&flags.SessionSecret, "session-secret", "", "Session token HMAC secret (prefer env)")
	fs.StringVar(&sessionTTL, "session-ttl", "", "Session lifetime, e.g. 12h")
	fs.StringVar(&flags.AdminUsername, "admin-user", "", "Bootstrap admin username")
	fs.StringVar(&flags.AdminPassword, "admin-password", "", "Bootstrap admin password (prefer env)")

	// Announcements
	fs.StringVar(&flags.RedisURL, "redis-url", "", "Redis URL for call announcements")
	fs.StringVar(&flags.RedisChannel, "redis-channel", "", "Redis pub/sub channel")
	fs.StringVar(&flags.TTSCommand, "tts-command", "", "Text-to-speech command, e.g. \"espeak-ng -v it -s 120\"")
	fs.IntVar(&flags.AnnounceWorkers, "announce-workers", 0, "Announcement worker count")
	fs.IntVar(&flags.AnnounceQueue, "announce-queue", 0, "Pending announcement capacity")

	fs.Float64Var(&flags.IssueRate, "issue-rate", 0, "Tickets per second per client IP (0 = unlimited)")
	fs.IntVar(&flags.IssueBurst, "issue-burst", 0, "Ticket burst per client IP")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Config file location
	cfg := Config{ConfigFile: pickString(fs.Changed("config"), flags.ConfigFile, "CONFIG_FILE", "", "")}
	var file fileConfig
	if cfg.ConfigFile != "" {
		var err error
		file, err = readConfigFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, err
		}
	}

	var err error
	if cfg.Port, err = pickInt(fs.Changed("port"), flags.Port, "PORT", file.Port, 5000); err != nil {
		return Config{}, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	cfg.DatabaseType = pickString(fs.Changed("database-type"), flags.DatabaseType, "DATABASE_TYPE", file.Database.Type, DatabaseSQLite)
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	defaultURL := ""
	if cfg.DatabaseType == DatabaseSQLite {
		defaultURL = "file:eliminacode.db"
	}
	cfg.DatabaseURL = pickString(fs.Changed("database-url"), flags.DatabaseURL, "DATABASE_URL", file.Database.URL, defaultURL)
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	cfg.SessionSecret = pickString(fs.Changed("session-secret"), flags.SessionSecret, "SESSION_SECRET", file.Session.Secret, "")
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	ttl := pickString(fs.Changed("session-ttl"), sessionTTL, "SESSION_TTL", file.Session.TTL, "12h")
	if cfg.SessionTTL, err = time.ParseDuration(ttl); err != nil || cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("invalid session TTL %q", ttl)
	}

	cfg.AdminUsername = pickString(fs.Changed("admin-user"), flags.AdminUsername, "ADMIN_USERNAME", file.Admin.Username, "admin")
	cfg.AdminPassword = pickString(fs.Changed("admin-password"), flags.AdminPassword, "ADMIN_PASSWORD", file.Admin.Password, "")

	cfg.RedisURL = pickString(fs.Changed("redis-url"), flags.RedisURL, "REDIS_URL", file.Redis.URL, "")
	cfg.RedisChannel = pickString(fs.Changed("redis-channel"), flags.RedisChannel, "REDIS_CHANNEL", file.Redis.Channel, "eliminacode:chiamate")
	cfg.TTSCommand = pickString(fs.Changed("tts-command"), flags.TTSCommand, "TTS_COMMAND", file.Announce.Command, "")

	if cfg.AnnounceWorkers, err = pickInt(fs.Changed("announce-workers"), flags.AnnounceWorkers, "ANNOUNCE_WORKERS", file.Announce.Workers, 2); err != nil {
		return Config{}, err
	}
	if cfg.AnnounceQueue, err = pickInt(fs.Changed("announce-queue"), flags.AnnounceQueue, "ANNOUNCE_QUEUE", file.Announce.QueueSize, 16); err != nil {
		return Config{}, err
	}
	if cfg.AnnounceWorkers < 1 || cfg.AnnounceQueue < 1 {
		return Config{}, errors.New("announce workers and queue size must be at least 1")
	}

	if cfg.IssueRate, err = pickFloat(fs.Changed("issue-rate"), flags.IssueRate, "ISSUE_RATE", file.RateLimit.Rate, 0); err != nil {
		return Config{}, err
	}
	if cfg.IssueBurst, err = pickInt(fs.Changed("issue-burst"), flags.IssueBurst, "ISSUE_BURST", file.RateLimit.Burst, 5); err != nil {
		return Config{}, err
	}
	if cfg.IssueRate < 0 || cfg.IssueBurst < 1 {
		return Config{}, errors.New("issue rate must be >= 0 and burst >= 1")
	}

	return cfg, nil
}

func readConfigFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && err != io.EOF {
		return fc, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return fc, nil
}

func pickString(changed bool, flagVal, envKey, fileVal, def string) string {
	if changed {
		return flagVal
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if fileVal != "" {
		return fileVal
	}
	return def
}

func pickInt(changed bool, flagVal int, envKey string, fileVal, def int) (int, error) {
	if changed {
		return flagVal, nil
	}
	if v := os.Getenv(envKey); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s env variable", envKey)
		}
		return n, nil
	}
	if fileVal != 0 {
		return fileVal, nil
	}
	return def, nil
}

func pickFloat(changed bool, flagVal float64, envKey string, fileVal, def float64) (float64, error) {
	if changed {
		return flagVal, nil
	}
	if v := os.Getenv(envKey); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s env variable", envKey)
		}
		return f, nil
	}
	if fileVal != 0 {
		return fileVal, nil
	}
	return def, nil
}

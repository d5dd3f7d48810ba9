package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/db"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultPort is the HTTP port used when TIMESPLIT_PORT is unset.
const DefaultPort = 3318

// Config holds process-wide settings read from the environment.
type Config struct {
	DBType      string `env:"TIMESPLIT_DB_TYPE"       envDefault:"sqlite"`
	DBPath      string `env:"TIMESPLIT_DB"`
	CatalogPath string `env:"TIMESPLIT_CATALOG"`
	Strategy    string `env:"TIMESPLIT_STRATEGY"      envDefault:"proportional"`
	Port        int    `env:"TIMESPLIT_PORT"          envDefault:"3318"`
	LogLevel    string `env:"TIMESPLIT_LOG_LEVEL"     envDefault:"info"`
	LogUseCases bool   `env:"TIMESPLIT_LOG_USE_CASES"`
	CORSOrigin  string `env:"TIMESPLIT_CORS_ORIGIN"   envDefault:"*"`
}

// DotenvFiles are loaded, in order, before the environment is parsed.
// Variables already set in the process win over both files.
var DotenvFiles = []string{".env.local", ".env"}

// Load reads the dotenv files that exist and parses the environment.
func Load() (Config, error) {
	if err := loadDotenv(DotenvFiles...); err != nil {
		return Config{}, err
	}
	return Parse()
}

// Parse reads Config from the process environment and validates it.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := db.ParseDialect(c.DBType); err != nil {
		return fmt.Errorf("TIMESPLIT_DB_TYPE: %w", err)
	}
	if _, err := allocation.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("TIMESPLIT_STRATEGY: %w", err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("TIMESPLIT_LOG_LEVEL: %w", err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("TIMESPLIT_PORT: %d is not a valid port", c.Port)
	}
	return nil
}

// Dialect returns the parsed database dialect.
func (c Config) Dialect() db.Dialect {
	d, err := db.ParseDialect(c.DBType)
	if err != nil {
		return db.SQLite
	}
	return d
}

// DefaultDBPath returns ~/.timesplit/timesplit.db, or a relative path when
// the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".timesplit", "timesplit.db")
	}
	return filepath.Join(home, ".timesplit", "timesplit.db")
}

func loadDotenv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// NewLogger builds a text logger writing to w at the named level. Unknown
// levels fall back to info.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl, _ := ParseLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/abhisek/stepwise/internal/llm"
)

// Server configures the tutoring service.
type Server struct {
	Addr            string        `env:"ADDR" envDefault:":8000"`
	DBPath          string        `env:"DB"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	PruneInterval   time.Duration `env:"PRUNE_INTERVAL" envDefault:"10m"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	OfflineFallback bool          `env:"OFFLINE_FALLBACK" envDefault:"true"`
	HistoryLimit    int           `env:"HISTORY_LIMIT" envDefault:"20"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LLM llm.Config `env:"-"`
}

// LoadServer reads .env files (missing files are ignored) and then parses
// STEPWISE_* variables. With no files given, ./.env is tried.
func LoadServer(envFiles ...string) (Server, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Server{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Server
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Server{}, fmt.Errorf("parse server env: %w", err)
	}

	llmCfg, err := llm.ConfigFromEnv()
	if err != nil {
		return Server{}, err
	}
	cfg.LLM = llmCfg

	if err := cfg.Validate(); err != nil {
		return Server{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Server) Validate() error {
	if c.Addr == "" {
		return errors.New("STEPWISE_ADDR cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("STEPWISE_SESSION_TTL must be > 0")
	}
	if c.PruneInterval <= 0 {
		return errors.New("STEPWISE_PRUNE_INTERVAL must be > 0")
	}
	if c.HistoryLimit < 0 {
		return errors.New("STEPWISE_HISTORY_LIMIT must be >= 0")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("STEPWISE_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return c.LLM.Validate()
}

// SlogLevel parses LogLevel.
func (c *Server) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("STEPWISE_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

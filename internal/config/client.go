// Package config loads client and service configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/stepwise/internal/api"
	"github.com/abhisek/stepwise/internal/tutor"
)

// EnvPrefix is prepended to every environment variable read here.
const EnvPrefix = "STEPWISE_"

// Client is the TUI and one-shot command profile.
type Client struct {
	ServerURL      string        `yaml:"server_url" env:"SERVER_URL"`
	Subject        string        `yaml:"subject" env:"SUBJECT"`
	Topic          string        `yaml:"topic" env:"TOPIC"`
	Level          string        `yaml:"level" env:"LEVEL"`
	Misconceptions []string      `yaml:"misconceptions,omitempty" env:"MISCONCEPTIONS" envSeparator:";"`
	Timeout        time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// DefaultClient returns the built-in client profile.
func DefaultClient() Client {
	return Client{
		ServerURL: "http://127.0.0.1:8000",
		Subject:   string(api.SubjectJava),
		Topic:     "Classes and Objects",
		Level:     string(api.LevelBeginner),
		Timeout:   60 * time.Second,
	}
}

// DefaultClientPath resolves the client profile path:
// $XDG_CONFIG_HOME/stepwise/config.yaml, else ~/.config/stepwise/config.yaml.
func DefaultClientPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "stepwise", "config.yaml"), nil
}

// LoadClient builds the client profile from defaults, the YAML file at path
// and STEPWISE_* environment variables, in increasing priority. An empty
// path uses DefaultClientPath and tolerates a missing file; an explicit
// path must exist.
func LoadClient(path string) (Client, error) {
	cfg := DefaultClient()

	explicit := path != ""
	if !explicit {
		p, err := DefaultClientPath()
		if err != nil {
			return Client{}, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Client{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Client{}, fmt.Errorf("read client config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Client{}, fmt.Errorf("parse client env: %w", err)
	}

	return cfg, nil
}

// Validate checks the profile and canonicalizes subject and level names.
func (c *Client) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server_url %q must be an http(s) URL", c.ServerURL)
	}

	sub, err := api.ParseSubject(c.Subject)
	if err != nil {
		return fmt.Errorf("subject: %w", err)
	}
	lvl, err := api.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("level: %w", err)
	}
	c.Subject, c.Level = string(sub), string(lvl)

	c.Topic = strings.TrimSpace(c.Topic)
	if c.Topic == "" {
		return errors.New("topic must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// TutorConfig converts the profile into a session controller config.
// Call Validate first.
func (c Client) TutorConfig() tutor.Config {
	return tutor.Config{
		Subject:        api.Subject(c.Subject),
		Topic:          c.Topic,
		Level:          api.Level(c.Level),
		Misconceptions: c.Misconceptions,
	}
}

// Save writes the profile as YAML, creating parent directories.
func (c Client) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode client config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

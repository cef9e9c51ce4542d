package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/stepwise/internal/api"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STEPWISE_SERVER_URL", "STEPWISE_SUBJECT", "STEPWISE_TOPIC", "STEPWISE_LEVEL",
		"STEPWISE_MISCONCEPTIONS", "STEPWISE_TIMEOUT",
		"STEPWISE_ADDR", "STEPWISE_DB", "STEPWISE_SESSION_TTL", "STEPWISE_CORS_ORIGINS",
		"STEPWISE_OFFLINE_FALLBACK", "STEPWISE_HISTORY_LIMIT", "STEPWISE_LOG_FORMAT",
		"STEPWISE_LOG_LEVEL", "STEPWISE_LLM_PROVIDER",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadClient_DefaultsWhenMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadClient("")
	require.NoError(t, err)
	assert.Equal(t, DefaultClient(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadClient_ExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)

	_, err := LoadClient(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadClient_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_url: http://tutor.local:9000
subject: data structures
topic: Linked Lists
level: intermediate
timeout: 15s
misconceptions:
  - arrays and lists are the same
`), 0o644))

	t.Setenv("STEPWISE_TOPIC", "Stacks")

	cfg, err := LoadClient(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://tutor.local:9000", cfg.ServerURL)
	assert.Equal(t, string(api.SubjectDataStructures), cfg.Subject)
	assert.Equal(t, "Stacks", cfg.Topic)
	assert.Equal(t, "intermediate", cfg.Level)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"arrays and lists are the same"}, cfg.Misconceptions)

	tc := cfg.TutorConfig()
	assert.Equal(t, api.SubjectDataStructures, tc.Subject)
	assert.Equal(t, api.LevelIntermediate, tc.Level)
	assert.NoError(t, tc.Validate())
}

func TestLoadClient_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [unterminated"), 0o644))

	_, err := LoadClient(path)
	assert.Error(t, err)
}

func TestClientValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Client)
	}{
		{"bad url", func(c *Client) { c.ServerURL = "tutor.local" }},
		{"bad subject", func(c *Client) { c.Subject = "Painting" }},
		{"bad level", func(c *Client) { c.Level = "expert" }},
		{"blank topic", func(c *Client) { c.Topic = "  " }},
		{"negative timeout", func(c *Client) { c.Timeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultClient()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestClientSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := DefaultClient()
	want.Topic = "Inheritance"
	require.NoError(t, want.Save(path))

	got, err := LoadClient(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadServer_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.OfflineFallback)
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.False(t, cfg.LLM.Configured())
}

func TestLoadServer_EnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"STEPWISE_ADDR=:9090\nSTEPWISE_CORS_ORIGINS=http://a.test,http://b.test\nSTEPWISE_LLM_PROVIDER=mock\nSTEPWISE_LOG_FORMAT=json\n",
	), 0o644))

	cfg, err := LoadServer(envFile)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadServer_Invalid(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("STEPWISE_LOG_FORMAT", "xml")

	_, err := LoadServer()
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"websocket_url": "game.example",
		"websocket_port": 4000,
		"token": "file-token",
		"bot_name": "file-bot",
		"tick_margin_ms": 50
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "game.example", cfg.WebsocketURL)
	assert.Equal(t, 4000, cfg.WebsocketPort)
	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, "file-bot", cfg.BotName)
	assert.Equal(t, 50*time.Millisecond, cfg.TickMargin())
	// untouched keys keep their defaults
	assert.Equal(t, Default().WorkerPoolSize, cfg.WorkerPoolSize)
	assert.False(t, cfg.VerboseExceptions)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"token": "file-token", "wrapper_verbose_exceptions": false}`)
	t.Setenv("TOKEN", "env-token")
	t.Setenv("WRAPPER_VERBOSE_EXCEPTIONS", "true")
	t.Setenv("WORKER_POOL_SIZE", "8")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Token)
	assert.True(t, cfg.VerboseExceptions)
	assert.Equal(t, 8, cfg.WorkerPoolSize)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TOKEN", "t")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default().WebsocketURL, cfg.WebsocketURL)
	assert.Equal(t, "t", cfg.Token)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, `{"token": `)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("TOKEN", "t")
	t.Setenv("WEBSOCKET_PORT", "not-a-port")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Token = "" }, wantErr: true},
		{name: "missing url", mutate: func(c *Config) { c.WebsocketURL = " " }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.WebsocketPort = 0 }, wantErr: true},
		{name: "negative margin", mutate: func(c *Config) { c.TickMarginMS = -1 }, wantErr: true},
		{name: "empty pool", mutate: func(c *Config) { c.WorkerPoolSize = 0 }, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Token = "token"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestURL(t *testing.T) {
	cfg := Default()
	cfg.WebsocketURL = "localhost"
	cfg.WebsocketPort = 3000
	assert.Equal(t, "ws://localhost:3000", cfg.URL())

	cfg.WebsocketURL = "wss://game.example"
	cfg.WebsocketPort = 443
	cfg.WebsocketPath = "/bots"
	assert.Equal(t, "wss://game.example:443/bots", cfg.URL())
}

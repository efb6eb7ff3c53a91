// Package config resolves the bot's settings once at process start.
//
// Precedence, lowest first: built-in defaults, the JSON config file, a .env
// file, and finally the real process environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const DefaultPath = "config.json"

type Config struct {
	WebsocketURL      string `json:"websocket_url" env:"WEBSOCKET_URL"`
	WebsocketPort     int    `json:"websocket_port" env:"WEBSOCKET_PORT"`
	WebsocketPath     string `json:"websocket_path" env:"WEBSOCKET_PATH"`
	Token             string `json:"token" env:"TOKEN"`
	BotName           string `json:"bot_name" env:"BOT_NAME"`
	TickMarginMS      int    `json:"tick_margin_ms" env:"TICK_MARGIN_MS"`
	VerboseExceptions bool   `json:"wrapper_verbose_exceptions" env:"WRAPPER_VERBOSE_EXCEPTIONS"`
	WorkerPoolSize    int    `json:"worker_pool_size" env:"WORKER_POOL_SIZE"`
	StatusAddr        string `json:"status_addr" env:"STATUS_ADDR"`
	LogLevel          string `json:"log_level" env:"LOG_LEVEL"`
	LogFormat         string `json:"log_format" env:"LOG_FORMAT"`
	MaxTurnRadius     int    `json:"max_turn_radius" env:"MAX_TURN_RADIUS"`
}

func Default() Config {
	return Config{
		WebsocketURL:   "localhost",
		WebsocketPort:  3000,
		BotName:        "shipbot",
		TickMarginMS:   20,
		WorkerPoolSize: 4,
		StatusAddr:     "127.0.0.1:8080",
		LogLevel:       "info",
		LogFormat:      "json",
		MaxTurnRadius:  2,
	}
}

// Load resolves the configuration. A missing config file or .env file is
// not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.WebsocketURL) == "" {
		problems = append(problems, "websocket url is required")
	}
	if c.WebsocketPort <= 0 || c.WebsocketPort > 65535 {
		problems = append(problems, fmt.Sprintf("websocket port %d out of range", c.WebsocketPort))
	}
	if strings.TrimSpace(c.Token) == "" {
		problems = append(problems, "token is required")
	}
	if c.TickMarginMS < 0 {
		problems = append(problems, "tick margin must not be negative")
	}
	if c.WorkerPoolSize < 1 {
		problems = append(problems, "worker pool size must be at least 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) TickMargin() time.Duration {
	return time.Duration(c.TickMarginMS) * time.Millisecond
}

// URL builds the websocket endpoint. WebsocketURL may be a bare host or
// carry its own ws:// or wss:// scheme.
func (c Config) URL() string {
	host := c.WebsocketURL
	scheme := "ws"
	if u, err := url.Parse(host); err == nil && (u.Scheme == "ws" || u.Scheme == "wss") {
		scheme = u.Scheme
		host = u.Host
	}
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(c.WebsocketPort)),
		Path:   c.WebsocketPath,
	}
	return u.String()
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend struct {
		BaseURL        string `yaml:"base_url"`
		WebsocketURL   string `yaml:"websocket_url"` // derived from base_url when empty
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		RatePerSecond  int    `yaml:"rate_per_second"` // 0 disables client-side limiting
	} `yaml:"backend"`

	Session struct {
		Path string `yaml:"path"`
	} `yaml:"session"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Notifications struct {
		ReconnectSeconds int `yaml:"reconnect_seconds"`
	} `yaml:"notifications"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

// Load reads a YAML config from path, expanding ${ENV_VAR} placeholders.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://127.0.0.1:8000"
	}
	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")
	if cfg.Backend.WebsocketURL == "" {
		cfg.Backend.WebsocketURL = deriveWebsocketURL(cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 10
	}
	if cfg.Notifications.ReconnectSeconds <= 0 {
		cfg.Notifications.ReconnectSeconds = 5
	}

	if cfg.Session.Path == "" {
		cfg.Session.Path = "data/session.db"
	}
	if err = os.MkdirAll(filepath.Dir(cfg.Session.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.Notifications.ReconnectSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

// deriveWebsocketURL maps the http(s) base URL onto its ws(s) counterpart.
func deriveWebsocketURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return "ws://" + base
	}
}

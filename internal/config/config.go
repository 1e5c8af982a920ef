package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".robotctl"
	envPrefix  = "ROBOTCTL"

	KeyServerURL      = "server.url"
	KeyAPIPath        = "server.api_path"
	KeyWSPath         = "server.ws_path"
	KeyRequestTimeout = "server.request_timeout"
	KeyCacheDriver    = "cache.driver"
	KeyCachePath      = "cache.path"
	KeyHealthInterval = "health.interval"
	KeyClockTick      = "health.clock_tick"
	KeyRetrySettle    = "health.retry_settle"
	KeyLogLevel       = "log.level"

	DriverTOML   = "toml"
	DriverSQLite = "sqlite"
)

type Config struct {
	ServerURL      string
	APIPath        string
	WSPath         string
	RequestTimeout time.Duration
	CacheDriver    string
	CachePath      string
	HealthInterval time.Duration
	ClockTick      time.Duration
	RetrySettle    time.Duration
	LogLevel       slog.Level

	v *viper.Viper
}

// Load reads ~/.robotctl/config.toml when present, then ROBOTCTL_* variables
// on top of the built-in defaults.
func Load(cfg *viper.Viper) (*Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(homeDir, configDir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyServerURL, "http://192.168.0.229:8080")
	cfg.SetDefault(KeyAPIPath, "/api")
	cfg.SetDefault(KeyWSPath, "/ws")
	cfg.SetDefault(KeyRequestTimeout, "10s")
	cfg.SetDefault(KeyCacheDriver, DriverTOML)
	cfg.SetDefault(KeyCachePath, "")
	cfg.SetDefault(KeyHealthInterval, "1500ms")
	cfg.SetDefault(KeyClockTick, "250ms")
	cfg.SetDefault(KeyRetrySettle, "300ms")
	cfg.SetDefault(KeyLogLevel, "info")

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	loaded := &Config{
		ServerURL:      strings.TrimSpace(cfg.GetString(KeyServerURL)),
		APIPath:        cfg.GetString(KeyAPIPath),
		WSPath:         cfg.GetString(KeyWSPath),
		RequestTimeout: cfg.GetDuration(KeyRequestTimeout),
		CacheDriver:    strings.ToLower(strings.TrimSpace(cfg.GetString(KeyCacheDriver))),
		CachePath:      strings.TrimSpace(cfg.GetString(KeyCachePath)),
		HealthInterval: cfg.GetDuration(KeyHealthInterval),
		ClockTick:      cfg.GetDuration(KeyClockTick),
		RetrySettle:    cfg.GetDuration(KeyRetrySettle),
		v:              cfg,
	}

	if loaded.ServerURL == "" {
		return nil, errors.New("server url is empty")
	}

	switch loaded.CacheDriver {
	case DriverTOML:
		if loaded.CachePath == "" {
			loaded.CachePath = filepath.Join(dir, "routes.toml")
		}
	case DriverSQLite:
		if loaded.CachePath == "" {
			loaded.CachePath = filepath.Join(dir, "routes.db")
		}
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", loaded.CacheDriver)
	}
	cfg.Set(KeyCachePath, loaded.CachePath)

	for key, value := range map[string]time.Duration{
		KeyRequestTimeout: loaded.RequestTimeout,
		KeyHealthInterval: loaded.HealthInterval,
		KeyClockTick:      loaded.ClockTick,
	} {
		if value <= 0 {
			return nil, fmt.Errorf("%s must be a positive duration", key)
		}
	}
	if loaded.RetrySettle < 0 {
		return nil, fmt.Errorf("%s must not be negative", KeyRetrySettle)
	}

	level, err := ParseLevel(cfg.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}
	loaded.LogLevel = level

	return loaded, nil
}

// Viper exposes the resolved settings to adapters that read their own keys.
func (c *Config) Viper() *viper.Viper {
	return c.v
}

// APIBaseURL is the root of the REST API, e.g. http://host:8080/api.
func (c *Config) APIBaseURL() string {
	path := strings.Trim(c.APIPath, "/")
	base := strings.TrimRight(c.ServerURL, "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}

func ParseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", raw, err)
	}
	return level, nil
}

func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

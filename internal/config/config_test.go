package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://192.168.0.229:8080", cfg.ServerURL)
	assert.Equal(t, "http://192.168.0.229:8080/api", cfg.APIBaseURL())
	assert.Equal(t, "/ws", cfg.WSPath)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, DriverTOML, cfg.CacheDriver)
	assert.Equal(t, filepath.Join(home, ".robotctl", "routes.toml"), cfg.CachePath)
	assert.Equal(t, cfg.CachePath, cfg.Viper().GetString(KeyCachePath))
	assert.Equal(t, 1500*time.Millisecond, cfg.HealthInterval)
	assert.Equal(t, 250*time.Millisecond, cfg.ClockTick)
	assert.Equal(t, 300*time.Millisecond, cfg.RetrySettle)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".robotctl")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[server]
url = "http://robot.local:9000/"
api_path = "backend"

[cache]
driver = "sqlite"

[health]
interval = "2s"

[log]
level = "debug"
`), 0o600))

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://robot.local:9000/backend", cfg.APIBaseURL())
	assert.Equal(t, DriverSQLite, cfg.CacheDriver)
	assert.Equal(t, filepath.Join(dir, "routes.db"), cfg.CachePath)
	assert.Equal(t, 2*time.Second, cfg.HealthInterval)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ROBOTCTL_SERVER_URL", "http://127.0.0.1:8081")
	t.Setenv("ROBOTCTL_CACHE_PATH", filepath.Join(home, "custom.toml"))
	t.Setenv("ROBOTCTL_LOG_LEVEL", "warn")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8081", cfg.ServerURL)
	assert.Equal(t, filepath.Join(home, "custom.toml"), cfg.CachePath)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "driver", env: map[string]string{"ROBOTCTL_CACHE_DRIVER": "redis"}, want: "unsupported cache driver"},
		{name: "level", env: map[string]string{"ROBOTCTL_LOG_LEVEL": "loud"}, want: "parse log level"},
		{name: "interval", env: map[string]string{"ROBOTCTL_HEALTH_INTERVAL": "0s"}, want: "health.interval"},
		{name: "server url", env: map[string]string{"ROBOTCTL_SERVER_URL": " "}, want: "server url is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLoggerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", "component", "test")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "component=test")
}

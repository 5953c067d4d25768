package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "backend:\n  base_url: https://duty.example.gov.np\n")
	t.Chdir(t.TempDir())

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://duty.example.gov.np", cfg.Backend.BaseURL)
	assert.Equal(t, "wss://duty.example.gov.np", cfg.Backend.WebsocketURL)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout())
	assert.Equal(t, 5*time.Second, cfg.ReconnectDelay())
	assert.Equal(t, "data/session.db", cfg.Session.Path)
}

func TestLoadStripsTrailingSlashAndDerivesWS(t *testing.T) {
	path := writeConfig(t, "backend:\n  base_url: http://127.0.0.1:8000/\n")
	t.Chdir(t.TempDir())

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "ws://127.0.0.1:8000", cfg.Backend.WebsocketURL)
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_REDIS_PASSWORD", "s3cret")
	path := writeConfig(t, "redis:\n  address: localhost:6379\n  password: ${TEST_REDIS_PASSWORD}\n")
	t.Chdir(t.TempDir())

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Redis.Password)
}

func TestLoadExplicitWebsocketURLWins(t *testing.T) {
	path := writeConfig(t, "backend:\n  base_url: https://a.example\n  websocket_url: wss://push.example\n")
	t.Chdir(t.TempDir())

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://push.example", cfg.Backend.WebsocketURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

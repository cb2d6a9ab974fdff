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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8050", cfg.HTTP.Addr)
	assert.Equal(t, time.Second, cfg.Feed.Interval)
	assert.Equal(t, 64, cfg.Feed.MaxAttempts)
	assert.Equal(t, []string{"facebook", "instagram"}, cfg.Feed.Dashboards)
	assert.Equal(t, 500*time.Millisecond, cfg.Hub.SendTimeout)
	assert.Equal(t, 120, cfg.History.Size)
	assert.True(t, cfg.GRPC.Enabled)
	assert.Empty(t, cfg.FileUsed())
}

func TestLoadConfig_FileEnvAndFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
http:
  addr: ":9000"
feed:
  interval: 2s
  dashboards: [instagram]
history:
  size: 10
`)
	t.Setenv("SOCIAL_DASHBOARD_FEED_SEED", "42")
	t.Setenv("SOCIAL_DASHBOARD_HTTP_ADDR", ":9100")

	cfg, err := LoadConfig(path, []string{"--log.level=debug"})
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.HTTP.Addr, "env overrides file")
	assert.Equal(t, 2*time.Second, cfg.Feed.Interval)
	assert.Equal(t, []string{"instagram"}, cfg.Feed.Dashboards)
	assert.Equal(t, int64(42), cfg.Feed.Seed)
	assert.Equal(t, 10, cfg.History.Size)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, path, cfg.FileUsed())
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SOCIAL_DASHBOARD_GRPC_ADDR=:7000\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SOCIAL_DASHBOARD_GRPC_ADDR") })

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.GRPC.Addr)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		body string
	}{
		{"sub-second interval", "feed:\n  interval: 500ms\n"},
		{"unknown dashboard", "feed:\n  dashboards: [myspace]\n"},
		{"duplicate dashboard", "feed:\n  dashboards: [facebook, facebook]\n"},
		{"empty history", "history:\n  size: 0\n"},
		{"bad log format", "log:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body), nil)
			assert.Error(t, err)
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"ROSTER_API_URL", "ROSTER_WEB_URL", "ROSTER_ENV", "ROSTER_LOG_FILE", "ROSTER_TIMEOUT"} {
		t.Setenv(k, "")
	}
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := load(filepath.Join(home, "missing.env"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.Production())
	assert.Equal(t, filepath.Join(home, ".roster", "roster.log"), cfg.LogFile)
	assert.Equal(t, filepath.Join(home, ".roster", "token"), cfg.TokenPath)
}

func TestLoadEnv(t *testing.T) {
	home := isolate(t)
	t.Setenv("ROSTER_API_URL", "https://api.example.com")
	t.Setenv("ROSTER_TIMEOUT", "5s")
	t.Setenv("ROSTER_ENV", "production")

	cfg, err := load(filepath.Join(home, "missing.env"), "")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Production())
}

func TestLoadBadTimeout(t *testing.T) {
	home := isolate(t)
	t.Setenv("ROSTER_TIMEOUT", "soon")

	_, err := load(filepath.Join(home, "missing.env"), "")
	assert.Error(t, err)
}

func TestLoadYAMLOverrides(t *testing.T) {
	home := isolate(t)
	t.Setenv("ROSTER_API_URL", "https://from-env")

	path := filepath.Join(home, "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: https://from-file\ntimeout: 10s\n"), 0o600))

	cfg, err := load(filepath.Join(home, "missing.env"), path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-file", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadDefaultFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".roster")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("web_url: https://app.example.com\n"), 0o600))

	cfg, err := load(filepath.Join(home, "missing.env"), "")
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com", cfg.WebURL)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	home := isolate(t)
	_, err := load(filepath.Join(home, "missing.env"), filepath.Join(home, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	home := isolate(t)
	os.Unsetenv("ROSTER_API_URL") //nolint:errcheck
	env := filepath.Join(home, ".env")
	require.NoError(t, os.WriteFile(env, []byte("ROSTER_API_URL=https://from-dotenv\n"), 0o600))

	cfg, err := load(env, "")
	require.NoError(t, err)
	assert.Equal(t, "https://from-dotenv", cfg.APIURL)
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test, like t.Chdir in
// newer Go versions.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fuelwatch.db", cfg.Store.Path)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout())
	assert.Equal(t, 2, cfg.Fetch.MaxRetries)
	assert.Equal(t, 0.5, cfg.Fetch.HostRatePerSec)
	assert.Equal(t, 1, cfg.Fetch.HostBurst)
	assert.Equal(t, 2, cfg.Scrape.MaxConcurrent)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FUELWATCH_STORE_PATH", "/tmp/other.db")
	t.Setenv("FUELWATCH_SCRAPE_MAX_CONCURRENT", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.Store.Path)
	assert.Equal(t, 4, cfg.Scrape.MaxConcurrent)
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "shout", Format: "json"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}

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
	path := filepath.Join(t.TempDir(), "earth.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultCountriesURL, cfg.Countries.BaseURL)
	assert.Equal(t, "wrap", cfg.Carousel.CountriesPolicy)
	assert.Equal(t, "clamp", cfg.Carousel.RegionPolicy)
	assert.Len(t, cfg.Carousel.Breakpoints, 4)
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides selected values", func(t *testing.T) {
		path := writeConfig(t, `
log_level = "debug"

[server]
port = "9090"

[countries]
cache_ttl = "30s"
prefetch = true
refresh_interval = "1h"

[carousel]
countries_policy = "clamp"

[[carousel.breakpoints]]
min_width = 0
items = 2

[[carousel.breakpoints]]
min_width = 900
items = 6
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, DefaultRateLimit, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Countries.CacheTTL)
		assert.True(t, cfg.Countries.Prefetch)
		assert.Equal(t, time.Hour, cfg.Countries.RefreshInterval)
		assert.Equal(t, "clamp", cfg.Carousel.CountriesPolicy)
		assert.Equal(t, []Breakpoint{{0, 2}, {900, 6}}, cfg.Carousel.Breakpoints)
		assert.Equal(t, DefaultUsername, cfg.Auth.Username)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		path := writeConfig(t, `
[server]
prot = "9090"
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.prot")
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := writeConfig(t, `
[server]
rate_limit = 0
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate_limit")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Carousel.Breakpoints = []Breakpoint{{MinWidth: -1, Items: 0}}
	cfg.Auth.SigningKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items must be positive")
	assert.Contains(t, err.Error(), "min_width must not be negative")
	assert.Contains(t, err.Error(), "signing_key")
}

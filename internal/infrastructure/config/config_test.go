package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Arrange
	path := writeConfig(t, "server:\n  address: \":9090\"\n")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 600*time.Second, cfg.Cache.CatalogTTL)
	assert.Equal(t, 6*time.Hour, cfg.Cache.SoilTTL)
	assert.Equal(t, 20, cfg.Aggregation.MaxGeographies)
	assert.Equal(t, 50, cfg.Aggregation.MaxMarkets)
	assert.Equal(t, 7, cfg.Aggregation.WindowDays)
	assert.Equal(t, "metric", cfg.Weather.Units)
	assert.NotEmpty(t, cfg.Geocoding.UserAgent)
}

func TestLoadConfig_MissingAPIKeysAreNotFatal(t *testing.T) {
	t.Setenv("AGMARKNET_API_KEY", "")
	t.Setenv("OPENWEATHER_API_KEY", "")

	cfg, err := config.LoadConfig(writeConfig(t, "{}\n"))

	require.NoError(t, err)
	assert.Empty(t, cfg.Agmarknet.APIKey)
	assert.Empty(t, cfg.Weather.APIKey)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AGMARKNET_API_KEY", "catalog-key")
	t.Setenv("OPENWEATHER_API_KEY", "weather-key")
	t.Setenv("AGRO_AGGREGATION_MAX_MARKETS", "30")
	t.Setenv("AGRO_CACHE_SOIL_VERSION", "4")

	cfg, err := config.LoadConfig(writeConfig(t, "aggregation:\n  max_markets: 40\n"))

	require.NoError(t, err)
	assert.Equal(t, "catalog-key", cfg.Agmarknet.APIKey)
	assert.Equal(t, "weather-key", cfg.Weather.APIKey)
	assert.Equal(t, 30, cfg.Aggregation.MaxMarkets)
	assert.Equal(t, 4, cfg.Cache.SoilVersion)
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "logging:\n  level: loud\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestUserConfigHandler_RoundTrip(t *testing.T) {
	h := config.NewUserConfigHandlerAt(t.TempDir())

	empty, err := h.Load()
	require.NoError(t, err)
	assert.Empty(t, empty.DefaultState)

	require.NoError(t, h.SetDefaultGeography("Maharashtra", "Pune"))
	require.NoError(t, h.SetDefaultLocale("mr"))

	loaded, err := h.Load()
	require.NoError(t, err)
	assert.Equal(t, "Maharashtra", loaded.DefaultState)
	assert.Equal(t, "Pune", loaded.DefaultDistrict)
	assert.Equal(t, "mr", loaded.DefaultLocale)

	require.NoError(t, h.ClearDefaults())
	cleared, err := h.Load()
	require.NoError(t, err)
	assert.Empty(t, cleared.DefaultLocale)
}

func TestLoadConfig_ValidationNamesConfigKeys(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "aggregation:\n  window_days: 40\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggregation.window_days")
}

func TestLoadConfig_ConcurrencyAboveMarketCap(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "aggregation:\n  max_markets: 5\n  concurrency: 8\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggregation.concurrency")
}

func TestLoadConfig_MetricsPathInsideAPI(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "metrics:\n  enabled: true\n  path: /api/metrics\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics.path")
}

func TestLoadConfig_PIDFileFromEnv(t *testing.T) {
	t.Setenv("AGRO_SERVER_PID_FILE", "/tmp/agroinsight.pid")

	cfg, err := config.LoadConfig(writeConfig(t, "{}\n"))

	require.NoError(t, err)
	assert.Equal(t, "/tmp/agroinsight.pid", cfg.Server.PIDFile)
}

func TestUserConfigHandler_RejectsBadPreferences(t *testing.T) {
	h := config.NewUserConfigHandlerAt(t.TempDir())

	err := h.SetDefaultGeography("", "Pune")
	assert.ErrorContains(t, err, "default_state")

	err = h.SetDefaultLocale("not a locale")
	assert.ErrorContains(t, err, "default_locale")

	prefs, err := h.Load()
	require.NoError(t, err)
	assert.Equal(t, &config.UserConfig{}, prefs)
}

func TestUserConfigHandler_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0o600))

	_, err := config.NewUserConfigHandlerAt(dir).Load()

	assert.ErrorContains(t, err, "failed to parse user config")
}

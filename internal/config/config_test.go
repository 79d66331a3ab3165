package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/gas-calc/internal/config"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS", "STORE_DRIVER",
		"DATABASE_URL", "SQLITE_PATH", "SNAPSHOT_KEY", "MAX_BODY_BYTES",
		"RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST",
	} {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that every variable falls back to its default
// and that the sqlite driver needs no DATABASE_URL.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, config.DriverSQLite, cfg.StoreDriver)
	require.Equal(t, "./data/gas-calc.db", cfg.SQLitePath)
	require.Equal(t, "gas-calc", cfg.SnapshotKey)
	require.Equal(t, int64(65536), cfg.MaxBodyBytes)
	require.Equal(t, 120, cfg.RateLimitPerMinute)
	require.Equal(t, 20, cfg.RateLimitBurst)
	require.Empty(t, cfg.DatabaseURL)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/gascalc")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("SNAPSHOT_KEY", "weekend-trip")
	t.Setenv("MAX_BODY_BYTES", "1024")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("RATE_LIMIT_BURST", "5")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, config.DriverPostgres, cfg.StoreDriver)
	require.Equal(t, "postgres://user:pass@db:5432/gascalc", cfg.DatabaseURL)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, "weekend-trip", cfg.SnapshotKey)
	require.Equal(t, int64(1024), cfg.MaxBodyBytes)
	require.Equal(t, 0, cfg.RateLimitPerMinute)
	require.Equal(t, 5, cfg.RateLimitBurst)
}

// TestLoad_missingRequired verifies that the postgres driver requires
// DATABASE_URL and that the error message names the missing variable.
func TestLoad_missingRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "DATABASE_URL")
}

// TestLoad_invalidValues verifies that unusable values are rejected by name.
func TestLoad_invalidValues(t *testing.T) {
	tests := map[string]string{
		"STORE_DRIVER":          "mongodb",
		"LOG_FORMAT":            "xml",
		"MAX_BODY_BYTES":        "lots",
		"RATE_LIMIT_PER_MINUTE": "-1",
		"RATE_LIMIT_BURST":      "many",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := config.Load()

			require.ErrorContains(t, err, key)
		})
	}
}

// TestLoadDotEnv verifies that a .env file fills unset variables, leaves set
// ones alone, and that a missing file is not an error.
func TestLoadDotEnv(t *testing.T) {
	const fresh = "GASCALC_TEST_DOTENV_FRESH"
	const preset = "GASCALC_TEST_DOTENV_PRESET"
	t.Setenv(preset, "from-env")
	t.Cleanup(func() { os.Unsetenv(fresh) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(fresh+"=from-file\n"+preset+"=from-file\n"), 0o600))

	require.NoError(t, config.LoadDotEnv(path))
	require.Equal(t, "from-file", os.Getenv(fresh))
	require.Equal(t, "from-env", os.Getenv(preset))

	require.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "HTTP_ADDR", "POSTGRES_DSN", "REDIS_ADDR", "KAFKA_BROKERS",
		"SERVICE_NAME", "LOG_LEVEL", "SHUTDOWN_TIMEOUT", "JWT_SECRET", "TOKEN_TTL_HOURS",
		"LOW_STOCK_THRESHOLD", "STATS_CACHE_TTL", "ORACLE_PROVIDER", "OPENAI_API_KEY",
		"OPENAI_BASE_URL", "OPENAI_MODEL", "GEMINI_API_KEY", "GEMINI_MODEL",
		"STOCKWATCH_GROUP", "STOCKWATCH_WORKERS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8081", c.HTTPAddr)
	require.Equal(t, []string{"kafka:9092"}, c.KafkaBrokers)
	require.Equal(t, 15, c.LowStockThreshold)
	require.Equal(t, 12*time.Hour, c.TokenLifetime)
	require.Equal(t, "openai", c.Oracle.Provider)
	require.Equal(t, "gpt-4o-mini", c.Oracle.OpenAIModel)
	require.Equal(t, 4, c.StockwatchWorkers)
	require.Equal(t, "production", c.Env)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("TOKEN_TTL_HOURS", "2")
	t.Setenv("STATS_CACHE_TTL", "0")
	t.Setenv("ORACLE_PROVIDER", "Gemini")
	t.Setenv("STOCKWATCH_WORKERS", "-3")
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", c.HTTPAddr)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	require.Equal(t, 2*time.Hour, c.TokenLifetime)
	require.Equal(t, time.Duration(0), c.StatsCacheTTL)
	require.Equal(t, "gemini", c.Oracle.Provider)
	require.Equal(t, 1, c.StockwatchWorkers)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "erp.yaml")
	yml := "http_addr: \":7000\"\nlow_stock_threshold: 5\noracle:\n  provider: gemini\n  gemini_model: gemini-pro\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOW_STOCK_THRESHOLD", "8")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":7000", c.HTTPAddr)
	require.Equal(t, 8, c.LowStockThreshold)
	require.Equal(t, "gemini", c.Oracle.Provider)
	require.Equal(t, "gemini-pro", c.Oracle.GeminiModel)
	// untouched keys keep their defaults
	require.Equal(t, "https://api.openai.com/v1", c.Oracle.OpenAIBaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestSigningSecret(t *testing.T) {
	clearEnv(t)
	c, err := Load()
	require.NoError(t, err)
	_, err = c.SigningSecret()
	require.ErrorContains(t, err, "JWT_SECRET must be set")

	t.Setenv("APP_ENV", "Development")
	c, err = Load()
	require.NoError(t, err)
	secret, err := c.SigningSecret()
	require.NoError(t, err)
	require.Equal(t, devJWTSecret, secret)

	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	c, err = Load()
	require.NoError(t, err)
	secret, err = c.SigningSecret()
	require.NoError(t, err)
	require.Equal(t, "s3cret", secret)
}

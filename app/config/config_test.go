package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "OPENAI_API_KEY", "GOOGLE_GEMINI_API_KEY", "GEMINI_API_KEY",
		"ANTHROPIC_API_KEY", "OLLAMA_HOST", "STORE_DRIVER", "DATABASE_URL",
		"STORAGE_DIR", "FRONTEND_URL", "LOG_LEVEL", "DEFAULT_PROVIDER",
		"SERVER_HOST", "METRICS_ADDR", "APP_URL", "OPENAI_MODEL", "OPENAI_TEMPERATURE",
		"GEMINI_MODEL", "ANTHROPIC_MODEL", "ANTHROPIC_MAX_TOKENS", "OLLAMA_MODEL",
		"MONGO_URI", "MONGO_DB", "STRIPE_CURRENCY", "STRIPE_PRODUCT_NAME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.Providers.Default)
	assert.Empty(t, cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Providers.OpenAI.Model)
	assert.InDelta(t, 0.7, cfg.Providers.OpenAI.Temperature, 0.0001)
	assert.Equal(t, 1500, cfg.Providers.Anthropic.MaxTokens)
	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, filepath.Join("storage", "projects"), filepath.Clean(cfg.Storage.ProjectsDir))
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 2*time.Minute, cfg.Server.ReadTimeout)
	assert.Equal(t, ":2112", cfg.Server.MetricsAddr)
	assert.Equal(t, "http://localhost:3000", cfg.Server.FrontendURL)
	assert.Equal(t, "gemini-pro", cfg.Providers.Gemini.Model)
	assert.Equal(t, "claude-3-opus-20240229", cfg.Providers.Anthropic.Model)
	assert.Equal(t, "llama3", cfg.Providers.Ollama.Model)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "sitebuilder", cfg.Mongo.Database)
	assert.Equal(t, "usd", cfg.Billing.Currency)
	assert.Equal(t, "AI Website Builder Pro", cfg.Billing.ProductName)
}

func TestLoadGeminiKeyAlias(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "alias-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "alias-key", cfg.Providers.Gemini.APIKey)

	t.Setenv("GOOGLE_GEMINI_API_KEY", "primary-key")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.Providers.Gemini.APIKey)
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/sitebuilder")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SERVER_PORT", "eighty")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadLogLevelAndFrontendURL(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FRONTEND_URL", "https://example.com/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "https://example.com", cfg.Server.FrontendURL)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    HTTPServerConfig `json:"server"`
	Providers ProvidersConfig  `json:"providers"`
	Store     StoreConfig      `json:"store"`
	Mongo     MongoConfig      `json:"mongo"`
	Postgres  PostgresConfig   `json:"postgres"`
	Storage   StorageConfig    `json:"storage"`
	Billing   BillingConfig    `json:"billing"`
	LogLevel  slog.Level       `json:"log_level"`
}

type HTTPServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	MetricsAddr  string        `json:"metrics_addr"`
	AppURL       string        `json:"app_url"`
	FrontendURL  string        `json:"frontend_url"`
}

// ProvidersConfig holds provider credentials. An empty key disables the provider.
type ProvidersConfig struct {
	Default   string          `json:"default"`
	OpenAI    OpenAIConfig    `json:"openai"`
	Gemini    GeminiConfig    `json:"gemini"`
	Anthropic AnthropicConfig `json:"anthropic"`
	Ollama    OllamaConfig    `json:"ollama"`
}

type OpenAIConfig struct {
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url"`
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
}

type GeminiConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

type AnthropicConfig struct {
	APIKey    string `json:"api_key"`
	BaseURL   string `json:"base_url"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

type OllamaConfig struct {
	Host  string `json:"host"`
	Model string `json:"model"`
}

type StoreConfig struct {
	Driver string `json:"driver"` // mongo, postgres
}

type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

type PostgresConfig struct {
	DSN string `json:"dsn"`
}

type StorageConfig struct {
	ProjectsDir string `json:"projects_dir"`
	MediaDir    string `json:"media_dir"`
}

type BillingConfig struct {
	PublishableKey string `json:"publishable_key"`
	SecretKey      string `json:"secret_key"`
	WebhookSecret  string `json:"webhook_secret"`
	Currency       string `json:"currency"`
	ProductName    string `json:"product_name"`
}

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
)

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first; variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	port, err := getEnvInt("SERVER_PORT", 8000)
	if err != nil {
		return nil, err
	}
	temperature, err := strconv.ParseFloat(getEnv("OPENAI_TEMPERATURE", "0.7"), 32)
	if err != nil {
		return nil, fmt.Errorf("parse OPENAI_TEMPERATURE: %w", err)
	}
	maxTokens, err := getEnvInt("ANTHROPIC_MAX_TOKENS", 1500)
	if err != nil {
		return nil, err
	}

	storageDir := getEnv("STORAGE_DIR", "./storage")

	cfg := &Config{
		Server: HTTPServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         port,
			ReadTimeout:  2 * time.Minute,
			WriteTimeout: 2 * time.Minute,
			MetricsAddr:  getEnv("METRICS_ADDR", ":2112"),
			AppURL:       getEnv("APP_URL", "http://127.0.0.1:8000"),
			FrontendURL:  strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		},
		Providers: ProvidersConfig{
			Default: getEnv("DEFAULT_PROVIDER", "openai"),
			OpenAI: OpenAIConfig{
				APIKey:      os.Getenv("OPENAI_API_KEY"),
				BaseURL:     os.Getenv("OPENAI_BASE_URL"),
				Model:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
				Temperature: float32(temperature),
			},
			Gemini: GeminiConfig{
				APIKey: getEnv("GOOGLE_GEMINI_API_KEY", os.Getenv("GEMINI_API_KEY")),
				Model:  getEnv("GEMINI_MODEL", "gemini-pro"),
			},
			Anthropic: AnthropicConfig{
				APIKey:    os.Getenv("ANTHROPIC_API_KEY"),
				BaseURL:   os.Getenv("ANTHROPIC_BASE_URL"),
				Model:     getEnv("ANTHROPIC_MODEL", "claude-3-opus-20240229"),
				MaxTokens: maxTokens,
			},
			Ollama: OllamaConfig{
				Host:  os.Getenv("OLLAMA_HOST"),
				Model: getEnv("OLLAMA_MODEL", "llama3"),
			},
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMongo)),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "sitebuilder"),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("DATABASE_URL"),
		},
		Storage: StorageConfig{
			ProjectsDir: filepath.Join(storageDir, "projects"),
			MediaDir:    filepath.Join(storageDir, "media"),
		},
		Billing: BillingConfig{
			PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
			SecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SIGNING_SECRET"),
			Currency:       getEnv("STRIPE_CURRENCY", "usd"),
			ProductName:    getEnv("STRIPE_PRODUCT_NAME", "AI Website Builder Pro"),
		},
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),
	}

	switch cfg.Store.Driver {
	case StoreDriverMongo:
	case StoreDriverPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

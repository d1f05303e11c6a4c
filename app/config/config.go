package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// PlaceholderAPIKey is used when no credential is configured. Calls made with
// it fail upstream and land on the template fallback.
const PlaceholderAPIKey = "dummy-key"

type Config struct {
	Server  HTTPServerConfig `json:"server"`
	LLM     LLMConfig        `json:"llm"`
	Mongo   MongoConfig      `json:"mongo"`
	SQLite  SQLiteConfig     `json:"sqlite"`
	History HistoryConfig    `json:"history"`
}

type HTTPServerConfig struct {
	Host         string        `json:"host" validate:"required"`
	Port         int           `json:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

type LLMConfig struct {
	APIKey           string        `json:"api_key" validate:"required"`
	BaseURL          string        `json:"base_url" validate:"required,url"`
	Model            string        `json:"model" validate:"required"`
	Temperature      float32       `json:"temperature" validate:"min=0,max=2"`
	MaxTokens        int           `json:"max_tokens" validate:"min=1"`
	Timeout          time.Duration `json:"timeout" validate:"min=0"`
	BreakerThreshold uint32        `json:"breaker_threshold"`
	BreakerCooldown  time.Duration `json:"breaker_cooldown"`
}

type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database" validate:"required_with=URI"`
}

type SQLiteConfig struct {
	Path string `json:"path"`
}

type HistoryConfig struct {
	Enabled bool `json:"enabled"`
}

// DefaultLLMConfig mirrors the fixed request parameters of the generator.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		APIKey:      PlaceholderAPIKey,
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4o",
		Temperature: 0.7,
		MaxTokens:   4000,
		Timeout:     2 * time.Minute,
	}
}

// Load reads an optional .env file, then process environment, then validates.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: HTTPServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 5*time.Minute),
		},
		LLM: LLMFromEnv(),
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DB", "pipelineai"),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "pipelineai.db"),
		},
		History: HistoryConfig{
			Enabled: getEnvBool("HISTORY_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLLM is Load for callers that only talk to the LLM. apiKey, when set,
// takes precedence over OPENAI_API_KEY.
func LoadLLM(apiKey string) (LLMConfig, error) {
	if err := loadDotEnv(); err != nil {
		return LLMConfig{}, err
	}
	cfg := LLMFromEnv()
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if err := validator.New().Struct(cfg); err != nil {
		return LLMConfig{}, fmt.Errorf("invalid llm config: %w", err)
	}
	return cfg, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LLMFromEnv resolves the credential chain OPENAI_API_KEY -> PlaceholderAPIKey
// and the remaining LLM settings.
func LLMFromEnv() LLMConfig {
	def := DefaultLLMConfig()
	return LLMConfig{
		APIKey:           getEnv("OPENAI_API_KEY", def.APIKey),
		BaseURL:          getEnv("OPENAI_BASE_URL", def.BaseURL),
		Model:            getEnv("OPENAI_MODEL", def.Model),
		Temperature:      def.Temperature,
		MaxTokens:        def.MaxTokens,
		Timeout:          getEnvDuration("LLM_TIMEOUT", def.Timeout),
		BreakerThreshold: uint32(getEnvInt("LLM_BREAKER_THRESHOLD", 0)),
		BreakerCooldown:  getEnvDuration("LLM_BREAKER_COOLDOWN", 60*time.Second),
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const DefaultGenerateURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent"

type Config struct {
	GenerateURL           string
	GeminiAPIKey          string
	GeminiModel           string
	LLMBackend            string
	StorageDriver         string
	DatabaseURL           string
	HistoryKey            string
	HTTPPort              string
	LogLevel              string
	RequestTimeoutSeconds int
	FailureMessage        string
}

var AppConfig Config

// LoadConfig reads .env (if present) and the environment into AppConfig.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment variables")
	}

	AppConfig = FromEnv()
	return AppConfig.Validate()
}

func FromEnv() Config {
	return Config{
		GenerateURL:           getEnv("GENERATE_URL", DefaultGenerateURL),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", ""),
		LLMBackend:            strings.ToLower(getEnv("LLM_BACKEND", "http")),
		StorageDriver:         strings.ToLower(getEnv("STORAGE_DRIVER", "sqlite")),
		DatabaseURL:           getEnv("DATABASE_URL", "answer_bubbles.db"),
		HistoryKey:            getEnv("HISTORY_KEY", "history"),
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		LogLevel:              getEnv("LOG_LEVEL", "INFO"),
		RequestTimeoutSeconds: getEnvAsInt("REQUEST_TIMEOUT", 0),
		FailureMessage:        getEnv("FAILURE_MESSAGE", ""),
	}
}

func (c Config) Validate() error {
	switch c.LLMBackend {
	case "http":
		if c.GenerateURL == "" {
			return errors.New("GENERATE_URL is required for the http backend")
		}
	case "genai":
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY environment variable is required for the genai backend")
		}
	default:
		return errors.Errorf("unknown LLM_BACKEND %q", c.LLMBackend)
	}
	if c.StorageDriver != "memory" && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.RequestTimeoutSeconds < 0 {
		return errors.New("REQUEST_TIMEOUT must not be negative")
	}
	return nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// APIKeyEnv is the environment variable holding the Gemini credential.
const APIKeyEnv = "GOOGLE_API_KEY"

// MissingAPIKeyMessage is returned to clients whenever the credential is unset.
var MissingAPIKeyMessage = fmt.Sprintf("Missing API key. Please set the %s environment variable.", APIKeyEnv)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Frontend
	FrontendURL string

	// Redis (optional, shared rate limiting)
	RedisURL string

	// Gemini AI
	GeminiModel          string
	GeminiLanguageModel  string
	GeminiConcurrentReqs int
	GeminiTemperature    float64
	GeminiMaxTokens      int
	GeminiTopP           float64

	// Rate limiting
	RateLimitPerMinute int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "*"),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiLanguageModel:  getEnvOrDefault("GEMINI_LANGUAGE_MODEL", "gemini-2.0-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		GeminiTemperature:    getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", 0.7),
		GeminiMaxTokens:      getEnvAsIntOrDefault("GEMINI_MAX_OUTPUT_TOKENS", 1000),
		GeminiTopP:           getEnvAsFloatOrDefault("GEMINI_TOP_P", 0.95),
		RateLimitPerMinute:   getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
	}

	return cfg
}

// APIKey reads the credential on every call so a key set after startup is
// picked up without a restart. There is no fallback value.
func APIKey() string {
	return os.Getenv(APIKeyEnv)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

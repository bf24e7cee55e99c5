package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	StaticDir     string
	Version       string
	CORSOrigins   []string
	GeminiAPIKey  string
	GeminiModelID string
	LLMMaxTokens  int
	// LLMTemperature is parsed from a string env var; zero keeps the
	// provider default.
	LLMTemperature float32
	// HistoryContextTurns bounds how many past turns reach the model.
	HistoryContextTurns int
	// PromptGuardEnabled turns on the inbound prompt-injection scan.
	PromptGuardEnabled bool
	// RateLimitRPS limits chat API requests per IP; zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		StaticDir:           getEnv("STATIC_DIR", "website"),
		Version:             getEnv("APP_VERSION", "1.0.0"),
		CORSOrigins:         getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:       getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		LLMMaxTokens:        getEnvAsInt("LLM_MAX_TOKENS", 0),
		LLMTemperature:      getEnvAsFloat32("LLM_TEMPERATURE", 0),
		HistoryContextTurns: getEnvAsInt("HISTORY_CONTEXT_TURNS", 3),
		PromptGuardEnabled:  getEnvAsBool("PROMPT_GUARD_ENABLED", false),
		RateLimitRPS:        getEnvAsFloat64("RATE_LIMIT_RPS", 5),
		RateLimitBurst:      getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping
// empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

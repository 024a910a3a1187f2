package config

import (
	"os"
	"strconv"
	"strings"

	"brew-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port                string
	Env                 string
	CORSAllowOrigin     []string
	LLMProvider         string
	LLMModel            string
	AnthropicAPIKey     string
	AnthropicBaseURL    string
	OpenAIAPIKey        string
	AITimeoutSeconds    int
	BreakerFailures     int
	BreakerCooldownSecs int
	DatabaseURL         string
	LogLevel            string
	LogFormat           string
	RateLimitRPS        float64
	RateLimitBurst      int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	provider := normalizeProvider(getEnv("LLM_PROVIDER", "anthropic"))

	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 env,
		CORSAllowOrigin:     splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:4321")),
		LLMProvider:         provider,
		LLMModel:            getEnv("LLM_MODEL", defaultModel(provider)),
		AnthropicAPIKey:     os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL:    os.Getenv("ANTHROPIC_BASE_URL"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		AITimeoutSeconds:    getEnvInt("AI_TIMEOUT_SECONDS", 8),
		BreakerFailures:     getEnvInt("AI_BREAKER_FAILURES", 5),
		BreakerCooldownSecs: getEnvInt("AI_BREAKER_COOLDOWN_SECONDS", 30),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:           strings.ToLower(getEnv("LOG_FORMAT", "json")),
		RateLimitRPS:        getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 10),
	}

	if env == "production" && cfg.APIKey() == "" {
		telemetry.Warn("config.no_llm_key", map[string]any{
			"llm_provider": provider,
			"message":      "recommendations will use the fallback table",
		})
	}
	return cfg
}

// APIKey returns the credential for the configured LLM provider.
func (c Config) APIKey() string {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 {
		telemetry.Warn("config.invalid_number", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "none", "off", "disabled":
		return "none"
	default:
		return "anthropic"
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	default:
		return "claude-3-haiku-20240307"
	}
}

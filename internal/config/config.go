package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	TavilyAPIKey         string
	TavilyMaxResults     int
	TavilyRateLimitRPS   float64
	TavilyRateLimitBurst int

	OllamaURL      string
	OllamaGenModel string

	NATSURL              string
	NATSRequestedSubject string
	NATSCompletedSubject string

	ReportDir    string
	TaxonomyPath string

	APIRateLimitRPS   float64
	APIRateLimitBurst int
	APIMaxInFlight    int

	RetryMaxAttempts int
	BreakerEnabled   bool

	WorkerMetricsPort string
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		TavilyAPIKey:         mustEnv("TAVILY_API_KEY", ""),
		TavilyMaxResults:     mustEnvInt("TAVILY_MAX_RESULTS", 5),
		TavilyRateLimitRPS:   mustEnvFloat("TAVILY_RATE_LIMIT_RPS", 1),
		TavilyRateLimitBurst: mustEnvInt("TAVILY_RATE_LIMIT_BURST", 3),

		OllamaURL:      mustEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaGenModel: mustEnv("OLLAMA_GEN_MODEL", "llama3.1:8b"),

		NATSURL:              mustEnv("NATS_URL", "nats://localhost:4222"),
		NATSRequestedSubject: mustEnv("NATS_REQUESTED_SUBJECT", "assessments.requested"),
		NATSCompletedSubject: mustEnv("NATS_COMPLETED_SUBJECT", "assessments.completed"),

		ReportDir:    mustEnv("REPORT_DIR", "./data/reports"),
		TaxonomyPath: mustEnv("TAXONOMY_PATH", ""),

		APIRateLimitRPS:   mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 10),
		APIMaxInFlight:    mustEnvInt("API_MAX_IN_FLIGHT", 0),

		RetryMaxAttempts: mustEnvInt("RETRY_MAX_ATTEMPTS", 3),
		BreakerEnabled:   mustEnvBool("BREAKER_ENABLED", true),

		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", "9090"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

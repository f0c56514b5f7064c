package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("TAVILY_MAX_RESULTS", "")
	t.Setenv("NATS_REQUESTED_SUBJECT", "")
	t.Setenv("NATS_COMPLETED_SUBJECT", "")
	t.Setenv("BREAKER_ENABLED", "")

	cfg := Load()
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default api port 8080, got %q", cfg.APIPort)
	}
	if cfg.TavilyMaxResults != 5 {
		t.Fatalf("expected default tavily max results 5, got %d", cfg.TavilyMaxResults)
	}
	if cfg.NATSRequestedSubject != "assessments.requested" {
		t.Fatalf("expected default requested subject, got %q", cfg.NATSRequestedSubject)
	}
	if cfg.NATSCompletedSubject != "assessments.completed" {
		t.Fatalf("expected default completed subject, got %q", cfg.NATSCompletedSubject)
	}
	if !cfg.BreakerEnabled {
		t.Fatal("expected breaker enabled by default")
	}
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "tvly-test")
	t.Setenv("TAVILY_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_MAX_IN_FLIGHT", "32")
	t.Setenv("TAXONOMY_PATH", "/etc/aiact/taxonomy.yaml")

	cfg := Load()
	if cfg.TavilyAPIKey != "tvly-test" {
		t.Fatalf("api key = %q", cfg.TavilyAPIKey)
	}
	if cfg.TavilyRateLimitRPS != 2.5 {
		t.Fatalf("rate limit rps = %v", cfg.TavilyRateLimitRPS)
	}
	if cfg.APIMaxInFlight != 32 {
		t.Fatalf("max in flight = %d", cfg.APIMaxInFlight)
	}
	if cfg.TaxonomyPath != "/etc/aiact/taxonomy.yaml" {
		t.Fatalf("taxonomy path = %q", cfg.TaxonomyPath)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("TAVILY_MAX_RESULTS", "many")
	t.Setenv("TAVILY_RATE_LIMIT_RPS", "fast")
	t.Setenv("BREAKER_ENABLED", "sometimes")

	cfg := Load()
	if cfg.TavilyMaxResults != 5 {
		t.Fatalf("expected fallback max results, got %d", cfg.TavilyMaxResults)
	}
	if cfg.TavilyRateLimitRPS != 1 {
		t.Fatalf("expected fallback rate limit, got %v", cfg.TavilyRateLimitRPS)
	}
	if !cfg.BreakerEnabled {
		t.Fatal("expected fallback breaker setting")
	}
}

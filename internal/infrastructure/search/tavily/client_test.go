package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: 1,
		BreakerEnabled:   false,
	})
}

func TestSearchMapsResponse(t *testing.T) {
	var captured searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{
			"answer": "Acme is a medical device maker.",
			"results": [
				{"title": "About Acme", "url": "https://acme.example/about", "content": "Acme builds devices."}
			]
		}`))
	}))
	defer server.Close()

	client := New("key-123", testExecutor(), WithBaseURL(server.URL), WithRateLimit(100, 10))
	got, err := client.Search(context.Background(), "Acme Medical company profile", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if captured.APIKey != "key-123" || !captured.IncludeAnswer || captured.MaxResults != 3 {
		t.Fatalf("unexpected request payload: %+v", captured)
	}
	if got.Answer != "Acme is a medical device maker." {
		t.Fatalf("answer = %q", got.Answer)
	}
	if len(got.Results) != 1 || got.Results[0].URL != "https://acme.example/about" {
		t.Fatalf("results = %+v", got.Results)
	}
}

func TestSearchMissingAPIKeyIsServiceUnavailable(t *testing.T) {
	client := New("", testExecutor())
	_, err := client.Search(context.Background(), "anything", 3)
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
	if !domain.IsKind(err, domain.ErrServiceUnavailable) {
		t.Fatalf("error = %v, want service-unavailable kind", err)
	}
}

func TestSearchTruncatesLongQueries(t *testing.T) {
	var captured searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"answer":"","results":[]}`))
	}))
	defer server.Close()

	client := New("key", testExecutor(), WithBaseURL(server.URL), WithRateLimit(100, 10))
	long := strings.Repeat("organization ", 100)
	if _, err := client.Search(context.Background(), long, 1); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(captured.Query) > maxQueryLength {
		t.Fatalf("query length = %d, want <= %d", len(captured.Query), maxQueryLength)
	}
}

func TestSearchRetryableStatusWrappedAsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New("key", testExecutor(), WithBaseURL(server.URL), WithRateLimit(100, 10))
	_, err := client.Search(context.Background(), "query", 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("error = %v, want temporary kind", err)
	}
}

func TestSearchClientErrorNotTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := New("key", testExecutor(), WithBaseURL(server.URL), WithRateLimit(100, 10))
	_, err := client.Search(context.Background(), "query", 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("client error should not be temporary: %v", err)
	}
	if !strings.Contains(err.Error(), "bad request") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

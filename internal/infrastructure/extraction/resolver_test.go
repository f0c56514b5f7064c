package extraction

import (
	"testing"

	"github.com/legitima/aiact-agent/internal/core/domain"
)

func TestResolveKnownBrandWinsOverResults(t *testing.T) {
	resolver := NewResolver()

	got := resolver.Resolve("IBM", domain.SearchResponse{
		Results: []domain.SearchResult{{URL: "https://en.wikipedia.org/wiki/IBM", Title: "IBM - Wikipedia"}},
	})
	if got != "ibm.com" {
		t.Fatalf("Resolve() = %q, want ibm.com", got)
	}
}

func TestResolveBrandSubstringMatch(t *testing.T) {
	resolver := NewResolver()

	if got := resolver.Resolve("IBM Deutschland GmbH", domain.SearchResponse{}); got != "ibm.com" {
		t.Fatalf("Resolve() = %q, want ibm.com", got)
	}
}

func TestResolvePrefersOfficialURL(t *testing.T) {
	resolver := NewResolver()

	got := resolver.Resolve("Contoso", domain.SearchResponse{
		Results: []domain.SearchResult{
			{URL: "https://www.linkedin.com/company/contoso", Title: "Contoso | LinkedIn"},
			{URL: "https://news.example.com/contoso-funding", Title: "Contoso raises funding"},
			{URL: "https://www.contoso.io/about", Title: "About Contoso"},
		},
	})
	if got != "contoso.io" {
		t.Fatalf("Resolve() = %q, want contoso.io", got)
	}
}

func TestResolveFallsBackToAnyCleanHost(t *testing.T) {
	resolver := NewResolver()

	got := resolver.Resolve("Contoso", domain.SearchResponse{
		Results: []domain.SearchResult{
			{URL: "https://twitter.com/contoso"},
			{URL: "https://www.contoso.io/pricing", Title: "Pricing"},
		},
	})
	if got != "contoso.io" {
		t.Fatalf("Resolve() = %q, want contoso.io", got)
	}
}

func TestResolveReturnsEmptyWhenOnlyNoise(t *testing.T) {
	resolver := NewResolver()

	got := resolver.Resolve("Contoso", domain.SearchResponse{
		Results: []domain.SearchResult{
			{URL: "https://www.linkedin.com/company/contoso"},
			{URL: "https://de.wikipedia.org/wiki/Contoso"},
		},
	})
	if got != "" {
		t.Fatalf("Resolve() = %q, want empty", got)
	}
}

func TestResolveUsesHTMLTitleWhenResultTitleMissing(t *testing.T) {
	resolver := NewResolver()

	got := resolver.Resolve("Contoso", domain.SearchResponse{
		Results: []domain.SearchResult{
			{URL: "https://contoso.io/company", Content: "<html><head><title>About Contoso</title></head><body></body></html>"},
		},
	})
	if got != "contoso.io" {
		t.Fatalf("Resolve() = %q, want contoso.io", got)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	resolver := NewResolver()
	search := domain.SearchResponse{
		Results: []domain.SearchResult{
			{URL: "https://alpha.example"},
			{URL: "https://beta.example"},
		},
	}

	first := resolver.Resolve("Contoso", search)
	second := resolver.Resolve("Contoso", search)
	if first != second {
		t.Fatalf("Resolve() not idempotent: %q vs %q", first, second)
	}
}

func TestResolverOptionsExtendTables(t *testing.T) {
	resolver := NewResolver(
		WithBrandDomains(map[string]string{"Contoso": "contoso.example"}),
		WithNoiseHosts([]string{"aggregator.example"}),
	)

	if got := resolver.Resolve("Contoso", domain.SearchResponse{}); got != "contoso.example" {
		t.Fatalf("brand override: Resolve() = %q", got)
	}
	got := resolver.Resolve("Fabrikam", domain.SearchResponse{
		Results: []domain.SearchResult{{URL: "https://www.aggregator.example/fabrikam"}},
	})
	if got != "" {
		t.Fatalf("noise override: Resolve() = %q, want empty", got)
	}
}

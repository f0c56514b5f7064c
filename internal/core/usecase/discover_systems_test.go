package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/core/ports"
)

func newSystemDiscovery(search *fakeSearch) (*SystemDiscoveryUseCase, *fakeClassifier, *fakeGapGenerator) {
	classifier := &fakeClassifier{}
	gaps := &fakeGapGenerator{}
	return NewSystemDiscoveryUseCase(search, classifier, gaps, 5, nil), classifier, gaps
}

func TestDiscoverSystemsDeclaredNames(t *testing.T) {
	search := &fakeSearch{response: domain.SearchResponse{
		Answer:  "RecruitFlow screens resumes and ranks candidates.",
		Results: []domain.SearchResult{{Content: "resume screening tool"}},
	}}
	uc, _, gaps := newSystemDiscovery(search)

	inventory, err := uc.DiscoverSystems(context.Background(), ports.DiscoverSystemsRequest{
		SystemNames: []string{"RecruitFlow"},
	})
	if err != nil {
		t.Fatalf("DiscoverSystems() error = %v", err)
	}

	if len(inventory.Systems) != 1 {
		t.Fatalf("system count = %d", len(inventory.Systems))
	}
	sys := inventory.Systems[0]
	if sys.RiskClassification.Category != domain.RiskHigh {
		t.Fatalf("category = %q, want High", sys.RiskClassification.Category)
	}
	if sys.System.ID == "" {
		t.Fatalf("missing synthetic system id")
	}
	if len(sys.ComplianceStatus.Gaps) == 0 {
		t.Fatalf("gap generator did not run")
	}
	// Gap generation saw an already-classified profile.
	if len(gaps.seenCategories) != 1 || gaps.seenCategories[0] != domain.RiskHigh {
		t.Fatalf("gap generator saw categories %v", gaps.seenCategories)
	}
	if inventory.Metadata.DataSource != domain.DataSourceSearch {
		t.Fatalf("dataSource = %q", inventory.Metadata.DataSource)
	}
	if inventory.RiskSummary.HighRiskCount != 1 {
		t.Fatalf("risk summary = %+v", inventory.RiskSummary)
	}
}

func TestDiscoverSystemsDeclaredNamesAllSearchesFail(t *testing.T) {
	search := &fakeSearch{err: errors.New("unreachable")}
	uc, _, _ := newSystemDiscovery(search)

	inventory, err := uc.DiscoverSystems(context.Background(), ports.DiscoverSystemsRequest{
		SystemNames: []string{"SupportChatbot", "LedgerSync"},
	})
	if err != nil {
		t.Fatalf("DiscoverSystems() error = %v", err)
	}

	if inventory.Metadata.DataSource != domain.DataSourceFallback {
		t.Fatalf("dataSource = %q, want fallback", inventory.Metadata.DataSource)
	}
	if len(inventory.Systems) != 2 {
		t.Fatalf("system count = %d", len(inventory.Systems))
	}
	// Name-only classification still ran.
	if inventory.Systems[0].RiskClassification.Category != domain.RiskLimited {
		t.Fatalf("chatbot category = %q", inventory.Systems[0].RiskClassification.Category)
	}
	if inventory.Systems[1].RiskClassification.Category != domain.RiskMinimal {
		t.Fatalf("unmatched category = %q", inventory.Systems[1].RiskClassification.Category)
	}
}

func TestDiscoverSystemsGenericFallbackSet(t *testing.T) {
	search := &fakeSearch{err: errors.New("unreachable")}
	uc, _, _ := newSystemDiscovery(search)

	inventory, err := uc.DiscoverSystems(context.Background(), ports.DiscoverSystemsRequest{})
	if err != nil {
		t.Fatalf("DiscoverSystems() error = %v", err)
	}

	if inventory.Metadata.DataSource != domain.DataSourceFallback {
		t.Fatalf("dataSource = %q, want fallback", inventory.Metadata.DataSource)
	}
	if len(inventory.Systems) != 2 {
		t.Fatalf("fallback system count = %d", len(inventory.Systems))
	}
	if inventory.Systems[0].RiskClassification.Category != domain.RiskLimited {
		t.Fatalf("fallback chatbot category = %q", inventory.Systems[0].RiskClassification.Category)
	}
	if inventory.Systems[1].RiskClassification.Category != domain.RiskMinimal {
		t.Fatalf("fallback recommendation category = %q", inventory.Systems[1].RiskClassification.Category)
	}
	if inventory.RiskSummary.LimitedRiskCount != 1 || inventory.RiskSummary.MinimalRiskCount != 1 {
		t.Fatalf("risk summary = %+v", inventory.RiskSummary)
	}
}

func TestDiscoverSystemsGenericFromSearchResults(t *testing.T) {
	search := &fakeSearch{response: domain.SearchResponse{
		Answer: "Acme runs several AI tools.",
		Results: []domain.SearchResult{
			{Title: "Acme Chatbot", Content: "conversational assistant for customers"},
			{Title: "Acme Forecasting", Content: "demand forecasting models"},
		},
	}}
	uc, _, _ := newSystemDiscovery(search)

	inventory, err := uc.DiscoverSystems(context.Background(), ports.DiscoverSystemsRequest{})
	if err != nil {
		t.Fatalf("DiscoverSystems() error = %v", err)
	}
	if len(inventory.Systems) != 2 {
		t.Fatalf("system count = %d", len(inventory.Systems))
	}
	if inventory.Systems[0].System.Name != "Acme Chatbot" {
		t.Fatalf("system name = %q", inventory.Systems[0].System.Name)
	}
	if inventory.Metadata.DataSource != domain.DataSourceSearch {
		t.Fatalf("dataSource = %q", inventory.Metadata.DataSource)
	}
}

func TestDiscoverSystemsScopeFiltersNeverWiden(t *testing.T) {
	search := &fakeSearch{err: errors.New("unreachable")}

	cases := []struct {
		scope     string
		wantCount int
	}{
		{ScopeAll, 2},
		{ScopeHighRiskOnly, 0},
		{ScopeProductionOnly, 1},
		{"bogus-scope", 2},
	}
	// Generic discovery with an unreachable search serves the fallback
	// set: one production chatbot, one pilot recommendation engine.
	for _, tc := range cases {
		uc, _, _ := newSystemDiscovery(search)
		inventory, err := uc.DiscoverSystems(context.Background(), ports.DiscoverSystemsRequest{
			Scope: tc.scope,
		})
		if err != nil {
			t.Fatalf("scope %q: error = %v", tc.scope, err)
		}
		if len(inventory.Systems) != tc.wantCount {
			t.Fatalf("scope %q: system count = %d, want %d", tc.scope, len(inventory.Systems), tc.wantCount)
		}
	}
}

func TestDiscoverSystemsHighRiskScopeKeepsHighTier(t *testing.T) {
	search := &fakeSearch{err: errors.New("unreachable")}
	uc, _, _ := newSystemDiscovery(search)

	inventory, err := uc.DiscoverSystems(context.Background(), ports.DiscoverSystemsRequest{
		SystemNames: []string{"RecruitMatch", "SupportChatbot"},
		Scope:       ScopeHighRiskOnly,
	})
	if err != nil {
		t.Fatalf("DiscoverSystems() error = %v", err)
	}
	if len(inventory.Systems) != 1 || inventory.Systems[0].RiskClassification.Category != domain.RiskHigh {
		t.Fatalf("filtered inventory = %+v", inventory.Systems)
	}
}

func TestBuildSystemProfileTruncatesPurposeOnRuneBoundary(t *testing.T) {
	description := strings.Repeat("a", 199) + "é"

	profile := buildSystemProfile("Translator", description, "production", domain.RiskClassification{
		Category: domain.RiskMinimal,
	})

	purpose := profile.System.IntendedPurpose
	if len(purpose) > 200 {
		t.Fatalf("purpose length = %d, want at most 200", len(purpose))
	}
	if !utf8.ValidString(purpose) {
		t.Fatalf("purpose is not valid UTF-8: %q", purpose)
	}
	if !strings.HasPrefix(purpose, strings.Repeat("a", 199)) {
		t.Fatalf("purpose lost leading content: %q", purpose)
	}
}

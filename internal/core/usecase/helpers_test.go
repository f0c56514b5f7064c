package usecase

import (
	"context"
	"strings"

	"github.com/legitima/aiact-agent/internal/core/domain"
)

type fakeSearch struct {
	response domain.SearchResponse
	err      error
	queries  []string
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int) (domain.SearchResponse, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return domain.SearchResponse{}, f.err
	}
	return f.response, nil
}

type fakeExtractor struct {
	profile *domain.OrganizationProfile
	calls   int
}

func (f *fakeExtractor) BuildProfile(orgName string, _ domain.SearchResponse) *domain.OrganizationProfile {
	f.calls++
	if f.profile != nil {
		clone := *f.profile
		clone.Organization.Name = orgName
		return &clone
	}
	return &domain.OrganizationProfile{
		Organization: domain.Organization{Name: orgName},
		Metadata:     domain.DiscoveryMetadata{DataSource: domain.DataSourceSearch},
	}
}

type fakeResolver struct {
	domain string
	calls  int
}

func (f *fakeResolver) Resolve(_ string, _ domain.SearchResponse) string {
	f.calls++
	return f.domain
}

// fakeClassifier maps well-known keywords to tiers the way the real
// dispatch table does, without pulling the classification package into
// these tests.
type fakeClassifier struct {
	calls []string
}

func (f *fakeClassifier) Classify(description, declaredName string) domain.RiskClassification {
	f.calls = append(f.calls, description+"|"+declaredName)
	corpus := strings.ToLower(description + " " + declaredName)
	switch {
	case strings.Contains(corpus, "recruit") || strings.Contains(corpus, "resume"):
		return domain.RiskClassification{Category: domain.RiskHigh, RiskScore: 85, ConformityAssessmentRequired: true}
	case strings.Contains(corpus, "chatbot") || strings.Contains(corpus, "conversational"):
		return domain.RiskClassification{Category: domain.RiskLimited, RiskScore: 25}
	default:
		return domain.RiskClassification{Category: domain.RiskMinimal, RiskScore: 10}
	}
}

// fakeGapGenerator records the categories it saw so tests can assert that
// classification ran first.
type fakeGapGenerator struct {
	seenCategories []domain.RiskCategory
}

func (f *fakeGapGenerator) Apply(profile *domain.AISystemProfile) {
	f.seenCategories = append(f.seenCategories, profile.RiskClassification.Category)
	switch profile.RiskClassification.Category {
	case domain.RiskHigh:
		profile.ComplianceStatus.Gaps = []string{
			"CRITICAL: Technical documentation per Article 11 and Annex IV is missing",
			"GENERAL: Maintain up-to-date compliance documentation and monitor regulatory guidance",
		}
	default:
		profile.ComplianceStatus.Gaps = []string{
			"GENERAL: Maintain up-to-date compliance documentation and monitor regulatory guidance",
		}
	}
}

type fakeGenerator struct {
	responses []string
	errs      []error
	prompts   []string
}

func (f *fakeGenerator) generate(prompt string) (string, error) {
	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	if call < len(f.errs) && f.errs[call] != nil {
		return "", f.errs[call]
	}
	if call < len(f.responses) {
		return f.responses[call], nil
	}
	return "", nil
}

func (f *fakeGenerator) GenerateFromPrompt(_ context.Context, prompt string) (string, error) {
	return f.generate(prompt)
}

func (f *fakeGenerator) GenerateJSONFromPrompt(_ context.Context, prompt string) (string, error) {
	return f.generate(prompt)
}

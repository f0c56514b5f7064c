package usecase

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/legitima/aiact-agent/internal/core/domain"
)

func fullOrganizationProfile() domain.OrganizationProfile {
	return domain.OrganizationProfile{
		Organization: domain.Organization{
			Name:            "Acme Medical",
			Sector:          "Healthcare",
			Size:            domain.SizeEnterprise,
			Jurisdiction:    []string{"EU"},
			EUPresence:      true,
			Headquarters:    domain.Location{Country: "Germany", City: "Berlin"},
			Contact:         domain.Contact{Email: "info@acme.example"},
			AIMaturityLevel: domain.MaturityMature,
			PrimaryRole:     "Provider",
		},
		RegulatoryContext: domain.RegulatoryContext{
			ApplicableFrameworks: []string{"EU AI Act", "GDPR"},
			ComplianceDeadlines:  domain.DefaultComplianceDeadlines(),
			Certifications:       []string{"ISO 27001"},
		},
		Metadata: domain.DiscoveryMetadata{
			DiscoveredAt:      time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			DataSource:        domain.DataSourceSearch,
			CompletenessScore: 80,
		},
	}
}

func TestNormalizeOrganizationFullSchemaRoundTrip(t *testing.T) {
	original := fullOrganizationProfile()
	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	normalized := NormalizeOrganizationContext(raw)
	if normalized == nil {
		t.Fatal("normalized = nil")
	}
	if !reflect.DeepEqual(*normalized, original) {
		t.Fatalf("round trip changed the profile:\n got  %+v\n want %+v", *normalized, original)
	}
}

func TestNormalizeOrganizationSimplifiedShape(t *testing.T) {
	normalized := NormalizeOrganizationContext(json.RawMessage(`{"name": "Acme", "sector": "Healthcare"}`))
	if normalized == nil {
		t.Fatal("normalized = nil")
	}

	org := normalized.Organization
	if org.Name != "Acme" || org.Sector != "Healthcare" {
		t.Fatalf("identity = %q/%q", org.Name, org.Sector)
	}
	if !reflect.DeepEqual(org.Jurisdiction, []string{"EU"}) {
		t.Fatalf("jurisdiction = %v, want [EU]", org.Jurisdiction)
	}
	if org.PrimaryRole != "Provider" {
		t.Fatalf("primaryRole = %q", org.PrimaryRole)
	}
	if org.Size != domain.SizeSME {
		t.Fatalf("size = %q", org.Size)
	}
	if org.AIMaturityLevel != domain.MaturityDeveloping {
		t.Fatalf("maturity = %q", org.AIMaturityLevel)
	}
	if !org.EUPresence {
		t.Fatal("euPresence should default to true")
	}
	if org.Contact.Email != "unknown@example.com" {
		t.Fatalf("email = %q", org.Contact.Email)
	}
}

func TestNormalizeOrganizationEmptyAndMalformed(t *testing.T) {
	for _, raw := range []string{"", "null", "not json", `{"sector": "Finance"}`} {
		if got := NormalizeOrganizationContext(json.RawMessage(raw)); got != nil {
			t.Fatalf("NormalizeOrganizationContext(%q) = %+v, want nil", raw, got)
		}
	}
}

func TestNormalizeSystemsFullSchemaRoundTrip(t *testing.T) {
	classifier := &fakeClassifier{}
	gaps := &fakeGapGenerator{}

	original := domain.SystemInventoryResponse{
		Systems: []domain.AISystemProfile{
			{
				System:             domain.SystemIdentity{ID: "sys-1", Name: "Screener", Status: "production"},
				RiskClassification: domain.RiskClassification{Category: domain.RiskHigh, RiskScore: 85},
				ComplianceStatus:   domain.ComplianceStatus{Gaps: []string{"CRITICAL: x"}},
			},
		},
		RiskSummary: domain.RiskSummary{HighRiskCount: 1},
		Metadata: domain.DiscoveryMetadata{
			DiscoveredAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			DataSource:   domain.DataSourceSearch,
		},
	}
	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	normalized := NormalizeSystemsContext(raw, classifier, gaps)
	if normalized == nil {
		t.Fatal("normalized = nil")
	}
	if !reflect.DeepEqual(*normalized, original) {
		t.Fatalf("round trip changed the inventory:\n got  %+v\n want %+v", *normalized, original)
	}
	if len(classifier.calls) != 0 {
		t.Fatalf("full schema must not be reclassified, saw %d calls", len(classifier.calls))
	}
}

func TestNormalizeSystemsNameArray(t *testing.T) {
	classifier := &fakeClassifier{}
	gaps := &fakeGapGenerator{}

	normalized := NormalizeSystemsContext(json.RawMessage(`["SupportChatbot", "LedgerSync"]`), classifier, gaps)
	if normalized == nil {
		t.Fatal("normalized = nil")
	}
	if len(normalized.Systems) != 2 {
		t.Fatalf("system count = %d", len(normalized.Systems))
	}
	if normalized.Systems[0].RiskClassification.Category != domain.RiskLimited {
		t.Fatalf("chatbot category = %q", normalized.Systems[0].RiskClassification.Category)
	}
	for i, sys := range normalized.Systems {
		if len(sys.ComplianceStatus.Gaps) == 0 {
			t.Fatalf("system %d missing gap list", i)
		}
		if sys.System.Status != "production" {
			t.Fatalf("system %d status = %q", i, sys.System.Status)
		}
	}
	if normalized.RiskSummary.LimitedRiskCount != 1 || normalized.RiskSummary.MinimalRiskCount != 1 {
		t.Fatalf("risk summary = %+v", normalized.RiskSummary)
	}
}

func TestNormalizeSystemsObjectArrayAndWrapper(t *testing.T) {
	classifier := &fakeClassifier{}
	gaps := &fakeGapGenerator{}

	raw := json.RawMessage(`{"systems": [{"name": "Resume Ranker", "description": "resume screening", "status": "pilot"}]}`)
	normalized := NormalizeSystemsContext(raw, classifier, gaps)
	if normalized == nil {
		t.Fatal("normalized = nil")
	}
	if len(normalized.Systems) != 1 {
		t.Fatalf("system count = %d", len(normalized.Systems))
	}
	sys := normalized.Systems[0]
	if sys.RiskClassification.Category != domain.RiskHigh {
		t.Fatalf("category = %q", sys.RiskClassification.Category)
	}
	if sys.System.Status != "pilot" {
		t.Fatalf("status = %q", sys.System.Status)
	}
}

func TestNormalizeSystemsEmptyAndMalformed(t *testing.T) {
	classifier := &fakeClassifier{}
	gaps := &fakeGapGenerator{}

	for _, raw := range []string{"", "null", "not json", "[]", `{"foo": 1}`} {
		if got := NormalizeSystemsContext(json.RawMessage(raw), classifier, gaps); got != nil {
			t.Fatalf("NormalizeSystemsContext(%q) = %+v, want nil", raw, got)
		}
	}
}

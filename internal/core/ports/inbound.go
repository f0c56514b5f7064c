package ports

import (
	"context"
	"encoding/json"

	"github.com/legitima/aiact-agent/internal/core/domain"
)

// DiscoverOrganizationRequest carries the caller-supplied identity hints for
// organization research.
type DiscoverOrganizationRequest struct {
	OrganizationName string
	Domain           string
	Context          string
}

// DiscoverSystemsRequest scopes AI-system discovery. The organization
// profile and system names are both optional; Scope is one of
// "all" (default), "high-risk-only", "production-only".
type DiscoverSystemsRequest struct {
	Organization *domain.OrganizationProfile
	SystemNames  []string
	Scope        string
	Context      string
}

// AssessmentRequest accepts raw JSON for both context blocks because
// orchestrating callers routinely send simplified shapes; the use case
// normalizes them instead of rejecting.
type AssessmentRequest struct {
	OrganizationContext   json.RawMessage
	SystemsContext        json.RawMessage
	FocusAreas            []string
	GenerateDocumentation bool
}

// OrganizationDiscoverer is the inbound contract for organization profiling.
type OrganizationDiscoverer interface {
	DiscoverOrganization(ctx context.Context, req DiscoverOrganizationRequest) (*domain.OrganizationProfile, error)
}

// SystemDiscoverer is the inbound contract for AI-system inventory building.
type SystemDiscoverer interface {
	DiscoverSystems(ctx context.Context, req DiscoverSystemsRequest) (*domain.SystemInventoryResponse, error)
}

// ComplianceAssessor is the inbound contract for the generative assessment.
type ComplianceAssessor interface {
	Assess(ctx context.Context, req AssessmentRequest) (*domain.ComplianceAssessmentResponse, error)
}

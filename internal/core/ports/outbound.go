package ports

import (
	"context"
	"io"

	"github.com/legitima/aiact-agent/internal/core/domain"
)

// SearchService performs one web-search call per discovery operation.
type SearchService interface {
	Search(ctx context.Context, query string, maxResults int) (domain.SearchResponse, error)
}

// TextGenerator calls the external generative-text service.
type TextGenerator interface {
	GenerateFromPrompt(ctx context.Context, prompt string) (string, error)
	GenerateJSONFromPrompt(ctx context.Context, prompt string) (string, error)
}

// ProfileExtractor turns raw search output into a partial organization
// profile. It never fails; unmatched fields get named defaults.
type ProfileExtractor interface {
	BuildProfile(orgName string, search domain.SearchResponse) *domain.OrganizationProfile
}

// DomainResolver picks the most likely official web domain from search
// results. An empty result is valid data, not an error.
type DomainResolver interface {
	Resolve(orgName string, search domain.SearchResponse) string
}

// SystemClassifier maps a system description (or declared name) to a
// complete risk classification. It never returns a partial record.
type SystemClassifier interface {
	Classify(description, declaredName string) domain.RiskClassification
}

// GapGenerator fills the profile's compliance gap list from its risk tier
// and current status flags.
type GapGenerator interface {
	Apply(profile *domain.AISystemProfile)
}

// ReportRenderer serializes a finished assessment into a downloadable
// workbook and names the artifact.
type ReportRenderer interface {
	Render(assessment domain.ComplianceAssessmentResponse, w io.Writer) error
	ReportKey(organization, eventID string) string
}

// ReportStorage stores generated report artifacts.
type ReportStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// AssessmentQueue transports assessment requests to the worker and
// completion events back out.
type AssessmentQueue interface {
	PublishAssessmentRequested(ctx context.Context, req domain.AssessmentRequestedEvent) error
	SubscribeAssessmentRequested(ctx context.Context, handler func(context.Context, domain.AssessmentRequestedEvent) error) error
	PublishAssessmentCompleted(ctx context.Context, event domain.AssessmentCompletedEvent) error
}

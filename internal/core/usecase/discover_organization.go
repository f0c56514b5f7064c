package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/core/ports"
)

// OrganizationDiscoveryUseCase researches an organization through one web
// search and builds a regulatory profile from the results. Search failure
// degrades to a static fallback profile, never an error.
type OrganizationDiscoveryUseCase struct {
	search     ports.SearchService
	extractor  ports.ProfileExtractor
	resolver   ports.DomainResolver
	maxResults int
	logger     *slog.Logger
}

func NewOrganizationDiscoveryUseCase(
	search ports.SearchService,
	extractor ports.ProfileExtractor,
	resolver ports.DomainResolver,
	maxResults int,
	logger *slog.Logger,
) *OrganizationDiscoveryUseCase {
	if maxResults <= 0 {
		maxResults = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrganizationDiscoveryUseCase{
		search:     search,
		extractor:  extractor,
		resolver:   resolver,
		maxResults: maxResults,
		logger:     logger,
	}
}

func (uc *OrganizationDiscoveryUseCase) DiscoverOrganization(
	ctx context.Context,
	req ports.DiscoverOrganizationRequest,
) (*domain.OrganizationProfile, error) {
	name := strings.TrimSpace(req.OrganizationName)
	if name == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "discover organization",
			fmt.Errorf("organization name is required"))
	}

	query := buildOrganizationQuery(name, req.Context)
	search, err := uc.search.Search(ctx, query, uc.maxResults)
	if err != nil {
		uc.logger.Warn("organization_search_degraded",
			"organization", name,
			"error", err,
		)
		return fallbackOrganizationProfile(name, req.Domain), nil
	}

	profile := uc.extractor.BuildProfile(name, search)

	webDomain := strings.TrimSpace(req.Domain)
	if webDomain == "" {
		webDomain = uc.resolver.Resolve(name, search)
	}
	applyContactDefaults(&profile.Organization.Contact, webDomain)

	return profile, nil
}

func buildOrganizationQuery(name, callerContext string) string {
	query := fmt.Sprintf(
		"%s company profile sector headquarters employees EU operations AI usage certifications",
		name,
	)
	if extra := strings.TrimSpace(callerContext); extra != "" {
		query += " " + extra
	}
	return query
}

// applyContactDefaults fills website and email from the resolved domain.
// A missing domain still yields a deliverable-looking address so the
// profile stays schema-complete.
func applyContactDefaults(contact *domain.Contact, webDomain string) {
	if webDomain != "" {
		if contact.Website == "" {
			contact.Website = "https://" + webDomain
		}
		if contact.Email == "" {
			contact.Email = "contact@" + webDomain
		}
	}
	if contact.Email == "" {
		contact.Email = "unknown@example.com"
	}
}

func fallbackOrganizationProfile(name, webDomain string) *domain.OrganizationProfile {
	contact := domain.Contact{}
	applyContactDefaults(&contact, strings.TrimSpace(webDomain))

	return &domain.OrganizationProfile{
		Organization: domain.Organization{
			Name:            name,
			Sector:          "Technology",
			Size:            domain.SizeSME,
			Jurisdiction:    []string{"EU"},
			EUPresence:      true,
			Headquarters:    domain.Location{Country: "Unknown", City: "Unknown"},
			Contact:         contact,
			AIMaturityLevel: domain.MaturityDeveloping,
			PrimaryRole:     "Provider",
		},
		RegulatoryContext: domain.RegulatoryContext{
			ApplicableFrameworks: []string{"EU AI Act", "GDPR"},
			ComplianceDeadlines:  domain.DefaultComplianceDeadlines(),
			Certifications:       []string{},
		},
		Metadata: domain.DiscoveryMetadata{
			DiscoveredAt:      time.Now().UTC(),
			DataSource:        domain.DataSourceFallback,
			CompletenessScore: 0,
		},
	}
}

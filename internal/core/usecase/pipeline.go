package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/core/ports"
)

// AssessmentPipeline runs the whole flow for one queued request: organization
// discovery, system discovery, assessment, report export, completion event.
type AssessmentPipeline struct {
	organizations ports.OrganizationDiscoverer
	systems       ports.SystemDiscoverer
	assessor      ports.ComplianceAssessor
	renderer      ports.ReportRenderer
	reports       ports.ReportStorage
	queue         ports.AssessmentQueue
	logger        *slog.Logger
}

func NewAssessmentPipeline(
	organizations ports.OrganizationDiscoverer,
	systems ports.SystemDiscoverer,
	assessor ports.ComplianceAssessor,
	renderer ports.ReportRenderer,
	reports ports.ReportStorage,
	queue ports.AssessmentQueue,
	logger *slog.Logger,
) *AssessmentPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessmentPipeline{
		organizations: organizations,
		systems:       systems,
		assessor:      assessor,
		renderer:      renderer,
		reports:       reports,
		queue:         queue,
		logger:        logger,
	}
}

// Run processes one requested event end to end. Report export failures are
// logged and the completion event is published without a report path; every
// other stage failure aborts the run.
func (p *AssessmentPipeline) Run(ctx context.Context, event domain.AssessmentRequestedEvent) (*domain.AssessmentCompletedEvent, error) {
	profile, err := p.organizations.DiscoverOrganization(ctx, ports.DiscoverOrganizationRequest{
		OrganizationName: event.OrganizationName,
		Domain:           event.Domain,
	})
	if err != nil {
		return nil, fmt.Errorf("discover organization: %w", err)
	}

	inventory, err := p.systems.DiscoverSystems(ctx, ports.DiscoverSystemsRequest{
		Organization: profile,
		SystemNames:  event.SystemNames,
	})
	if err != nil {
		return nil, fmt.Errorf("discover systems: %w", err)
	}

	organizationJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode organization context: %w", err)
	}
	inventoryJSON, err := json.Marshal(inventory)
	if err != nil {
		return nil, fmt.Errorf("encode inventory context: %w", err)
	}

	assessment, err := p.assessor.Assess(ctx, ports.AssessmentRequest{
		OrganizationContext:   organizationJSON,
		SystemsContext:        inventoryJSON,
		FocusAreas:            event.FocusAreas,
		GenerateDocumentation: event.GenerateDocumentation,
	})
	if err != nil {
		return nil, fmt.Errorf("assess compliance: %w", err)
	}

	reportKey := p.exportReport(ctx, profile.Organization.Name, event.EventID, assessment)

	completed := domain.AssessmentCompletedEvent{
		EventID:      event.EventID,
		Organization: profile.Organization.Name,
		OverallScore: assessment.Assessment.OverallScore,
		RiskLevel:    assessment.Assessment.RiskLevel,
		ReportPath:   reportKey,
		CompletedAt:  time.Now().UTC(),
	}
	if p.queue != nil {
		if err := p.queue.PublishAssessmentCompleted(ctx, completed); err != nil {
			return nil, fmt.Errorf("publish completion: %w", err)
		}
	}
	return &completed, nil
}

func (p *AssessmentPipeline) exportReport(
	ctx context.Context,
	organization, eventID string,
	assessment *domain.ComplianceAssessmentResponse,
) string {
	if p.renderer == nil || p.reports == nil {
		return ""
	}

	var workbook bytes.Buffer
	if err := p.renderer.Render(*assessment, &workbook); err != nil {
		p.logger.Error("report_render_failed", "organization", organization, "error", err)
		return ""
	}

	key := p.renderer.ReportKey(organization, eventID)
	if err := p.reports.Save(ctx, key, &workbook); err != nil {
		p.logger.Error("report_save_failed", "key", key, "error", err)
		return ""
	}
	return key
}

package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/core/modeljson"
	"github.com/legitima/aiact-agent/internal/core/ports"
)

// Fixed regulatory knowledge embedded in every assessment prompt. Kept as
// one block so prompt content is stable across runs.
const regulatoryKnowledge = `EU AI Act (Regulation (EU) 2024/1689) essentials:
- Four risk tiers, ordered: Unacceptable (Article 5 prohibited practices), High (Article 6 + Annex III), Limited (Article 50 transparency), Minimal.
- High-risk obligations: risk management system (Art 9), data governance (Art 10), technical documentation (Art 11, Annex IV), logging (Art 12), human oversight (Art 14), accuracy and robustness (Art 15), conformity assessment (Art 43), EU declaration of conformity (Art 47), CE marking (Art 48), registration (Art 49), post-market monitoring (Art 72).
- Limited-risk obligations: transparency duties under Article 50.
- Key dates: 2025-08-02 general-purpose AI model obligations, 2026-08-02 high-risk system obligations.`

// Score reconciliation penalties per gap severity, applied to a base of 100
// together with a penalty of up to 20 for the non-compliant system fraction.
const (
	penaltyCritical     = 15
	penaltyHigh         = 10
	penaltyMedium       = 5
	penaltyLow          = 2
	penaltyNonCompliant = 20
)

// ComplianceAssessmentUseCase runs the generative gap analysis: normalize
// caller context, prompt the text generator for a strict JSON assessment,
// parse defensively, then reconcile the model score with a locally computed
// deterministic one.
type ComplianceAssessmentUseCase struct {
	generator  ports.TextGenerator
	classifier ports.SystemClassifier
	gaps       ports.GapGenerator
	logger     *slog.Logger
}

func NewComplianceAssessmentUseCase(
	generator ports.TextGenerator,
	classifier ports.SystemClassifier,
	gaps ports.GapGenerator,
	logger *slog.Logger,
) *ComplianceAssessmentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComplianceAssessmentUseCase{
		generator:  generator,
		classifier: classifier,
		gaps:       gaps,
		logger:     logger,
	}
}

// modelAssessment mirrors the JSON the generator is asked to produce. The
// score is pointer-typed so an omitted score is distinguishable from zero.
type modelAssessment struct {
	OverallScore    *int                    `json:"overallScore"`
	RiskLevel       string                  `json:"riskLevel"`
	Gaps            []domain.GapAnalysis    `json:"gaps"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	Reasoning       string                  `json:"reasoning"`
}

func (uc *ComplianceAssessmentUseCase) Assess(
	ctx context.Context,
	req ports.AssessmentRequest,
) (*domain.ComplianceAssessmentResponse, error) {
	organization := NormalizeOrganizationContext(req.OrganizationContext)
	inventory := NormalizeSystemsContext(req.SystemsContext, uc.classifier, uc.gaps)

	prompt, err := buildAssessmentPrompt(organization, inventory, req.FocusAreas)
	if err != nil {
		return nil, fmt.Errorf("build assessment prompt: %w", err)
	}

	raw, err := uc.generator.GenerateJSONFromPrompt(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate assessment: %w", err)
	}

	var decoded modelAssessment
	if err := modeljson.Decode(raw, &decoded); err != nil {
		return nil, domain.WrapError(domain.ErrUnparsableOutput, "parse assessment", err)
	}

	deterministic := computeDeterministicScore(decoded.Gaps, inventory)
	overall := deterministic
	if decoded.OverallScore != nil {
		overall = clampScore(*decoded.OverallScore)
	}

	riskLevel := strings.TrimSpace(decoded.RiskLevel)
	if riskLevel == "" {
		riskLevel = deriveRiskLevel(inventory, overall)
	}

	response := &domain.ComplianceAssessmentResponse{
		Assessment: domain.Assessment{
			OverallScore:    overall,
			RiskLevel:       riskLevel,
			Gaps:            decoded.Gaps,
			Recommendations: decoded.Recommendations,
			Reasoning:       decoded.Reasoning,
		},
		Metadata: domain.AssessmentMetadata{
			AssessedAt:           time.Now().UTC(),
			OrganizationAssessed: organizationName(organization),
			SystemsAssessed:      systemCount(inventory),
			FocusAreas:           req.FocusAreas,
			DeterministicScore:   deterministic,
		},
	}
	if response.Assessment.Gaps == nil {
		response.Assessment.Gaps = []domain.GapAnalysis{}
	}
	if response.Assessment.Recommendations == nil {
		response.Assessment.Recommendations = []domain.Recommendation{}
	}

	if req.GenerateDocumentation {
		response.Documentation = uc.generateDocumentation(ctx, organization, inventory)
	}

	return response, nil
}

// generateDocumentation runs the optional second prompt. Any failure here
// degrades to a nil documentation map; it never fails the assessment.
func (uc *ComplianceAssessmentUseCase) generateDocumentation(
	ctx context.Context,
	organization *domain.OrganizationProfile,
	inventory *domain.SystemInventoryResponse,
) map[string]string {
	prompt, err := buildDocumentationPrompt(organization, inventory)
	if err != nil {
		uc.logger.Warn("documentation_prompt_failed", "error", err)
		return nil
	}

	raw, err := uc.generator.GenerateJSONFromPrompt(ctx, prompt)
	if err != nil {
		uc.logger.Warn("documentation_generation_degraded", "error", err)
		return nil
	}

	var docs map[string]string
	if err := modeljson.Decode(raw, &docs); err != nil {
		uc.logger.Warn("documentation_parse_degraded", "error", err)
		return nil
	}
	if len(docs) == 0 {
		return nil
	}
	return docs
}

func buildAssessmentPrompt(
	organization *domain.OrganizationProfile,
	inventory *domain.SystemInventoryResponse,
	focusAreas []string,
) (string, error) {
	var builder strings.Builder
	builder.WriteString("You are an EU AI Act compliance analyst. Assess the organization below.\n\n")
	builder.WriteString(regulatoryKnowledge)
	builder.WriteString("\n\nOrganization context:\n")
	if err := writeContextJSON(&builder, organization, "No organization context provided."); err != nil {
		return "", err
	}
	builder.WriteString("\nAI system inventory:\n")
	if err := writeContextJSON(&builder, inventory, "No AI system inventory provided."); err != nil {
		return "", err
	}
	if len(focusAreas) > 0 {
		builder.WriteString("\nFocus the analysis on: ")
		builder.WriteString(strings.Join(focusAreas, ", "))
		builder.WriteString("\n")
	}
	builder.WriteString(`
Respond with exactly one JSON object and nothing else, with keys:
"overallScore" (integer 0-100), "riskLevel" (one of Unacceptable, High, Limited, Minimal),
"gaps" (array of {"severity","category","description","affectedSystems","articleReference","currentState","requiredState","remediationEffort","estimatedCost","deadline"}),
"recommendations" (array of {"priority","title","description","steps","dependencies"}),
"reasoning" (string).`)
	return builder.String(), nil
}

func buildDocumentationPrompt(
	organization *domain.OrganizationProfile,
	inventory *domain.SystemInventoryResponse,
) (string, error) {
	var builder strings.Builder
	builder.WriteString("Draft EU AI Act compliance document templates for the organization below.\n\n")
	builder.WriteString("Organization context:\n")
	if err := writeContextJSON(&builder, organization, "No organization context provided."); err != nil {
		return "", err
	}
	builder.WriteString("\nAI system inventory:\n")
	if err := writeContextJSON(&builder, inventory, "No AI system inventory provided."); err != nil {
		return "", err
	}
	builder.WriteString(`
Respond with exactly one JSON object mapping template names to markdown
documents. Use the keys "technical_documentation", "risk_management_policy"
and "conformity_declaration".`)
	return builder.String(), nil
}

func writeContextJSON(builder *strings.Builder, value any, placeholder string) error {
	if value == nil || isNilPointer(value) {
		builder.WriteString(placeholder)
		builder.WriteString("\n")
		return nil
	}
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prompt context: %w", err)
	}
	builder.Write(encoded)
	builder.WriteString("\n")
	return nil
}

func isNilPointer(value any) bool {
	switch v := value.(type) {
	case *domain.OrganizationProfile:
		return v == nil
	case *domain.SystemInventoryResponse:
		return v == nil
	default:
		return false
	}
}

// computeDeterministicScore starts at 100 and subtracts fixed penalties per
// gap severity plus a penalty proportional to the fraction of non-compliant
// systems. Never negative.
func computeDeterministicScore(gaps []domain.GapAnalysis, inventory *domain.SystemInventoryResponse) int {
	score := 100
	for _, gap := range gaps {
		switch strings.ToUpper(strings.TrimSpace(gap.Severity)) {
		case domain.SeverityCritical:
			score -= penaltyCritical
		case domain.SeverityHigh:
			score -= penaltyHigh
		case domain.SeverityMedium:
			score -= penaltyMedium
		case domain.SeverityLow:
			score -= penaltyLow
		}
	}
	score -= int(penaltyNonCompliant * nonCompliantFraction(inventory))
	return clampScore(score)
}

// nonCompliantFraction counts systems whose gap list carries a CRITICAL or
// HIGH finding.
func nonCompliantFraction(inventory *domain.SystemInventoryResponse) float64 {
	if inventory == nil || len(inventory.Systems) == 0 {
		return 0
	}
	nonCompliant := 0
	for _, sys := range inventory.Systems {
		for _, gap := range sys.ComplianceStatus.Gaps {
			if strings.HasPrefix(gap, domain.SeverityCritical+":") || strings.HasPrefix(gap, domain.SeverityHigh+":") {
				nonCompliant++
				break
			}
		}
	}
	return float64(nonCompliant) / float64(len(inventory.Systems))
}

func deriveRiskLevel(inventory *domain.SystemInventoryResponse, score int) string {
	if inventory != nil && len(inventory.Systems) > 0 {
		highest := domain.RiskMinimal
		for _, sys := range inventory.Systems {
			if sys.RiskClassification.Category.Restrictiveness() > highest.Restrictiveness() {
				highest = sys.RiskClassification.Category
			}
		}
		return string(highest)
	}
	switch {
	case score < 40:
		return string(domain.RiskHigh)
	case score < 70:
		return string(domain.RiskLimited)
	default:
		return string(domain.RiskMinimal)
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func organizationName(organization *domain.OrganizationProfile) string {
	if organization == nil {
		return "Unknown"
	}
	return organization.Organization.Name
}

func systemCount(inventory *domain.SystemInventoryResponse) int {
	if inventory == nil {
		return 0
	}
	return len(inventory.Systems)
}

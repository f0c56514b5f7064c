package classification

import (
	"github.com/legitima/aiact-agent/internal/core/domain"
)

// flagFinding is one High-tier checklist row: emitted when the status flag
// it guards is unset. Rows are scanned in fixed order so the gap list is
// stable.
type flagFinding struct {
	unset   func(domain.ComplianceStatus) bool
	finding string
}

var highTierFlagFindings = []flagFinding{
	{
		unset:   func(s domain.ComplianceStatus) bool { return !s.TechnicalDocumentation },
		finding: "CRITICAL: Technical documentation per Article 11 and Annex IV is missing",
	},
	{
		unset:   func(s domain.ComplianceStatus) bool { return !s.RiskManagementSystem },
		finding: "CRITICAL: Risk management system per Article 9 is not established",
	},
	{
		unset:   func(s domain.ComplianceStatus) bool { return !s.ConformityAssessment },
		finding: "CRITICAL: Conformity assessment per Article 43 has not been performed",
	},
	{
		unset:   func(s domain.ComplianceStatus) bool { return !s.DeclarationOfConformity },
		finding: "HIGH: EU declaration of conformity per Article 47 has not been drawn up",
	},
	{
		unset:   func(s domain.ComplianceStatus) bool { return !s.CEMarking },
		finding: "HIGH: CE marking per Article 48 has not been affixed",
	},
	{
		unset:   func(s domain.ComplianceStatus) bool { return !s.Registration },
		finding: "HIGH: Registration in the EU database per Article 49 is pending",
	},
	{
		unset:   func(s domain.ComplianceStatus) bool { return !s.AutomatedLogging },
		finding: "MEDIUM: Automated event logging per Article 12 is not implemented",
	},
	{
		unset:   func(s domain.ComplianceStatus) bool { return !s.PostMarketMonitoring },
		finding: "MEDIUM: Post-market monitoring plan per Article 72 is not in place",
	},
}

// Qualitative findings emitted for every High-tier system regardless of
// the status flags.
var highTierQualitativeFindings = []string{
	"HIGH: Data governance measures per Article 10 must be documented for training, validation and testing data",
	"HIGH: Human oversight measures per Article 14 must be designed into the system",
	"MEDIUM: Accuracy, robustness and cybersecurity per Article 15 must be demonstrated",
	"MEDIUM: Bias monitoring and mitigation per Article 10(2)(f) must be evidenced",
}

// Fixed Article 50 transparency checklist for Limited-tier systems.
var limitedTierFindings = []string{
	"MEDIUM: Users must be informed that they are interacting with an AI system per Article 50(1)",
	"MEDIUM: AI-generated content must be marked as artificially generated per Article 50(2)",
	"MEDIUM: Deep fake content must carry disclosure per Article 50(4)",
	"MEDIUM: Transparency information must be provided in a clear and distinguishable manner per Article 50(5)",
}

const generalFinding = "GENERAL: Maintain up-to-date compliance documentation and monitor regulatory guidance"

const unacceptableFinding = "CRITICAL: The system implements a prohibited practice under Article 5 and must be withdrawn from the EU market"

// GapGenerator derives the severity-prefixed compliance gap list for a
// classified system. Pure function of the risk tier and the current status
// flags; replaces the profile's gap list in place.
type GapGenerator struct{}

func NewGapGenerator() *GapGenerator {
	return &GapGenerator{}
}

func (g *GapGenerator) Apply(profile *domain.AISystemProfile) {
	if profile == nil {
		return
	}
	status := &profile.ComplianceStatus

	gaps := []string{}
	switch profile.RiskClassification.Category {
	case domain.RiskUnacceptable:
		gaps = append(gaps, unacceptableFinding)
		status.Deadline = "immediate"
		status.EstimatedEffort = "withdrawal and redesign"
	case domain.RiskHigh:
		for _, row := range highTierFlagFindings {
			if row.unset(*status) {
				gaps = append(gaps, row.finding)
			}
		}
		gaps = append(gaps, highTierQualitativeFindings...)
		status.Deadline = "2026-08-02"
		status.EstimatedEffort = "6-12 months"
	case domain.RiskLimited:
		gaps = append(gaps, limitedTierFindings...)
		status.Deadline = "2026-08-02"
		status.EstimatedEffort = "1-3 months"
	default:
		status.Deadline = "ongoing"
		status.EstimatedEffort = "minimal"
	}

	gaps = append(gaps, generalFinding)
	status.Gaps = gaps
}

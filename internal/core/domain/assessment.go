package domain

import "time"

// Gap severities as they appear in assessment records and as prefixes on
// per-system gap strings.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
	SeverityGeneral  = "GENERAL"
)

type GapAnalysis struct {
	Severity          string   `json:"severity"`
	Category          string   `json:"category"`
	Description       string   `json:"description"`
	AffectedSystems   []string `json:"affectedSystems,omitempty"`
	ArticleReference  string   `json:"articleReference,omitempty"`
	CurrentState      string   `json:"currentState,omitempty"`
	RequiredState     string   `json:"requiredState,omitempty"`
	RemediationEffort string   `json:"remediationEffort,omitempty"`
	EstimatedCost     string   `json:"estimatedCost,omitempty"`
	Deadline          string   `json:"deadline,omitempty"`
}

type Recommendation struct {
	Priority     int      `json:"priority"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Steps        []string `json:"steps,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

type Assessment struct {
	OverallScore    int              `json:"overallScore"`
	RiskLevel       string           `json:"riskLevel"`
	Gaps            []GapAnalysis    `json:"gaps"`
	Recommendations []Recommendation `json:"recommendations"`
	Reasoning       string           `json:"reasoning,omitempty"`
}

type AssessmentMetadata struct {
	AssessedAt           time.Time `json:"assessedAt"`
	OrganizationAssessed string    `json:"organizationAssessed"`
	SystemsAssessed      int       `json:"systemsAssessed"`
	FocusAreas           []string  `json:"focusAreas,omitempty"`
	DeterministicScore   int       `json:"deterministicScore"`
}

// ComplianceAssessmentResponse is produced once per assessment call and is
// not persisted. Documentation is nil when template generation was skipped
// or degraded.
type ComplianceAssessmentResponse struct {
	Assessment    Assessment         `json:"assessment"`
	Documentation map[string]string  `json:"documentation,omitempty"`
	Metadata      AssessmentMetadata `json:"metadata"`
}

package domain

import "time"

// AssessmentRequestedEvent asks the worker to run the full pipeline for one
// organization.
type AssessmentRequestedEvent struct {
	EventID               string    `json:"eventId"`
	OrganizationName      string    `json:"organizationName"`
	Domain                string    `json:"domain,omitempty"`
	SystemNames           []string  `json:"systemNames,omitempty"`
	FocusAreas            []string  `json:"focusAreas,omitempty"`
	GenerateDocumentation bool      `json:"generateDocumentation"`
	RequestedAt           time.Time `json:"requestedAt,omitzero"`
}

// AssessmentCompletedEvent announces a finished pipeline run and where the
// exported report landed.
type AssessmentCompletedEvent struct {
	EventID      string    `json:"eventId"`
	Organization string    `json:"organization"`
	OverallScore int       `json:"overallScore"`
	RiskLevel    string    `json:"riskLevel"`
	ReportPath   string    `json:"reportPath,omitempty"`
	CompletedAt  time.Time `json:"completedAt"`
}

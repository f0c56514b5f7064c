package domain

type RiskCategory string

const (
	RiskUnacceptable RiskCategory = "Unacceptable"
	RiskHigh         RiskCategory = "High"
	RiskLimited      RiskCategory = "Limited"
	RiskMinimal      RiskCategory = "Minimal"
)

// Restrictiveness orders the four tiers: Unacceptable > High > Limited > Minimal.
func (c RiskCategory) Restrictiveness() int {
	switch c {
	case RiskUnacceptable:
		return 3
	case RiskHigh:
		return 2
	case RiskLimited:
		return 1
	default:
		return 0
	}
}

func (c RiskCategory) Valid() bool {
	switch c {
	case RiskUnacceptable, RiskHigh, RiskLimited, RiskMinimal:
		return true
	default:
		return false
	}
}

type SystemIdentity struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	IntendedPurpose string `json:"intendedPurpose"`
	Status          string `json:"status"`
}

type RiskClassification struct {
	Category                     RiskCategory `json:"category"`
	Justification                string       `json:"justification"`
	RiskScore                    int          `json:"riskScore"`
	ConformityAssessmentRequired bool         `json:"conformityAssessmentRequired"`
	ConformityAssessmentType     string       `json:"conformityAssessmentType,omitempty"`
	ArticleReference             string       `json:"articleReference"`
}

type TechnicalDetails struct {
	Technology      []string `json:"technology"`
	DataCategories  []string `json:"dataCategories"`
	DeploymentModel string   `json:"deploymentModel"`
	HumanOversight  string   `json:"humanOversight"`
}

type ComplianceStatus struct {
	TechnicalDocumentation  bool     `json:"technicalDocumentation"`
	RiskManagementSystem    bool     `json:"riskManagementSystem"`
	ConformityAssessment    bool     `json:"conformityAssessment"`
	DeclarationOfConformity bool     `json:"declarationOfConformity"`
	CEMarking               bool     `json:"ceMarking"`
	Registration            bool     `json:"registration"`
	AutomatedLogging        bool     `json:"automatedLogging"`
	PostMarketMonitoring    bool     `json:"postMarketMonitoring"`
	Gaps                    []string `json:"gaps"`
	Deadline                string   `json:"deadline"`
	EstimatedEffort         string   `json:"estimatedEffort"`
}

// AISystemProfile is created per discovered system. The gap list is filled
// in by the gap generator after classification, never before.
type AISystemProfile struct {
	System             SystemIdentity     `json:"system"`
	RiskClassification RiskClassification `json:"riskClassification"`
	TechnicalDetails   TechnicalDetails   `json:"technicalDetails"`
	ComplianceStatus   ComplianceStatus   `json:"complianceStatus"`
}

type RiskSummary struct {
	UnacceptableRiskCount int `json:"unacceptableRiskCount"`
	HighRiskCount         int `json:"highRiskCount"`
	LimitedRiskCount      int `json:"limitedRiskCount"`
	MinimalRiskCount      int `json:"minimalRiskCount"`
}

type SystemInventoryResponse struct {
	Systems     []AISystemProfile `json:"systems"`
	RiskSummary RiskSummary       `json:"riskSummary"`
	Metadata    DiscoveryMetadata `json:"metadata"`
}

// Summarize recounts systems per tier.
func (r *SystemInventoryResponse) Summarize() {
	summary := RiskSummary{}
	for _, sys := range r.Systems {
		switch sys.RiskClassification.Category {
		case RiskUnacceptable:
			summary.UnacceptableRiskCount++
		case RiskHigh:
			summary.HighRiskCount++
		case RiskLimited:
			summary.LimitedRiskCount++
		default:
			summary.MinimalRiskCount++
		}
	}
	r.RiskSummary = summary
}

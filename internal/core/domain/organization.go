package domain

import "time"

type OrganizationSize string

const (
	SizeStartup    OrganizationSize = "Startup"
	SizeSME        OrganizationSize = "SME"
	SizeEnterprise OrganizationSize = "Enterprise"
)

type AIMaturity string

const (
	MaturityNascent    AIMaturity = "Nascent"
	MaturityDeveloping AIMaturity = "Developing"
	MaturityMature     AIMaturity = "Mature"
	MaturityLeader     AIMaturity = "Leader"
)

// Data sources recorded in discovery metadata. "fallback-mock" marks
// profiles built without a reachable search service.
const (
	DataSourceSearch   = "tavily-search"
	DataSourceFallback = "fallback-mock"
)

type Organization struct {
	Name               string           `json:"name"`
	RegistrationNumber string           `json:"registrationNumber,omitempty"`
	Sector             string           `json:"sector"`
	Size               OrganizationSize `json:"size"`
	Jurisdiction       []string         `json:"jurisdiction"`
	EUPresence         bool             `json:"euPresence"`
	Headquarters       Location         `json:"headquarters"`
	Contact            Contact          `json:"contact"`
	AIMaturityLevel    AIMaturity       `json:"aiMaturityLevel"`
	PrimaryRole        string           `json:"primaryRole"`
}

type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

type Contact struct {
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

type ComplianceDeadline struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

type RegulatoryContext struct {
	ApplicableFrameworks    []string             `json:"applicableFrameworks"`
	ComplianceDeadlines     []ComplianceDeadline `json:"complianceDeadlines"`
	Certifications          []string             `json:"certifications"`
	QualityManagementSystem bool                 `json:"qualityManagementSystem"`
	RiskManagementSystem    bool                 `json:"riskManagementSystem"`
}

// DiscoveryMetadata travels with every discovery response so callers can
// tell real research results from degraded fallback data.
type DiscoveryMetadata struct {
	DiscoveredAt      time.Time `json:"discoveredAt"`
	DataSource        string    `json:"dataSource"`
	CompletenessScore int       `json:"completenessScore"`
}

// DefaultComplianceDeadlines lists the Act's phased application dates
// attached to every profile.
func DefaultComplianceDeadlines() []ComplianceDeadline {
	return []ComplianceDeadline{
		{Date: "2025-08-02", Description: "General-purpose AI model obligations apply"},
		{Date: "2026-08-02", Description: "High-risk AI system obligations apply"},
	}
}

// OrganizationProfile is built once per discovery request and never merged
// across requests.
type OrganizationProfile struct {
	Organization      Organization      `json:"organization"`
	RegulatoryContext RegulatoryContext `json:"regulatoryContext"`
	Metadata          DiscoveryMetadata `json:"metadata"`
}

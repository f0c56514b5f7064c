package usecase

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/core/ports"
)

// Normalization default table for simplified organization shapes:
// size=SME, aiMaturityLevel=Developing, jurisdiction=["EU"], euPresence=true,
// primaryRole=Provider, sector=Technology, headquarters=Unknown/Unknown.
// A full-schema context passes through untouched.

type simplifiedOrganization struct {
	Name    string `json:"name"`
	Sector  string `json:"sector"`
	Size    string `json:"size"`
	Country string `json:"country"`
	Website string `json:"website"`
}

// NormalizeOrganizationContext accepts either a full OrganizationProfile or
// a simplified caller shape and always returns a schema-complete profile.
// Empty input yields nil, which downstream prompting treats as "context not
// provided".
func NormalizeOrganizationContext(raw json.RawMessage) *domain.OrganizationProfile {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}

	if _, ok := probe["organization"]; ok {
		var full domain.OrganizationProfile
		if err := json.Unmarshal(raw, &full); err == nil && full.Organization.Name != "" {
			return &full
		}
	}

	var simplified simplifiedOrganization
	if err := json.Unmarshal(raw, &simplified); err != nil {
		return nil
	}
	name := strings.TrimSpace(simplified.Name)
	if name == "" {
		return nil
	}

	sector := strings.TrimSpace(simplified.Sector)
	if sector == "" {
		sector = "Technology"
	}
	size := domain.OrganizationSize(strings.TrimSpace(simplified.Size))
	switch size {
	case domain.SizeStartup, domain.SizeSME, domain.SizeEnterprise:
	default:
		size = domain.SizeSME
	}
	country := strings.TrimSpace(simplified.Country)
	if country == "" {
		country = "Unknown"
	}

	contact := domain.Contact{Website: strings.TrimSpace(simplified.Website)}
	applyContactDefaults(&contact, "")

	return &domain.OrganizationProfile{
		Organization: domain.Organization{
			Name:            name,
			Sector:          sector,
			Size:            size,
			Jurisdiction:    []string{"EU"},
			EUPresence:      true,
			Headquarters:    domain.Location{Country: country, City: "Unknown"},
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
			DataSource:        "caller-supplied",
			CompletenessScore: 25,
		},
	}
}

type simplifiedSystem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// NormalizeSystemsContext accepts a full SystemInventoryResponse, an array
// of system names, or an array of {name, description} objects. Simplified
// systems are classified and gap-filled so the normalized inventory is
// indistinguishable from a discovered one.
func NormalizeSystemsContext(
	raw json.RawMessage,
	classifier ports.SystemClassifier,
	gaps ports.GapGenerator,
) *domain.SystemInventoryResponse {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var full domain.SystemInventoryResponse
		if err := json.Unmarshal(raw, &full); err == nil && fullInventory(full) {
			return &full
		}
		// An object without classified systems may still carry a systems
		// array in a simplified shape.
		var wrapper struct {
			Systems json.RawMessage `json:"systems"`
		}
		if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Systems) > 0 {
			return NormalizeSystemsContext(wrapper.Systems, classifier, gaps)
		}
		return nil
	}

	entries := decodeSimplifiedSystems(raw)
	if len(entries) == 0 {
		return nil
	}

	systems := make([]domain.AISystemProfile, 0, len(entries))
	for _, entry := range entries {
		status := strings.TrimSpace(entry.Status)
		if status == "" {
			status = "production"
		}
		classification := classifier.Classify(entry.Description, entry.Name)
		profile := buildSystemProfile(entry.Name, entry.Description, status, classification)
		gaps.Apply(&profile)
		systems = append(systems, profile)
	}

	response := &domain.SystemInventoryResponse{
		Systems: systems,
		Metadata: domain.DiscoveryMetadata{
			DiscoveredAt:      time.Now().UTC(),
			DataSource:        "caller-supplied",
			CompletenessScore: inventoryCompleteness(systems),
		},
	}
	response.Summarize()
	return response
}

func fullInventory(inv domain.SystemInventoryResponse) bool {
	if len(inv.Systems) == 0 {
		return false
	}
	for _, sys := range inv.Systems {
		if !sys.RiskClassification.Category.Valid() {
			return false
		}
	}
	return true
}

func decodeSimplifiedSystems(raw json.RawMessage) []simplifiedSystem {
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		entries := make([]simplifiedSystem, 0, len(names))
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				entries = append(entries, simplifiedSystem{Name: trimmed})
			}
		}
		return entries
	}

	var objects []simplifiedSystem
	if err := json.Unmarshal(raw, &objects); err != nil {
		return nil
	}
	entries := make([]simplifiedSystem, 0, len(objects))
	for _, obj := range objects {
		obj.Name = strings.TrimSpace(obj.Name)
		if obj.Name == "" {
			continue
		}
		entries = append(entries, obj)
	}
	return entries
}

package classification

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/legitima/aiact-agent/internal/core/domain"
)

// Taxonomy holds the classification tables plus the domain-resolver
// extras. Empty sections fall back to the built-in defaults, so an
// override file only needs the rows it changes. BrandDomains and
// NoiseHosts are merged into the resolver's built-in tables at wiring
// time rather than replacing them.
type Taxonomy struct {
	Archetypes   []Archetype          `yaml:"archetypes"`
	Prohibited   []ProhibitedPractice `yaml:"prohibited"`
	BrandDomains map[string]string    `yaml:"brand_domains"`
	NoiseHosts   []string             `yaml:"noise_hosts"`
}

func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Archetypes: defaultArchetypes(),
		Prohibited: defaultProhibited(),
	}
}

// LoadTaxonomy reads an override file. Path "" means built-in defaults.
func LoadTaxonomy(path string) (Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("read taxonomy file: %w", err)
	}
	var taxonomy Taxonomy
	if err := yaml.Unmarshal(raw, &taxonomy); err != nil {
		return Taxonomy{}, fmt.Errorf("parse taxonomy yaml: %w", err)
	}
	if err := taxonomy.validate(); err != nil {
		return Taxonomy{}, err
	}
	if len(taxonomy.Archetypes) == 0 {
		taxonomy.Archetypes = defaultArchetypes()
	}
	if len(taxonomy.Prohibited) == 0 {
		taxonomy.Prohibited = defaultProhibited()
	}
	return taxonomy, nil
}

func (t Taxonomy) validate() error {
	for _, archetype := range t.Archetypes {
		if archetype.Name == "" {
			return fmt.Errorf("taxonomy: archetype without name")
		}
		if len(archetype.Keywords) == 0 {
			return fmt.Errorf("taxonomy: archetype %q has no keywords", archetype.Name)
		}
		if !archetype.Tier.Valid() {
			return fmt.Errorf("taxonomy: archetype %q has invalid tier %q", archetype.Name, archetype.Tier)
		}
		if archetype.Tier == domain.RiskUnacceptable {
			return fmt.Errorf("taxonomy: archetype %q may not target the Unacceptable tier; use a prohibited practice", archetype.Name)
		}
	}
	for _, practice := range t.Prohibited {
		if practice.Name == "" || len(practice.Keywords) == 0 {
			return fmt.Errorf("taxonomy: prohibited practice needs name and keywords")
		}
	}
	return nil
}

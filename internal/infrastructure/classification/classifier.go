package classification

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/legitima/aiact-agent/internal/core/domain"
)

// Fixed score bands per tier.
const (
	ScoreUnacceptable = 100
	ScoreHigh         = 85
	ScoreLimited      = 25
	ScoreMinimal      = 10
)

// Archetype is one recognizable class of AI system, pre-bound to a risk
// tier and a canonical citation. Archetypes are scanned in fixed order.
type Archetype struct {
	Name          string              `yaml:"name"`
	Keywords      []string            `yaml:"keywords"`
	Tier          domain.RiskCategory `yaml:"tier"`
	Citation      string              `yaml:"citation"`
	Justification string              `yaml:"justification"`
}

// ProhibitedPractice flags Article 5 practices; checked before archetypes
// so the Unacceptable tier is reachable.
type ProhibitedPractice struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Citation string   `yaml:"citation"`
}

func defaultProhibited() []ProhibitedPractice {
	return []ProhibitedPractice{
		{
			Name:     "social-scoring",
			Keywords: []string{"social scoring", "social credit"},
			Citation: "Article 5(1)(c)",
		},
		{
			Name:     "manipulation",
			Keywords: []string{"subliminal", "manipulative technique", "exploits vulnerabilities"},
			Citation: "Article 5(1)(a)",
		},
		{
			Name:     "untargeted-scraping",
			Keywords: []string{"untargeted scraping", "indiscriminate facial image scraping"},
			Citation: "Article 5(1)(e)",
		},
	}
}

func defaultArchetypes() []Archetype {
	return []Archetype{
		{
			Name:          "recruitment",
			Keywords:      []string{"recruit", "hiring", "resume", "cv screening", "candidate ranking", "candidate"},
			Tier:          domain.RiskHigh,
			Citation:      "Annex III, point 4: Employment and workers management",
			Justification: "The system is used for recruitment or selection of natural persons and falls under Annex III, point 4.",
		},
		{
			Name:          "healthcare",
			Keywords:      []string{"medical", "diagnosis", "patient", "triage", "clinical decision"},
			Tier:          domain.RiskHigh,
			Citation:      "Annex III, point 5: Access to essential services (healthcare)",
			Justification: "The system influences access to or delivery of healthcare and falls under Annex III, point 5.",
		},
		{
			Name:          "credit-scoring",
			Keywords:      []string{"credit scor", "creditworthiness", "loan approval", "lending decision"},
			Tier:          domain.RiskHigh,
			Citation:      "Annex III, point 5(b): Creditworthiness evaluation",
			Justification: "The system evaluates creditworthiness of natural persons and falls under Annex III, point 5(b).",
		},
		{
			Name:          "biometric",
			Keywords:      []string{"biometric", "facial recognition", "face recognition", "fingerprint", "iris scan"},
			Tier:          domain.RiskHigh,
			Citation:      "Annex III, point 1: Biometric identification and categorisation",
			Justification: "The system performs biometric identification or categorisation and falls under Annex III, point 1.",
		},
		{
			Name:          "fraud-detection",
			Keywords:      []string{"fraud detection", "fraud prevention", "anti-money laundering", "transaction monitoring"},
			Tier:          domain.RiskHigh,
			Citation:      "Annex III, point 5: Access to essential private services",
			Justification: "The system screens natural persons in the context of essential financial services and falls under Annex III, point 5.",
		},
		{
			Name:          "chatbot",
			Keywords:      []string{"chatbot", "conversational assistant", "virtual assistant", "customer support bot"},
			Tier:          domain.RiskLimited,
			Citation:      "Article 50: Transparency obligations",
			Justification: "The system interacts directly with natural persons; transparency obligations under Article 50 apply.",
		},
		{
			Name:          "recommendation",
			Keywords:      []string{"recommendation engine", "recommender", "personalization", "content ranking"},
			Tier:          domain.RiskMinimal,
			Citation:      "Article 6: Classification rules (out of Annex III scope)",
			Justification: "Recommendation systems outside Annex III use cases carry minimal regulatory risk under the Act.",
		},
		{
			Name:          "language-processing",
			Keywords:      []string{"text summarization", "translation", "sentiment analysis", "language processing", "nlp pipeline"},
			Tier:          domain.RiskMinimal,
			Citation:      "Article 6: Classification rules (out of Annex III scope)",
			Justification: "General language-processing utilities outside Annex III use cases carry minimal regulatory risk under the Act.",
		},
	}
}

// nameInference maps caller-declared system names to tiers when no
// archetype matched the description. Rules marked wholeWord only match a
// complete word of the name; short tokens like "hr" must not fire on
// incidental substrings ("Threat Detection").
var nameInference = []struct {
	substr    string
	wholeWord bool
	tier      domain.RiskCategory
	citation  string
}{
	{"recruit", false, domain.RiskHigh, "Annex III, point 4: Employment and workers management"},
	{"hr", true, domain.RiskHigh, "Annex III, point 4: Employment and workers management"},
	{"credit", false, domain.RiskHigh, "Annex III, point 5(b): Creditworthiness evaluation"},
	{"medical", false, domain.RiskHigh, "Annex III, point 5: Access to essential services (healthcare)"},
	{"chat", false, domain.RiskLimited, "Article 50: Transparency obligations"},
	{"assistant", false, domain.RiskLimited, "Article 50: Transparency obligations"},
	{"recommend", false, domain.RiskMinimal, "Article 6: Classification rules"},
}

// Classifier maps system descriptions to one of the four risk tiers using
// the archetype dispatch table. Classification never fails: unmatched
// systems default to Minimal (an explicit, logged policy: novel high-risk
// systems outside the archetype table will be under-classified and need
// manual review).
type Classifier struct {
	archetypes []Archetype
	prohibited []ProhibitedPractice
	logger     *slog.Logger
}

func NewClassifier(taxonomy Taxonomy, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	archetypes := taxonomy.Archetypes
	if len(archetypes) == 0 {
		archetypes = defaultArchetypes()
	}
	prohibited := taxonomy.Prohibited
	if len(prohibited) == 0 {
		prohibited = defaultProhibited()
	}
	return &Classifier{archetypes: archetypes, prohibited: prohibited, logger: logger}
}

func (c *Classifier) Classify(description, declaredName string) domain.RiskClassification {
	corpus := strings.ToLower(description)

	for _, practice := range c.prohibited {
		if containsAny(corpus, practice.Keywords) {
			return domain.RiskClassification{
				Category:         domain.RiskUnacceptable,
				RiskScore:        ScoreUnacceptable,
				ArticleReference: practice.Citation,
				Justification: fmt.Sprintf(
					"The described practice (%s) is prohibited under %s and may not be placed on the EU market.",
					practice.Name, practice.Citation,
				),
			}
		}
	}

	for _, archetype := range c.archetypes {
		if containsAny(corpus, archetype.Keywords) {
			return classificationForTier(archetype.Tier, archetype.Citation, archetype.Justification)
		}
	}

	if inferred, ok := c.inferFromName(declaredName); ok {
		return inferred
	}

	c.logger.Info("classification_defaulted",
		"declared_name", declaredName,
		"description_len", len(description),
	)
	return classificationForTier(
		domain.RiskMinimal,
		"Article 6: Classification rules",
		"No archetype or prohibited practice matched; defaulted to Minimal risk. "+
			"Novel systems outside the archetype taxonomy may be under-classified and should be reviewed manually.",
	)
}

func (c *Classifier) inferFromName(declaredName string) (domain.RiskClassification, bool) {
	name := strings.ToLower(strings.TrimSpace(declaredName))
	if name == "" {
		return domain.RiskClassification{}, false
	}
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, rule := range nameInference {
		matched := strings.Contains(name, rule.substr)
		if rule.wholeWord {
			matched = slices.Contains(words, rule.substr)
		}
		if matched {
			cls := classificationForTier(rule.tier, rule.citation, fmt.Sprintf(
				"Inferred from the declared system name %q (matched %q); no description archetype applied.",
				declaredName, rule.substr,
			))
			return cls, true
		}
	}
	return domain.RiskClassification{}, false
}

func classificationForTier(tier domain.RiskCategory, citation, justification string) domain.RiskClassification {
	cls := domain.RiskClassification{
		Category:         tier,
		Justification:    justification,
		ArticleReference: citation,
	}
	switch tier {
	case domain.RiskUnacceptable:
		cls.RiskScore = ScoreUnacceptable
	case domain.RiskHigh:
		cls.RiskScore = ScoreHigh
		cls.ConformityAssessmentRequired = true
		cls.ConformityAssessmentType = "Internal control (Annex VI) or notified body (Annex VII)"
	case domain.RiskLimited:
		cls.RiskScore = ScoreLimited
	default:
		cls.Category = domain.RiskMinimal
		cls.RiskScore = ScoreMinimal
	}
	return cls
}

func containsAny(corpus string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(corpus, keyword) {
			return true
		}
	}
	return false
}

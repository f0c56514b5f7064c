package extraction

import (
	"regexp"
	"strings"
	"time"

	"github.com/legitima/aiact-agent/internal/core/domain"
)

// Engine extracts structured organization attributes from free-text search
// output. Every probe is independent and order-insensitive; a miss yields a
// named default, never an error.
type Engine struct {
	observer ProbeObserver
}

func NewEngine(observer ProbeObserver) *Engine {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Engine{observer: observer}
}

const unknownValue = "Unknown"

var (
	registrationPattern = regexp.MustCompile(`(?:registration|company|commercial register|reg)\s*(?:no|number|id)[.:#\s]+([a-z]{0,4}\s?\d[\da-z\s-]{3,14}\d)`)
	emailPattern        = regexp.MustCompile(`[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	phonePattern        = regexp.MustCompile(`\+\d[\d\s().-]{7,18}\d`)
	cityPattern         = regexp.MustCompile(`(?:headquartered in|headquarters in|based in|head office in)\s+([a-z][a-z .'-]{1,40})`)
	employeesPattern    = regexp.MustCompile(`([\d,]{2,9})\s*\+?\s*(?:employees|staff|people)`)
)

// sectorBuckets is scanned in priority order; the first bucket with any
// keyword present wins. Technology is the default bucket.
var sectorBuckets = []struct {
	name     string
	keywords []string
}{
	{"Healthcare", []string{"healthcare", "hospital", "medical", "pharma", "clinical", "biotech"}},
	{"Finance", []string{"bank", "fintech", "insurance", "financial services", "asset management", "payments"}},
	{"Manufacturing", []string{"manufactur", "factory", "industrial", "automotive", "aerospace"}},
	{"Retail", []string{"retail", "e-commerce", "ecommerce", "consumer goods", "marketplace"}},
	{"Education", []string{"education", "university", "edtech", "learning platform"}},
	{"Transportation", []string{"logistics", "transport", "mobility", "airline", "shipping"}},
	{"Energy", []string{"energy", "utility", "utilities", "renewable", "oil and gas"}},
	{"Legal", []string{"law firm", "legaltech", "legal services"}},
	{"Technology", []string{"software", "saas", "technology", "cloud", "it services", "artificial intelligence"}},
}

var euMemberStates = []string{
	"austria", "belgium", "bulgaria", "croatia", "cyprus", "czech republic",
	"denmark", "estonia", "finland", "france", "germany", "greece", "hungary",
	"ireland", "italy", "latvia", "lithuania", "luxembourg", "malta",
	"netherlands", "poland", "portugal", "romania", "slovakia", "slovenia",
	"spain", "sweden",
}

var euPresenceKeywords = []string{"european union", "eu market", "eu presence", "eu customers", "offices in europe"}

var otherCountries = []string{
	"united states", "united kingdom", "switzerland", "norway", "canada",
	"australia", "japan", "china", "india", "brazil", "israel", "singapore",
	"south korea",
}

var certificationCatalog = []struct {
	name     string
	keywords []string
}{
	{"ISO 27001", []string{"iso 27001", "iso/iec 27001"}},
	{"ISO 9001", []string{"iso 9001"}},
	{"ISO 42001", []string{"iso 42001", "iso/iec 42001"}},
	{"SOC 2", []string{"soc 2", "soc2"}},
	{"GDPR", []string{"gdpr compliant", "gdpr-compliant", "gdpr certified"}},
}

func (e *Engine) BuildProfile(orgName string, search domain.SearchResponse) *domain.OrganizationProfile {
	corpus := buildCorpus(search)

	org := domain.Organization{
		Name:            strings.TrimSpace(orgName),
		Sector:          unknownValue,
		Size:            domain.SizeSME,
		Jurisdiction:    []string{},
		AIMaturityLevel: domain.MaturityDeveloping,
		PrimaryRole:     "Provider",
		Headquarters:    domain.Location{Country: unknownValue, City: unknownValue},
	}
	regulatory := domain.RegulatoryContext{
		ApplicableFrameworks: []string{"EU AI Act"},
		Certifications:       []string{},
		ComplianceDeadlines:  domain.DefaultComplianceDeadlines(),
	}

	matched := 0
	total := 0
	probe := func(field string, ok bool) bool {
		total++
		if ok {
			matched++
		}
		e.observer.ProbeResult(field, ok)
		return ok
	}

	if reg := firstGroup(registrationPattern, corpus); probe("registration_number", reg != "") {
		org.RegistrationNumber = strings.ToUpper(collapseSpaces(reg))
	}
	if country := findCountry(corpus); probe("country", country != "") {
		org.Headquarters.Country = titleCase(country)
	}
	if city := firstGroup(cityPattern, corpus); probe("city", city != "") {
		org.Headquarters.City = titleCase(strings.TrimSpace(strings.SplitN(city, ",", 2)[0]))
	}
	if email := emailPattern.FindString(corpus); probe("email", email != "") {
		org.Contact.Email = email
	}
	if phone := phonePattern.FindString(corpus); probe("phone", phone != "") {
		org.Contact.Phone = collapseSpaces(phone)
	}

	sector, sectorMatched := matchSector(corpus)
	probe("sector", sectorMatched)
	org.Sector = sector

	euPresence := detectEUPresence(corpus)
	probe("eu_presence", euPresence)
	org.EUPresence = euPresence
	if euPresence {
		org.Jurisdiction = append(org.Jurisdiction, "EU")
		regulatory.ApplicableFrameworks = append(regulatory.ApplicableFrameworks, "GDPR")
	}
	if org.Headquarters.Country != unknownValue && !isEUMember(org.Headquarters.Country) {
		org.Jurisdiction = append(org.Jurisdiction, org.Headquarters.Country)
	}

	size, sizeMatched := matchSize(corpus)
	probe("size", sizeMatched)
	org.Size = size

	maturity, maturityMatched := matchMaturity(corpus)
	probe("ai_maturity", maturityMatched)
	org.AIMaturityLevel = maturity

	certs := matchCertifications(corpus)
	probe("certifications", len(certs) > 0)
	regulatory.Certifications = certs

	qms := containsAny(corpus, []string{"quality management system", "iso 9001", "qms"})
	probe("quality_management_system", qms)
	regulatory.QualityManagementSystem = qms

	rms := containsAny(corpus, []string{"risk management system", "iso 31000", "enterprise risk management"})
	probe("risk_management_system", rms)
	regulatory.RiskManagementSystem = rms

	if containsAny(corpus, []string{"deploys ai", "uses ai", "ai-powered operations", "adopted ai tools"}) &&
		!containsAny(corpus, []string{"develops ai", "ai products", "ai platform", "ai vendor"}) {
		org.PrimaryRole = "Deployer"
	}

	completeness := 0
	if total > 0 {
		completeness = matched * 100 / total
	}

	return &domain.OrganizationProfile{
		Organization:      org,
		RegulatoryContext: regulatory,
		Metadata: domain.DiscoveryMetadata{
			DiscoveredAt:      time.Now().UTC(),
			DataSource:        domain.DataSourceSearch,
			CompletenessScore: completeness,
		},
	}
}

func buildCorpus(search domain.SearchResponse) string {
	var builder strings.Builder
	builder.WriteString(search.Answer)
	for _, result := range search.Results {
		builder.WriteString("\n")
		builder.WriteString(result.Title)
		builder.WriteString("\n")
		builder.WriteString(result.Content)
	}
	return strings.ToLower(builder.String())
}

func matchSector(corpus string) (string, bool) {
	for _, bucket := range sectorBuckets {
		if containsAny(corpus, bucket.keywords) {
			return bucket.name, true
		}
	}
	return "Technology", false
}

func detectEUPresence(corpus string) bool {
	if containsAny(corpus, euPresenceKeywords) {
		return true
	}
	// Any number of member-state mentions collapses to one boolean.
	for _, state := range euMemberStates {
		if strings.Contains(corpus, state) {
			return true
		}
	}
	return false
}

func findCountry(corpus string) string {
	for _, state := range euMemberStates {
		if strings.Contains(corpus, state) {
			return state
		}
	}
	for _, country := range otherCountries {
		if strings.Contains(corpus, country) {
			return country
		}
	}
	return ""
}

func isEUMember(country string) bool {
	lowered := strings.ToLower(country)
	for _, state := range euMemberStates {
		if state == lowered {
			return true
		}
	}
	return false
}

func matchSize(corpus string) (domain.OrganizationSize, bool) {
	if containsAny(corpus, []string{"fortune 500", "multinational", "global enterprise", "publicly traded", "large enterprise"}) {
		return domain.SizeEnterprise, true
	}
	if containsAny(corpus, []string{"startup", "early-stage", "seed round", "series a"}) {
		return domain.SizeStartup, true
	}
	if raw := firstGroup(employeesPattern, corpus); raw != "" {
		count := parseCount(raw)
		switch {
		case count >= 250:
			return domain.SizeEnterprise, true
		case count >= 50:
			return domain.SizeSME, true
		case count > 0:
			return domain.SizeStartup, true
		}
	}
	return domain.SizeSME, false
}

func matchMaturity(corpus string) (domain.AIMaturity, bool) {
	if containsAny(corpus, []string{"ai-first", "ai research lab", "foundation model", "leading ai company"}) {
		return domain.MaturityLeader, true
	}
	if containsAny(corpus, []string{"ai in production", "deployed machine learning", "ml platform", "mlops"}) {
		return domain.MaturityMature, true
	}
	if containsAny(corpus, []string{"exploring ai", "no ai", "beginning to adopt ai", "evaluating ai"}) {
		return domain.MaturityNascent, true
	}
	if containsAny(corpus, []string{"adopting ai", "ai pilot", "piloting ai", "machine learning", "artificial intelligence"}) {
		return domain.MaturityDeveloping, true
	}
	return domain.MaturityDeveloping, false
}

func matchCertifications(corpus string) []string {
	certs := []string{}
	for _, entry := range certificationCatalog {
		if containsAny(corpus, entry.keywords) {
			certs = append(certs, entry.name)
		}
	}
	return certs
}

func containsAny(corpus string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(corpus, keyword) {
			return true
		}
	}
	return false
}

func firstGroup(pattern *regexp.Regexp, corpus string) string {
	match := pattern.FindStringSubmatch(corpus)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func parseCount(raw string) int {
	cleaned := strings.ReplaceAll(raw, ",", "")
	count := 0
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return count
		}
		count = count*10 + int(r-'0')
	}
	return count
}

func collapseSpaces(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func titleCase(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	for i, word := range words {
		if word == "of" || word == "and" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

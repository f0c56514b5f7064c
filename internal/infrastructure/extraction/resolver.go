package extraction

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/legitima/aiact-agent/internal/core/domain"
)

// Resolver picks the most likely official web domain for an organization.
// Three ordered passes, first match wins: brand table, official/about URLs,
// any remaining non-noise hostname. Resolution is pure and idempotent.
type Resolver struct {
	brandDomains map[string]string
	noiseHosts   []string
}

type ResolverOption func(*Resolver)

// WithBrandDomains merges extra name→domain entries over the built-ins.
func WithBrandDomains(extra map[string]string) ResolverOption {
	return func(r *Resolver) {
		for name, dom := range extra {
			r.brandDomains[strings.ToLower(strings.TrimSpace(name))] = strings.ToLower(strings.TrimSpace(dom))
		}
	}
}

// WithNoiseHosts appends extra aggregator hosts to skip.
func WithNoiseHosts(extra []string) ResolverOption {
	return func(r *Resolver) {
		for _, host := range extra {
			if trimmed := strings.ToLower(strings.TrimSpace(host)); trimmed != "" {
				r.noiseHosts = append(r.noiseHosts, trimmed)
			}
		}
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	resolver := &Resolver{
		brandDomains: defaultBrandDomains(),
		noiseHosts:   defaultNoiseHosts(),
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

func defaultBrandDomains() map[string]string {
	return map[string]string{
		"ibm":        "ibm.com",
		"microsoft":  "microsoft.com",
		"google":     "google.com",
		"openai":     "openai.com",
		"sap":        "sap.com",
		"siemens":    "siemens.com",
		"bosch":      "bosch.com",
		"philips":    "philips.com",
		"airbus":     "airbus.com",
		"spotify":    "spotify.com",
		"zalando":    "zalando.com",
		"salesforce": "salesforce.com",
	}
}

func defaultNoiseHosts() []string {
	return []string{
		"linkedin.com", "facebook.com", "twitter.com", "x.com",
		"instagram.com", "youtube.com", "wikipedia.org", "crunchbase.com",
		"bloomberg.com", "reuters.com", "glassdoor.com", "indeed.com",
		"medium.com", "github.com", "news.ycombinator.com",
	}
}

func (r *Resolver) Resolve(orgName string, search domain.SearchResponse) string {
	name := strings.ToLower(strings.TrimSpace(orgName))
	if name == "" && search.Empty() {
		return ""
	}

	if dom := r.lookupBrand(name); dom != "" {
		return dom
	}
	if dom := r.officialResult(search.Results); dom != "" {
		return dom
	}
	return r.anyCleanResult(search.Results)
}

func (r *Resolver) lookupBrand(name string) string {
	if name == "" {
		return ""
	}
	if dom, ok := r.brandDomains[name]; ok {
		return dom
	}
	// Sorted scan keeps substring matches deterministic.
	brands := make([]string, 0, len(r.brandDomains))
	for brand := range r.brandDomains {
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	for _, brand := range brands {
		if strings.Contains(name, brand) || strings.Contains(brand, name) {
			return r.brandDomains[brand]
		}
	}
	return ""
}

func (r *Resolver) officialResult(results []domain.SearchResult) string {
	for _, result := range results {
		host := hostname(result.URL)
		if host == "" || r.isNoise(host) {
			continue
		}
		title := result.Title
		if title == "" {
			title = sniffHTMLTitle(result.Content)
		}
		haystack := strings.ToLower(title + " " + result.URL)
		if strings.Contains(haystack, "official") || strings.Contains(haystack, "about") {
			return host
		}
	}
	return ""
}

func (r *Resolver) anyCleanResult(results []domain.SearchResult) string {
	for _, result := range results {
		host := hostname(result.URL)
		if host != "" && !r.isNoise(host) {
			return host
		}
	}
	return ""
}

func (r *Resolver) isNoise(host string) bool {
	for _, noise := range r.noiseHosts {
		if host == noise || strings.HasSuffix(host, "."+noise) {
			return true
		}
	}
	return false
}

func hostname(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// sniffHTMLTitle pulls the <title> element out of HTML-shaped snippet
// content. Plain-text snippets yield an empty title.
func sniffHTMLTitle(content string) string {
	if !strings.Contains(content, "<") {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}
	var title string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if title != "" {
			return
		}
		if node.Type == html.ElementNode && node.Data == "title" && node.FirstChild != nil {
			title = strings.TrimSpace(node.FirstChild.Data)
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return title
}

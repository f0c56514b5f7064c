package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/core/ports"
)

// Discovery scopes accepted by DiscoverSystems. Unknown scopes are logged
// and widened to ScopeAll; malformed caller input is never an error.
const (
	ScopeAll            = "all"
	ScopeHighRiskOnly   = "high-risk-only"
	ScopeProductionOnly = "production-only"
)

// SystemDiscoveryUseCase builds an AI-system inventory: one search per
// declared system (or one generic inventory search), classification, then
// gap generation, always in that order.
type SystemDiscoveryUseCase struct {
	search     ports.SearchService
	classifier ports.SystemClassifier
	gaps       ports.GapGenerator
	maxResults int
	logger     *slog.Logger
}

func NewSystemDiscoveryUseCase(
	search ports.SearchService,
	classifier ports.SystemClassifier,
	gaps ports.GapGenerator,
	maxResults int,
	logger *slog.Logger,
) *SystemDiscoveryUseCase {
	if maxResults <= 0 {
		maxResults = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemDiscoveryUseCase{
		search:     search,
		classifier: classifier,
		gaps:       gaps,
		maxResults: maxResults,
		logger:     logger,
	}
}

func (uc *SystemDiscoveryUseCase) DiscoverSystems(
	ctx context.Context,
	req ports.DiscoverSystemsRequest,
) (*domain.SystemInventoryResponse, error) {
	orgName := ""
	if req.Organization != nil {
		orgName = strings.TrimSpace(req.Organization.Organization.Name)
	}

	var (
		systems    []domain.AISystemProfile
		dataSource = domain.DataSourceSearch
	)
	declared := trimmedNames(req.SystemNames)
	if len(declared) > 0 {
		systems, dataSource = uc.discoverDeclared(ctx, orgName, declared, req.Context)
	} else {
		systems, dataSource = uc.discoverGeneric(ctx, orgName, req.Context)
	}

	for i := range systems {
		uc.gaps.Apply(&systems[i])
	}

	systems = filterByScope(systems, uc.normalizeScope(req.Scope))

	response := &domain.SystemInventoryResponse{
		Systems: systems,
		Metadata: domain.DiscoveryMetadata{
			DiscoveredAt:      time.Now().UTC(),
			DataSource:        dataSource,
			CompletenessScore: inventoryCompleteness(systems),
		},
	}
	response.Summarize()
	return response, nil
}

// discoverDeclared researches each caller-declared system by name. A failed
// search degrades that system to name-only classification; if every search
// failed, the whole inventory is marked as fallback data.
func (uc *SystemDiscoveryUseCase) discoverDeclared(
	ctx context.Context,
	orgName string,
	names []string,
	callerContext string,
) ([]domain.AISystemProfile, string) {
	systems := make([]domain.AISystemProfile, 0, len(names))
	failures := 0
	for _, name := range names {
		query := buildSystemQuery(orgName, name, callerContext)
		description := ""
		search, err := uc.search.Search(ctx, query, uc.maxResults)
		if err != nil {
			failures++
			uc.logger.Warn("system_search_degraded", "system", name, "error", err)
		} else {
			description = searchDigest(search)
		}

		classification := uc.classifier.Classify(description, name)
		systems = append(systems, buildSystemProfile(name, description, "production", classification))
	}

	dataSource := domain.DataSourceSearch
	if failures == len(names) {
		dataSource = domain.DataSourceFallback
	}
	return systems, dataSource
}

// discoverGeneric runs one inventory search and treats each result as a
// candidate system. An unreachable search service yields the static
// fallback system set.
func (uc *SystemDiscoveryUseCase) discoverGeneric(
	ctx context.Context,
	orgName, callerContext string,
) ([]domain.AISystemProfile, string) {
	query := buildSystemQuery(orgName, "", callerContext)
	search, err := uc.search.Search(ctx, query, uc.maxResults)
	if err != nil || search.Empty() {
		if err != nil {
			uc.logger.Warn("system_search_degraded", "organization", orgName, "error", err)
		}
		return uc.fallbackSystems(), domain.DataSourceFallback
	}

	systems := make([]domain.AISystemProfile, 0, len(search.Results))
	for _, result := range search.Results {
		if len(systems) >= uc.maxResults {
			break
		}
		name := strings.TrimSpace(result.Title)
		if name == "" {
			name = "Unnamed AI system"
		}
		description := strings.TrimSpace(result.Content)
		classification := uc.classifier.Classify(description+" "+search.Answer, name)
		systems = append(systems, buildSystemProfile(name, description, "identified", classification))
	}
	if len(systems) == 0 {
		return uc.fallbackSystems(), domain.DataSourceFallback
	}
	return systems, domain.DataSourceSearch
}

// fallbackSystems is the static set served when no search data exists. It
// still runs through the classifier so scores and citations stay
// consistent with live classification.
func (uc *SystemDiscoveryUseCase) fallbackSystems() []domain.AISystemProfile {
	entries := []struct {
		name        string
		description string
		status      string
	}{
		{
			name:        "Customer Support Chatbot",
			description: "Customer-facing chatbot answering support questions through a conversational assistant interface",
			status:      "production",
		},
		{
			name:        "Product Recommendation Engine",
			description: "Recommendation engine ranking products for returning customers based on purchase history",
			status:      "pilot",
		},
	}

	systems := make([]domain.AISystemProfile, 0, len(entries))
	for _, entry := range entries {
		classification := uc.classifier.Classify(entry.description, entry.name)
		systems = append(systems, buildSystemProfile(entry.name, entry.description, entry.status, classification))
	}
	return systems
}

func (uc *SystemDiscoveryUseCase) normalizeScope(scope string) string {
	switch strings.TrimSpace(scope) {
	case "", ScopeAll:
		return ScopeAll
	case ScopeHighRiskOnly, ScopeProductionOnly:
		return scope
	default:
		uc.logger.Warn("unknown_discovery_scope", "scope", scope)
		return ScopeAll
	}
}

func buildSystemProfile(name, description, status string, classification domain.RiskClassification) domain.AISystemProfile {
	purpose := description
	if purpose == "" {
		purpose = fmt.Sprintf("Declared AI system %q pending detailed review", name)
	}
	if len(purpose) > 200 {
		// The cut may land inside a multi-byte rune; drop the partial tail.
		purpose = strings.ToValidUTF8(purpose[:200], "")
	}

	oversight := "Human oversight on escalation"
	if classification.Category.Restrictiveness() >= domain.RiskHigh.Restrictiveness() {
		oversight = "Human-in-the-loop review required before decisions take effect"
	}

	return domain.AISystemProfile{
		System: domain.SystemIdentity{
			ID:              uuid.NewString(),
			Name:            name,
			Description:     description,
			IntendedPurpose: purpose,
			Status:          status,
		},
		RiskClassification: classification,
		TechnicalDetails: domain.TechnicalDetails{
			Technology:      []string{"machine learning"},
			DataCategories:  []string{"operational data"},
			DeploymentModel: "cloud",
			HumanOversight:  oversight,
		},
	}
}

func filterByScope(systems []domain.AISystemProfile, scope string) []domain.AISystemProfile {
	if scope == ScopeAll {
		return systems
	}
	filtered := make([]domain.AISystemProfile, 0, len(systems))
	for _, sys := range systems {
		switch scope {
		case ScopeHighRiskOnly:
			if sys.RiskClassification.Category.Restrictiveness() >= domain.RiskHigh.Restrictiveness() {
				filtered = append(filtered, sys)
			}
		case ScopeProductionOnly:
			if sys.System.Status == "production" {
				filtered = append(filtered, sys)
			}
		}
	}
	return filtered
}

func buildSystemQuery(orgName, systemName, callerContext string) string {
	parts := []string{}
	if orgName != "" {
		parts = append(parts, orgName)
	}
	if systemName != "" {
		parts = append(parts, fmt.Sprintf("%q AI system purpose description", systemName))
	} else {
		parts = append(parts, "AI systems machine learning products automation use cases")
	}
	if extra := strings.TrimSpace(callerContext); extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, " ")
}

// searchDigest folds a search response into one description string.
func searchDigest(search domain.SearchResponse) string {
	parts := []string{}
	if search.Answer != "" {
		parts = append(parts, search.Answer)
	}
	for i, result := range search.Results {
		if i >= 2 {
			break
		}
		if content := strings.TrimSpace(result.Content); content != "" {
			parts = append(parts, content)
		}
	}
	return strings.Join(parts, " ")
}

func trimmedNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func inventoryCompleteness(systems []domain.AISystemProfile) int {
	if len(systems) == 0 {
		return 0
	}
	described := 0
	for _, sys := range systems {
		if sys.System.Description != "" {
			described++
		}
	}
	return described * 100 / len(systems)
}

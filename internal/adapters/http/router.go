// Package httpadapter exposes the compliance pipeline over HTTP: the three
// tool endpoints, asynchronous assessment submission, and report download.
package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/core/ports"
	"github.com/legitima/aiact-agent/internal/core/usecase"
	"github.com/legitima/aiact-agent/internal/observability/metrics"
)

type Router struct {
	organizations ports.OrganizationDiscoverer
	systems       ports.SystemDiscoverer
	assessor      ports.ComplianceAssessor
	reports       ports.ReportStorage
	queue         ports.AssessmentQueue
	metrics       *metrics.HTTPServerMetrics
	traffic       TrafficControl
	logger        *slog.Logger
}

func NewRouter(
	organizations ports.OrganizationDiscoverer,
	systems ports.SystemDiscoverer,
	assessor ports.ComplianceAssessor,
	reports ports.ReportStorage,
	queue ports.AssessmentQueue,
	serverMetrics *metrics.HTTPServerMetrics,
	traffic TrafficControl,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		organizations: organizations,
		systems:       systems,
		assessor:      assessor,
		reports:       reports,
		queue:         queue,
		metrics:       serverMetrics,
		traffic:       traffic,
		logger:        logger,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/tools/discover_organization", rt.discoverOrganization)
	mux.HandleFunc("/v1/tools/discover_ai_systems", rt.discoverAISystems)
	mux.HandleFunc("/v1/tools/assess_compliance", rt.assessCompliance)
	mux.HandleFunc("/v1/assessments", rt.submitAssessment)
	mux.HandleFunc("/v1/reports/", rt.downloadReport)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	if rt.traffic.MaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.traffic.MaxInFlight, rt.traffic.OverloadTimeout)
	}
	if rt.traffic.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.traffic.RateLimitRPS, rt.traffic.RateLimitBurst)
	}
	return requestIDMiddleware(accessLogMiddleware(rt.logger, handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) discoverOrganization(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req struct {
		OrganizationName string `json:"organization_name"`
		Domain           string `json:"domain"`
		Context          string `json:"context"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	start := time.Now()
	profile, err := rt.organizations.DiscoverOrganization(r.Context(), ports.DiscoverOrganizationRequest{
		OrganizationName: req.OrganizationName,
		Domain:           req.Domain,
		Context:          req.Context,
	})
	rt.recordStage("discover_organization", start, err)
	if err != nil {
		rt.writeError(w, r, "discover organization", err)
		return
	}
	if rt.metrics != nil && profile.Metadata.DataSource == domain.DataSourceFallback {
		rt.metrics.RecordFallback("api", "discover_organization")
	}

	writeJSON(w, http.StatusOK, profile)
}

func (rt *Router) discoverAISystems(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req struct {
		OrganizationContext json.RawMessage `json:"organization_context"`
		SystemNames         []string        `json:"system_names"`
		Scope               string          `json:"scope"`
		Context             string          `json:"context"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	start := time.Now()
	inventory, err := rt.systems.DiscoverSystems(r.Context(), ports.DiscoverSystemsRequest{
		Organization: usecase.NormalizeOrganizationContext(req.OrganizationContext),
		SystemNames:  req.SystemNames,
		Scope:        req.Scope,
		Context:      req.Context,
	})
	rt.recordStage("discover_ai_systems", start, err)
	if err != nil {
		rt.writeError(w, r, "discover ai systems", err)
		return
	}
	if rt.metrics != nil {
		for _, sys := range inventory.Systems {
			rt.metrics.RecordClassification("api", string(sys.RiskClassification.Category))
		}
		if inventory.Metadata.DataSource == domain.DataSourceFallback {
			rt.metrics.RecordFallback("api", "discover_ai_systems")
		}
	}

	writeJSON(w, http.StatusOK, inventory)
}

func (rt *Router) assessCompliance(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req struct {
		OrganizationContext   json.RawMessage `json:"organization_context"`
		AIServicesContext     json.RawMessage `json:"ai_services_context"`
		FocusAreas            []string        `json:"focus_areas"`
		GenerateDocumentation bool            `json:"generate_documentation"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	start := time.Now()
	assessment, err := rt.assessor.Assess(r.Context(), ports.AssessmentRequest{
		OrganizationContext:   req.OrganizationContext,
		SystemsContext:        req.AIServicesContext,
		FocusAreas:            req.FocusAreas,
		GenerateDocumentation: req.GenerateDocumentation,
	})
	rt.recordStage("assess_compliance", start, err)
	if err != nil {
		rt.writeError(w, r, "assess compliance", err)
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

// submitAssessment enqueues a full pipeline run for the worker and returns
// the event id the completion event will carry.
func (rt *Router) submitAssessment(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if rt.queue == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "assessment queue is not configured"})
		return
	}

	var req struct {
		OrganizationName      string   `json:"organization_name"`
		Domain                string   `json:"domain"`
		SystemNames           []string `json:"system_names"`
		FocusAreas            []string `json:"focus_areas"`
		GenerateDocumentation bool     `json:"generate_documentation"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.OrganizationName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "organization_name is required"})
		return
	}

	event := domain.AssessmentRequestedEvent{
		EventID:               uuid.NewString(),
		OrganizationName:      req.OrganizationName,
		Domain:                req.Domain,
		SystemNames:           req.SystemNames,
		FocusAreas:            req.FocusAreas,
		GenerateDocumentation: req.GenerateDocumentation,
		RequestedAt:           time.Now().UTC(),
	}
	if err := rt.queue.PublishAssessmentRequested(r.Context(), event); err != nil {
		rt.writeError(w, r, "publish assessment request", err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"eventId": event.EventID})
}

func (rt *Router) downloadReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/v1/reports/")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "report key is required"})
		return
	}

	report, err := rt.reports.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
			return
		}
		rt.writeError(w, r, "open report", err)
		return
	}
	defer report.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+key+`"`)
	if _, err := io.Copy(w, report); err != nil {
		rt.logger.Warn("report_download_interrupted", "key", key, "error", err)
	}
}

func (rt *Router) recordStage(stage string, start time.Time, err error) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordStageRun("api", stage, time.Since(start), err)
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		rt.logger.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"operation", operation,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

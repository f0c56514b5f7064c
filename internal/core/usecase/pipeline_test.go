package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/core/ports"
)

type stubOrganizations struct {
	profile *domain.OrganizationProfile
	err     error
}

func (s *stubOrganizations) DiscoverOrganization(context.Context, ports.DiscoverOrganizationRequest) (*domain.OrganizationProfile, error) {
	return s.profile, s.err
}

type stubSystems struct {
	inventory *domain.SystemInventoryResponse
	lastReq   ports.DiscoverSystemsRequest
}

func (s *stubSystems) DiscoverSystems(_ context.Context, req ports.DiscoverSystemsRequest) (*domain.SystemInventoryResponse, error) {
	s.lastReq = req
	return s.inventory, nil
}

type stubAssessor struct {
	response *domain.ComplianceAssessmentResponse
	lastReq  ports.AssessmentRequest
}

func (s *stubAssessor) Assess(_ context.Context, req ports.AssessmentRequest) (*domain.ComplianceAssessmentResponse, error) {
	s.lastReq = req
	return s.response, nil
}

type stubRenderer struct {
	renderErr error
	rendered  int
}

func (s *stubRenderer) Render(_ domain.ComplianceAssessmentResponse, w io.Writer) error {
	if s.renderErr != nil {
		return s.renderErr
	}
	s.rendered++
	_, err := w.Write([]byte("workbook"))
	return err
}

func (s *stubRenderer) ReportKey(organization, eventID string) string {
	return "assessment-" + organization + "-" + eventID + ".xlsx"
}

type stubReports struct {
	saved map[string][]byte
}

func (s *stubReports) Save(_ context.Context, key string, data io.Reader) error {
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[key] = content
	return nil
}

func (s *stubReports) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

type stubQueue struct {
	completed []domain.AssessmentCompletedEvent
}

func (s *stubQueue) PublishAssessmentRequested(context.Context, domain.AssessmentRequestedEvent) error {
	return nil
}

func (s *stubQueue) SubscribeAssessmentRequested(context.Context, func(context.Context, domain.AssessmentRequestedEvent) error) error {
	return nil
}

func (s *stubQueue) PublishAssessmentCompleted(_ context.Context, event domain.AssessmentCompletedEvent) error {
	s.completed = append(s.completed, event)
	return nil
}

func newPipelineFixture() (*AssessmentPipeline, *stubSystems, *stubAssessor, *stubRenderer, *stubReports, *stubQueue) {
	organizations := &stubOrganizations{profile: &domain.OrganizationProfile{
		Organization: domain.Organization{Name: "Acme"},
	}}
	systems := &stubSystems{inventory: &domain.SystemInventoryResponse{
		Systems: []domain.AISystemProfile{{System: domain.SystemIdentity{Name: "Chatbot"}}},
	}}
	assessor := &stubAssessor{response: &domain.ComplianceAssessmentResponse{
		Assessment: domain.Assessment{OverallScore: 70, RiskLevel: "Limited"},
	}}
	renderer := &stubRenderer{}
	reports := &stubReports{}
	queue := &stubQueue{}
	pipeline := NewAssessmentPipeline(organizations, systems, assessor, renderer, reports, queue, nil)
	return pipeline, systems, assessor, renderer, reports, queue
}

func TestPipelineRunsFullFlow(t *testing.T) {
	pipeline, systems, assessor, _, reports, queue := newPipelineFixture()

	completed, err := pipeline.Run(context.Background(), domain.AssessmentRequestedEvent{
		EventID:               "evt-1",
		OrganizationName:      "Acme",
		SystemNames:           []string{"Chatbot"},
		GenerateDocumentation: true,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if systems.lastReq.Organization == nil || systems.lastReq.Organization.Organization.Name != "Acme" {
		t.Fatalf("system discovery missed organization profile: %+v", systems.lastReq)
	}
	if !json.Valid(assessor.lastReq.OrganizationContext) || !json.Valid(assessor.lastReq.SystemsContext) {
		t.Fatal("assessment contexts are not valid JSON")
	}
	if !assessor.lastReq.GenerateDocumentation {
		t.Fatal("documentation flag not forwarded")
	}

	wantKey := "assessment-Acme-evt-1.xlsx"
	if string(reports.saved[wantKey]) != "workbook" {
		t.Fatalf("report not saved under %q: %v", wantKey, reports.saved)
	}

	if len(queue.completed) != 1 {
		t.Fatalf("completion events = %d", len(queue.completed))
	}
	event := queue.completed[0]
	if event.EventID != "evt-1" || event.Organization != "Acme" {
		t.Fatalf("completion event = %+v", event)
	}
	if event.OverallScore != 70 || event.RiskLevel != "Limited" {
		t.Fatalf("completion scores = %+v", event)
	}
	if event.ReportPath != wantKey {
		t.Fatalf("report path = %q", event.ReportPath)
	}
	if completed.ReportPath != wantKey {
		t.Fatalf("returned event report path = %q", completed.ReportPath)
	}
}

func TestPipelineDegradesWhenExportFails(t *testing.T) {
	pipeline, _, _, renderer, reports, queue := newPipelineFixture()
	renderer.renderErr = errors.New("workbook exploded")

	completed, err := pipeline.Run(context.Background(), domain.AssessmentRequestedEvent{
		EventID:          "evt-2",
		OrganizationName: "Acme",
	})
	if err != nil {
		t.Fatalf("Run() error = %v, export failure must not abort", err)
	}
	if completed.ReportPath != "" {
		t.Fatalf("report path = %q, want empty", completed.ReportPath)
	}
	if len(reports.saved) != 0 {
		t.Fatalf("unexpected saved reports: %v", reports.saved)
	}
	if len(queue.completed) != 1 {
		t.Fatalf("completion events = %d", len(queue.completed))
	}
}

func TestPipelineAbortsOnDiscoveryError(t *testing.T) {
	organizations := &stubOrganizations{err: errors.New("search unreachable and fallback disabled")}
	queue := &stubQueue{}
	pipeline := NewAssessmentPipeline(organizations, &stubSystems{}, &stubAssessor{}, &stubRenderer{}, &stubReports{}, queue, nil)

	if _, err := pipeline.Run(context.Background(), domain.AssessmentRequestedEvent{EventID: "evt-3"}); err == nil {
		t.Fatal("expected discovery error to propagate")
	}
	if len(queue.completed) != 0 {
		t.Fatalf("completion events = %d, want none", len(queue.completed))
	}
}

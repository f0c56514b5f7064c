package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/legitima/aiact-agent/internal/core/domain"
)

func sampleAssessment() domain.ComplianceAssessmentResponse {
	return domain.ComplianceAssessmentResponse{
		Assessment: domain.Assessment{
			OverallScore: 62,
			RiskLevel:    "High",
			Gaps: []domain.GapAnalysis{
				{
					Severity:          domain.SeverityCritical,
					Category:          "Documentation",
					Description:       "Technical documentation missing",
					AffectedSystems:   []string{"HR Screening"},
					ArticleReference:  "Article 11",
					RemediationEffort: "3 months",
					Deadline:          "2026-08-02",
				},
			},
			Recommendations: []domain.Recommendation{
				{
					Priority:    1,
					Title:       "Establish documentation process",
					Description: "Create Annex IV technical documentation",
					Steps:       []string{"Inventory systems", "Draft templates"},
				},
			},
		},
		Metadata: domain.AssessmentMetadata{
			AssessedAt:           time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			OrganizationAssessed: "Acme Medical",
			SystemsAssessed:      2,
			FocusAreas:           []string{"documentation"},
			DeterministicScore:   60,
		},
	}
}

func TestRenderWorkbookSheets(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter().Render(sampleAssessment(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Summary", "Gaps", "Recommendations"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("missing sheet %s (idx=%d, err=%v)", sheet, idx, err)
		}
	}
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx >= 0 {
		t.Fatal("default sheet should have been removed")
	}

	org, err := f.GetCellValue("Summary", "B1")
	if err != nil || org != "Acme Medical" {
		t.Fatalf("Summary!B1 = %q, err=%v", org, err)
	}
	score, err := f.GetCellValue("Summary", "B4")
	if err != nil || score != "62" {
		t.Fatalf("Summary!B4 = %q, err=%v", score, err)
	}

	severity, err := f.GetCellValue("Gaps", "A2")
	if err != nil || severity != "CRITICAL" {
		t.Fatalf("Gaps!A2 = %q, err=%v", severity, err)
	}
	article, err := f.GetCellValue("Gaps", "E2")
	if err != nil || article != "Article 11" {
		t.Fatalf("Gaps!E2 = %q, err=%v", article, err)
	}

	title, err := f.GetCellValue("Recommendations", "B2")
	if err != nil || title != "Establish documentation process" {
		t.Fatalf("Recommendations!B2 = %q, err=%v", title, err)
	}
}

func TestReportKey(t *testing.T) {
	cases := []struct {
		organization string
		eventID      string
		want         string
	}{
		{"Acme Medical", "ev1", "assessment-acme-medical-ev1.xlsx"},
		{"Acme Medical", "", "assessment-acme-medical.xlsx"},
		{"  ", "ev2", "assessment-organization-ev2.xlsx"},
	}
	for _, tc := range cases {
		if got := ReportKey(tc.organization, tc.eventID); got != tc.want {
			t.Fatalf("ReportKey(%q, %q) = %q, want %q", tc.organization, tc.eventID, got, tc.want)
		}
	}
}

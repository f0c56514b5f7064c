// Package excel renders a compliance assessment as an XLSX workbook
// with Summary, Gaps and Recommendations sheets.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/legitima/aiact-agent/internal/core/domain"
)

const (
	sheetSummary         = "Summary"
	sheetGaps            = "Gaps"
	sheetRecommendations = "Recommendations"
)

type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ReportKey(organization, eventID string) string {
	return ReportKey(organization, eventID)
}

// Render writes the workbook to w.
func (e *Exporter) Render(assessment domain.ComplianceAssessmentResponse, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSummary(f, assessment); err != nil {
		return err
	}
	if err := e.writeGaps(f, assessment.Assessment.Gaps); err != nil {
		return err
	}
	if err := e.writeRecommendations(f, assessment.Assessment.Recommendations); err != nil {
		return err
	}

	// Drop the implicit default sheet after our sheets exist.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(sheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (e *Exporter) writeSummary(f *excelize.File, assessment domain.ComplianceAssessmentResponse) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	rows := [][]any{
		{"Organization", assessment.Metadata.OrganizationAssessed},
		{"Assessed At", assessment.Metadata.AssessedAt},
		{"Systems Assessed", assessment.Metadata.SystemsAssessed},
		{"Overall Score", assessment.Assessment.OverallScore},
		{"Deterministic Score", assessment.Metadata.DeterministicScore},
		{"Risk Level", assessment.Assessment.RiskLevel},
		{"Focus Areas", strings.Join(assessment.Metadata.FocusAreas, ", ")},
		{"Open Gaps", len(assessment.Assessment.Gaps)},
		{"Recommendations", len(assessment.Assessment.Recommendations)},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func (e *Exporter) writeGaps(f *excelize.File, gaps []domain.GapAnalysis) error {
	if _, err := f.NewSheet(sheetGaps); err != nil {
		return fmt.Errorf("create gaps sheet: %w", err)
	}

	header := []any{"Severity", "Category", "Description", "Affected Systems", "Article", "Current State", "Required State", "Effort", "Deadline"}
	if err := f.SetSheetRow(sheetGaps, "A1", &header); err != nil {
		return fmt.Errorf("write gaps header: %w", err)
	}
	for i, gap := range gaps {
		row := []any{
			gap.Severity,
			gap.Category,
			gap.Description,
			strings.Join(gap.AffectedSystems, ", "),
			gap.ArticleReference,
			gap.CurrentState,
			gap.RequiredState,
			gap.RemediationEffort,
			gap.Deadline,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetGaps, cell, &row); err != nil {
			return fmt.Errorf("write gap row %d: %w", i+2, err)
		}
	}
	return nil
}

func (e *Exporter) writeRecommendations(f *excelize.File, recommendations []domain.Recommendation) error {
	if _, err := f.NewSheet(sheetRecommendations); err != nil {
		return fmt.Errorf("create recommendations sheet: %w", err)
	}

	header := []any{"Priority", "Title", "Description", "Steps", "Dependencies"}
	if err := f.SetSheetRow(sheetRecommendations, "A1", &header); err != nil {
		return fmt.Errorf("write recommendations header: %w", err)
	}
	for i, rec := range recommendations {
		row := []any{
			rec.Priority,
			rec.Title,
			rec.Description,
			strings.Join(rec.Steps, "; "),
			strings.Join(rec.Dependencies, ", "),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetRecommendations, cell, &row); err != nil {
			return fmt.Errorf("write recommendation row %d: %w", i+2, err)
		}
	}
	return nil
}

// ReportKey derives a stable workbook file name from the organization.
func ReportKey(organization, eventID string) string {
	slug := strings.ToLower(strings.TrimSpace(organization))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "organization"
	}
	if eventID != "" {
		return fmt.Sprintf("assessment-%s-%s.xlsx", slug, eventID)
	}
	return fmt.Sprintf("assessment-%s.xlsx", slug)
}

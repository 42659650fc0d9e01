package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"careerpath-agent/internal/models"
)

// WriteExcel generates the career plan workbook and writes it to w.
// Sheets: Summary (score, critique, analysis), Job Matches, Sources.
func WriteExcel(w io.Writer, profile models.UserProfile, criteria models.JobSearchCriteria, advice models.CareerAdvice) error {
	f, err := buildWorkbook(profile, criteria, advice)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel workbook: %w", err)
	}
	return nil
}

// ExportToExcel generates the career plan workbook and saves it to
// outputPath, appending the .xlsx extension if missing.
func ExportToExcel(profile models.UserProfile, criteria models.JobSearchCriteria, advice models.CareerAdvice, outputPath string) error {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	// Clean the path for cross-platform compatibility (Windows paths)
	outputPath = filepath.Clean(outputPath)

	f, err := buildWorkbook(profile, criteria, advice)
	if err != nil {
		return err
	}
	defer f.Close()

	// Try to save the file directly
	if err := f.SaveAs(outputPath); err != nil {
		// If direct save fails, try buffer write fallback
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}

		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}

	return nil
}

func buildWorkbook(profile models.UserProfile, criteria models.JobSearchCriteria, advice models.CareerAdvice) (*excelize.File, error) {
	f := excelize.NewFile()

	summarySheet := "Summary"
	jobsSheet := "Job Matches"
	sourcesSheet := "Sources"

	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(jobsSheet)
	f.NewSheet(sourcesSheet)

	if err := createSummarySheet(f, summarySheet, profile, criteria, advice); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := createJobsSheet(f, jobsSheet, advice.Jobs); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create job matches sheet: %w", err)
	}

	if err := createSourcesSheet(f, sourcesSheet, advice.GroundingURLs); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sources sheet: %w", err)
	}

	return f, nil
}

// createSummarySheet creates the summary sheet with the score, critique
// and analysis sections
func createSummarySheet(f *excelize.File, sheetName string, profile models.UserProfile, criteria models.JobSearchCriteria, advice models.CareerAdvice) error {
	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 90)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	row := 1

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Career Plan Report")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	entries := []struct {
		label string
		value interface{}
	}{
		{"Candidate:", profile.FullName},
		{"Target Role:", criteria.TargetJobTitle},
		{"Target Country:", criteria.TargetCountry},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Resume Score (0-10):", advice.ResumeScore},
		{"Recommended Role:", advice.RecommendedRoleTitle},
		{"Executive Summary:", advice.ExecutiveSummary},
		{"Resume Critique:", advice.ResumeCritique},
		{"Skill Gap Analysis:", advice.SkillGapAnalysis},
		{"Improvement Suggestions:", advice.ImprovementSuggestion},
	}

	for _, entry := range entries {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), entry.label)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), entry.value)
		row++
	}

	return nil
}

// createJobsSheet creates the ranked job matches sheet
func createJobsSheet(f *excelize.File, sheetName string, jobs []models.JobListing) error {
	f.SetColWidth(sheetName, "A", "A", 35)
	f.SetColWidth(sheetName, "B", "C", 25)
	f.SetColWidth(sheetName, "D", "D", 18)
	f.SetColWidth(sheetName, "E", "E", 60)
	f.SetColWidth(sheetName, "F", "F", 12)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	headers := []string{"Title", "Company", "Location", "Platform", "URL", "Match"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, job := range jobs {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), job.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), job.Company)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), job.Location)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), job.Platform)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), job.URL)
		if job.MatchScore > 0 {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), job.MatchScore)
		}
	}

	return nil
}

// createSourcesSheet lists the grounding citations from the job search
func createSourcesSheet(f *excelize.File, sheetName string, sources []models.GroundingSource) error {
	f.SetColWidth(sheetName, "A", "A", 45)
	f.SetColWidth(sheetName, "B", "B", 80)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Title")
	f.SetCellValue(sheetName, "B1", "URI")
	f.SetCellStyle(sheetName, "A1", "B1", headerStyle)

	for i, source := range sources {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), source.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), source.URI)
	}

	return nil
}

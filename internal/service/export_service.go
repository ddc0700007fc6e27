package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/campushub/college-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportService renders attendance and result reports as CSV or PDF.
type ExportService struct {
	students   *StudentService
	attendance *AttendanceService
	results    *ResultService
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(students *StudentService, attendance *AttendanceService, results *ResultService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students:   students,
		attendance: attendance,
		results:    results,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

// AttendanceReport renders one student's per-subject attendance rollup.
func (s *ExportService) AttendanceReport(ctx context.Context, studentID string, format ExportFormat) ([]byte, string, error) {
	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, "", err
	}
	stats, err := s.attendance.Stats(ctx, studentID)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"subject", "total_classes", "attended_classes", "percentage"},
	}
	for _, subject := range stats.Subjects {
		data.Rows = append(data.Rows, map[string]string{
			"subject":          subject.Subject,
			"total_classes":    strconv.Itoa(subject.TotalClasses),
			"attended_classes": strconv.Itoa(subject.AttendedClasses),
			"percentage":       fmt.Sprintf("%.2f", subject.Percentage),
		})
	}
	data.Rows = append(data.Rows, map[string]string{
		"subject":          "OVERALL",
		"total_classes":    strconv.Itoa(stats.Overall.TotalClasses),
		"attended_classes": strconv.Itoa(stats.Overall.AttendedClasses),
		"percentage":       fmt.Sprintf("%.2f", stats.Overall.AveragePercentage),
	})

	title := fmt.Sprintf("Attendance Report - %s (%s)", student.Name, student.USN)
	return s.render(data, title, format)
}

// ResultReport renders one student's semester summaries.
func (s *ExportService) ResultReport(ctx context.Context, studentID string, format ExportFormat) ([]byte, string, error) {
	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, "", err
	}
	summaries, err := s.results.SemesterSummaries(ctx, studentID)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"semester", "subject", "average_percentage", "overall_percentage", "cgpa"},
	}
	for _, sem := range summaries {
		for _, subject := range sem.Subjects {
			data.Rows = append(data.Rows, map[string]string{
				"semester":           strconv.Itoa(sem.Semester),
				"subject":            subject.Subject,
				"average_percentage": fmt.Sprintf("%.2f", subject.AveragePercentage),
				"overall_percentage": fmt.Sprintf("%.2f", sem.OverallPercentage),
				"cgpa":               fmt.Sprintf("%.2f", sem.CGPA),
			})
		}
	}

	title := fmt.Sprintf("Result Report - %s (%s)", student.Name, student.USN)
	return s.render(data, title, format)
}

func (s *ExportService) render(data export.Dataset, title string, format ExportFormat) ([]byte, string, error) {
	switch format {
	case ExportCSV:
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", fmt.Errorf("render csv: %w", err)
		}
		return payload, "text/csv", nil
	case ExportPDF:
		payload, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, "", fmt.Errorf("render pdf: %w", err)
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
}

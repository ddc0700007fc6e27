package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushub/college-api/internal/service"
	"github.com/campushub/college-api/pkg/response"
)

// ReportHandler serves downloadable attendance and result reports.
type ReportHandler struct {
	exports *service.ExportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(exports *service.ExportService) *ReportHandler {
	return &ReportHandler{exports: exports}
}

// AttendanceReport godoc
// @Summary Download a student's attendance report
// @Description Per-subject attendance rollup as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/students/{id}/attendance [get]
func (h *ReportHandler) AttendanceReport(c *gin.Context) {
	format := exportFormat(c)
	payload, contentType, err := h.exports.AttendanceReport(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	serveAttachment(c, payload, contentType, fmt.Sprintf("attendance-%s.%s", time.Now().Format("2006-01-02"), format))
}

// ResultReport godoc
// @Summary Download a student's result report
// @Description Semester result summaries as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/students/{id}/results [get]
func (h *ReportHandler) ResultReport(c *gin.Context) {
	format := exportFormat(c)
	payload, contentType, err := h.exports.ResultReport(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	serveAttachment(c, payload, contentType, fmt.Sprintf("results-%s.%s", time.Now().Format("2006-01-02"), format))
}

func exportFormat(c *gin.Context) service.ExportFormat {
	if raw := c.Query("format"); raw != "" {
		return service.ExportFormat(raw)
	}
	return service.ExportCSV
}

func serveAttachment(c *gin.Context, payload []byte, contentType, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

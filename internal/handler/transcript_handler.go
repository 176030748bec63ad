package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadops/registrar-api/internal/service"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
	"github.com/acadops/registrar-api/pkg/response"
)

// TranscriptHandler exposes transcript and public lookup endpoints.
type TranscriptHandler struct {
	transcripts *service.TranscriptService
}

// NewTranscriptHandler constructs TranscriptHandler.
func NewTranscriptHandler(transcripts *service.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{transcripts: transcripts}
}

// Get godoc
// @Summary Build a student's semester transcript
// @Tags Transcripts
// @Produce json
// @Param studentId path string true "Student ID"
// @Param semesterId path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/semesters/{semesterId}/transcript [get]
func (h *TranscriptHandler) Get(c *gin.Context) {
	transcript, err := h.transcripts.Build(c.Request.Context(), c.Param("id"), c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transcript, nil)
}

// Export godoc
// @Summary Export a semester transcript as CSV or PDF
// @Tags Transcripts
// @Produce octet-stream
// @Param studentId path string true "Student ID"
// @Param semesterId path string true "Semester ID"
// @Param format query string false "csv or pdf" default(pdf)
// @Success 200 {file} binary
// @Router /students/{id}/semesters/{semesterId}/transcript/export [get]
func (h *TranscriptHandler) Export(c *gin.Context) {
	studentID := c.Param("id")
	semesterID := c.Param("semesterId")

	switch c.DefaultQuery("format", "pdf") {
	case "csv":
		data, err := h.transcripts.ExportCSV(c.Request.Context(), studentID, semesterID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=transcript-%s.csv", semesterID))
		c.Data(http.StatusOK, "text/csv", data)
	case "pdf":
		data, err := h.transcripts.ExportPDF(c.Request.Context(), studentID, semesterID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=transcript-%s.pdf", semesterID))
		c.Data(http.StatusOK, "application/pdf", data)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

// PublicLookup godoc
// @Summary Look up results by CNIC
// @Tags Public
// @Produce json
// @Param cnic query string true "CNIC in NNNNN-NNNNNNN-N format"
// @Success 200 {object} response.Envelope
// @Router /public/results [get]
func (h *TranscriptHandler) PublicLookup(c *gin.Context) {
	bundle, err := h.transcripts.LookupByNationalID(c.Request.Context(), c.Query("cnic"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bundle, nil)
}

// PublicTranscript godoc
// @Summary Public per-semester result card
// @Tags Public
// @Produce json
// @Param studentId path string true "Student ID"
// @Param semesterId path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /public/students/{id}/semesters/{semesterId} [get]
func (h *TranscriptHandler) PublicTranscript(c *gin.Context) {
	transcript, err := h.transcripts.Build(c.Request.Context(), c.Param("id"), c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transcript, nil)
}

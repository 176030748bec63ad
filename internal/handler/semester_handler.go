package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadops/registrar-api/internal/service"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
	"github.com/acadops/registrar-api/pkg/response"
)

// SemesterHandler exposes curriculum endpoints.
type SemesterHandler struct {
	curriculum *service.CurriculumService
}

// NewSemesterHandler constructs SemesterHandler.
func NewSemesterHandler(curriculum *service.CurriculumService) *SemesterHandler {
	return &SemesterHandler{curriculum: curriculum}
}

// Create godoc
// @Summary Create a semester with its subject set
// @Tags Semesters
// @Accept json
// @Produce json
// @Param payload body service.CreateSemesterRequest true "Semester payload"
// @Success 201 {object} response.Envelope
// @Router /semesters [post]
func (h *SemesterHandler) Create(c *gin.Context) {
	var req service.CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload"))
		return
	}
	semester, err := h.curriculum.CreateSemester(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, semester)
}

// Update godoc
// @Summary Rewrite a semester's window and subject set
// @Tags Semesters
// @Accept json
// @Produce json
// @Param id path string true "Semester ID"
// @Param payload body service.UpdateSemesterRequest true "Semester payload"
// @Success 200 {object} response.Envelope
// @Router /semesters/{id} [put]
func (h *SemesterHandler) Update(c *gin.Context) {
	var req service.UpdateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload"))
		return
	}
	semester, err := h.curriculum.UpdateSemester(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semester, nil)
}

// ListByBatch godoc
// @Summary List a batch's semesters in study order with status
// @Tags Semesters
// @Produce json
// @Param batchId path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{id}/semesters [get]
func (h *SemesterHandler) ListByBatch(c *gin.Context) {
	semesters, err := h.curriculum.ListByBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semesters, nil)
}

// AvailableSubjects godoc
// @Summary List subjects still placeable in a batch
// @Tags Semesters
// @Produce json
// @Param batchId path string true "Batch ID"
// @Param exclude_semester_id query string false "Semester whose own subjects stay selectable"
// @Success 200 {object} response.Envelope
// @Router /batches/{id}/available-subjects [get]
func (h *SemesterHandler) AvailableSubjects(c *gin.Context) {
	subjects, err := h.curriculum.AvailableSubjects(c.Request.Context(), c.Param("id"), c.Query("exclude_semester_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

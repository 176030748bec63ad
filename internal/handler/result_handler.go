package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadops/registrar-api/internal/service"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
	"github.com/acadops/registrar-api/pkg/response"
)

// ResultHandler exposes marks entry endpoints.
type ResultHandler struct {
	results *service.ResultService
	metrics *service.MetricsService
}

// NewResultHandler constructs ResultHandler.
func NewResultHandler(results *service.ResultService, metrics *service.MetricsService) *ResultHandler {
	return &ResultHandler{results: results, metrics: metrics}
}

// Save godoc
// @Summary Save component marks for a student subject
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.SaveResultRequest true "Marks payload"
// @Success 200 {object} response.Envelope
// @Router /results [put]
func (h *ResultHandler) Save(c *gin.Context) {
	var req service.SaveResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid marks payload"))
		return
	}
	result, err := h.results.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountResultSaved()
	response.JSON(c, http.StatusOK, result, nil)
}

// Get godoc
// @Summary Get a saved result
// @Tags Results
// @Produce json
// @Param studentId path string true "Student ID"
// @Param subjectId path string true "Subject ID"
// @Param semesterId path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/semesters/{semesterId}/subjects/{subjectId}/result [get]
func (h *ResultHandler) Get(c *gin.Context) {
	result, err := h.results.Get(c.Request.Context(), c.Param("id"), c.Param("subjectId"), c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

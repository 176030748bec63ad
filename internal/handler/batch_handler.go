package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/acadops/registrar-api/internal/models"
	"github.com/acadops/registrar-api/internal/service"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
	"github.com/acadops/registrar-api/pkg/response"
)

// BatchHandler exposes batch endpoints.
type BatchHandler struct {
	batches *service.BatchService
}

// NewBatchHandler constructs BatchHandler.
func NewBatchHandler(batches *service.BatchService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

// Plan godoc
// @Summary Preview derived batch fields for a start year
// @Tags Batches
// @Produce json
// @Param start_year query int true "Requested start year"
// @Success 200 {object} response.Envelope
// @Router /batches/plan [get]
func (h *BatchHandler) Plan(c *gin.Context) {
	startYear, err := strconv.Atoi(c.Query("start_year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start_year must be an integer"))
		return
	}
	response.JSON(c, http.StatusOK, h.batches.Plan(startYear), nil)
}

// Create godoc
// @Summary Create batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param payload body service.CreateBatchRequest true "Batch payload"
// @Success 201 {object} response.Envelope
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req service.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload"))
		return
	}
	batch, err := h.batches.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, batch)
}

// List godoc
// @Summary List batches
// @Tags Batches
// @Produce json
// @Param department_id query string false "Filter by department"
// @Param status query bool false "Filter by active state"
// @Success 200 {object} response.Envelope
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	var filter models.BatchFilter
	filter.DepartmentID = c.Query("department_id")
	filter.Status = parseBoolFilter(c.Query("status"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	batches, err := h.batches.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches, nil)
}

// SetStatus godoc
// @Summary Activate or deactivate a batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body statusRequest true "Status payload"
// @Success 204
// @Router /batches/{id}/status [patch]
func (h *BatchHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload"))
		return
	}
	if err := h.batches.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadops/registrar-api/internal/models"
	"github.com/acadops/registrar-api/internal/service"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
	"github.com/acadops/registrar-api/pkg/response"
)

// LectureHandler exposes teacher assignment endpoints.
type LectureHandler struct {
	lectures *service.LectureService
}

// NewLectureHandler constructs LectureHandler.
func NewLectureHandler(lectures *service.LectureService) *LectureHandler {
	return &LectureHandler{lectures: lectures}
}

// Assign godoc
// @Summary Assign a teacher to a semester subject
// @Tags Lectures
// @Accept json
// @Produce json
// @Param payload body service.AssignLectureRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /lectures [post]
func (h *LectureHandler) Assign(c *gin.Context) {
	var req service.AssignLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload"))
		return
	}
	lecture, err := h.lectures.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lecture)
}

// Unassign godoc
// @Summary Remove a teacher assignment
// @Tags Lectures
// @Produce json
// @Param id path string true "Lecture ID"
// @Success 204
// @Router /lectures/{id} [delete]
func (h *LectureHandler) Unassign(c *gin.Context) {
	if err := h.lectures.Unassign(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List godoc
// @Summary List teacher assignments
// @Tags Lectures
// @Produce json
// @Param department_id query string false "Filter by department"
// @Param batch_id query string false "Filter by batch"
// @Param semester_id query string false "Filter by semester"
// @Param teacher_id query string false "Filter by teacher"
// @Success 200 {object} response.Envelope
// @Router /lectures [get]
func (h *LectureHandler) List(c *gin.Context) {
	filter := models.LectureFilter{
		DepartmentID: c.Query("department_id"),
		BatchID:      c.Query("batch_id"),
		SemesterID:   c.Query("semester_id"),
		TeacherID:    c.Query("teacher_id"),
	}
	lectures, err := h.lectures.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lectures, nil)
}

// Schedule godoc
// @Summary Group a batch's current semesters into the two weekly schedule sets
// @Tags Lectures
// @Produce json
// @Param batchId path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{id}/schedule [get]
func (h *LectureHandler) Schedule(c *gin.Context) {
	board, err := h.lectures.Schedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board, nil)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/models"
	"github.com/acadops/registrar-api/internal/repository"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

type batchRepo interface {
	CreateIfUnique(ctx context.Context, batch *models.Batch) error
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	FindActiveByKey(ctx context.Context, departmentID string, startYear, endYear int) (*models.Batch, error)
	List(ctx context.Context, filter models.BatchFilter) ([]models.BatchDetail, error)
	SetStatus(ctx context.Context, id string, status bool) error
}

type departmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

// CreateBatchRequest is the batch creation payload.
type CreateBatchRequest struct {
	DepartmentID string `json:"department_id" validate:"required"`
	StartYear    int    `json:"start_year" validate:"required"`
}

// BatchPlan previews the derived fields for a requested start year.
type BatchPlan struct {
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	Duration  int    `json:"batch_duration"`
	Name      string `json:"name"`
}

// BatchService manages batch cohorts.
type BatchService struct {
	batches     batchRepo
	departments departmentReader
	validator   *validator.Validate
	logger      *zap.Logger
	now         Clock
}

// NewBatchService constructs the service.
func NewBatchService(batches batchRepo, departments departmentReader, validate *validator.Validate, logger *zap.Logger, now Clock) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &BatchService{batches: batches, departments: departments, validator: validate, logger: logger, now: now}
}

// ClampStartYear bounds the requested start year to the enrollment window
// of one year either side of the current year.
func ClampStartYear(requested int, now time.Time) int {
	year := now.Year()
	if requested < year-1 {
		return year - 1
	}
	if requested > year+1 {
		return year + 1
	}
	return requested
}

// Plan derives the year range and display name for a start year without
// touching the store.
func (s *BatchService) Plan(startYear int) BatchPlan {
	start := ClampStartYear(startYear, s.now())
	end := start + models.BatchDurationYears
	return BatchPlan{
		StartYear: start,
		EndYear:   end,
		Duration:  models.BatchDurationYears,
		Name:      models.BatchName(start, end),
	}
}

// Create registers a new batch. The active (department, start, end) key is
// unique; a clash reports the duplicate without persisting anything.
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}

	department, err := s.departments.FindByID(ctx, req.DepartmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load department")
	}
	if !department.Status {
		return nil, appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "department is inactive"),
			map[string]string{"department_id": "inactive departments cannot receive new batches"})
	}

	plan := s.Plan(req.StartYear)
	batch := &models.Batch{
		DepartmentID: req.DepartmentID,
		StartYear:    plan.StartYear,
		EndYear:      plan.EndYear,
		Duration:     plan.Duration,
		Name:         plan.Name,
		Status:       true,
	}
	if err := s.batches.CreateIfUnique(ctx, batch); err != nil {
		if errors.Is(err, repository.ErrNotApplied) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateBatch,
				fmt.Sprintf("an active batch %s already exists in this department", plan.Name))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create batch")
	}
	return batch, nil
}

// List returns batches with department names resolved.
func (s *BatchService) List(ctx context.Context, filter models.BatchFilter) ([]models.BatchDetail, error) {
	batches, err := s.batches.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list batches")
	}
	return batches, nil
}

// SetStatus toggles the active flag.
func (s *BatchService) SetStatus(ctx context.Context, id string, status bool) error {
	if err := s.batches.SetStatus(ctx, id, status); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update batch status")
	}
	return nil
}

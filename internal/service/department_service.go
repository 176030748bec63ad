package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/models"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

type departmentRepo interface {
	Create(ctx context.Context, department *models.Department) error
	FindByID(ctx context.Context, id string) (*models.Department, error)
	List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, error)
	SetStatus(ctx context.Context, id string, status bool) error
}

// CreateDepartmentRequest is the department creation payload.
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// DepartmentService manages academic departments.
type DepartmentService struct {
	departments departmentRepo
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewDepartmentService constructs the service.
func NewDepartmentService(departments departmentRepo, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{departments: departments, validator: validate, logger: logger}
}

// Create registers a new active department.
func (s *DepartmentService) Create(ctx context.Context, req CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	department := &models.Department{Name: req.Name, Status: true}
	if err := s.departments.Create(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create department")
	}
	return department, nil
}

// List returns departments matching the filter.
func (s *DepartmentService) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, error) {
	departments, err := s.departments.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list departments")
	}
	return departments, nil
}

// SetStatus toggles the active flag. Departments are deactivated rather
// than deleted once referenced, which keeps existing batches resolvable.
func (s *DepartmentService) SetStatus(ctx context.Context, id string, status bool) error {
	if err := s.departments.SetStatus(ctx, id, status); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update department status")
	}
	return nil
}

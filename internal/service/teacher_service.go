package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/models"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

type teacherRepo interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error)
}

// CreateTeacherRequest is the teacher registration payload.
type CreateTeacherRequest struct {
	DepartmentID string `json:"department_id" validate:"required"`
	FullName     string `json:"full_name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
}

// TeacherService manages teaching staff records.
type TeacherService struct {
	teachers    teacherRepo
	departments departmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTeacherService constructs the service.
func NewTeacherService(teachers teacherRepo, departments departmentReader, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{teachers: teachers, departments: departments, validator: validate, logger: logger}
}

// Create registers a teacher under an existing department.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	if _, err := s.departments.FindByID(ctx, req.DepartmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load department")
	}

	teacher := &models.Teacher{
		ID:           uuid.NewString(),
		DepartmentID: req.DepartmentID,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Active:       true,
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		s.logger.Error("failed to create teacher", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create teacher")
	}
	return teacher, nil
}

// Get returns a single teacher.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load teacher")
	}
	return teacher, nil
}

// List returns teachers matching the filter.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	teachers, err := s.teachers.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list teachers")
	}
	return teachers, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/models"
	"github.com/acadops/registrar-api/internal/repository"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

type studentRepo interface {
	CreateIfUnique(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error)
	UpdateStatus(ctx context.Context, id string, status models.StudentStatus, dropoutReason *string) error
}

// RegisterStudentRequest is the student registration payload.
type RegisterStudentRequest struct {
	DepartmentID string `json:"department_id" validate:"required"`
	BatchID      string `json:"batch_id" validate:"required"`
	CNIC         string `json:"cnic" validate:"required"`
	RollNumber   string `json:"roll_number" validate:"required"`
	FullName     string `json:"full_name" validate:"required"`
	FatherName   string `json:"father_name" validate:"required"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

// UpdateStudentStatusRequest moves a student through the enrollment
// lifecycle. DropoutReason is required when the target status is dropped.
type UpdateStudentStatusRequest struct {
	Status        models.StudentStatus `json:"status" validate:"required"`
	DropoutReason *string              `json:"dropout_reason"`
}

// StudentService manages student registration and lifecycle.
type StudentService struct {
	students    studentRepo
	departments departmentReader
	batches     batchReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(students studentRepo, departments departmentReader, batches batchReader, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		students:    students,
		departments: departments,
		batches:     batches,
		validator:   validate,
		logger:      logger,
	}
}

// Register creates a student under an existing active batch. The CNIC is
// the uniqueness key; a second registration under the same CNIC is rejected
// regardless of batch.
func (s *StudentService) Register(ctx context.Context, req RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	cnic := strings.TrimSpace(req.CNIC)
	if !ValidCNIC(cnic) {
		return nil, appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "invalid CNIC"),
			map[string]string{"cnic": "must match the NNNNN-NNNNNNN-N format"})
	}

	department, err := s.departments.FindByID(ctx, req.DepartmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load department")
	}
	if !department.Status {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department is inactive")
	}
	batch, err := s.batches.FindByID(ctx, req.BatchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load batch")
	}
	if batch.DepartmentID != req.DepartmentID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "batch does not belong to this department")
	}
	if !batch.Status {
		return nil, appErrors.Clone(appErrors.ErrValidation, "batch is inactive")
	}

	student := &models.Student{
		ID:           uuid.NewString(),
		DepartmentID: req.DepartmentID,
		BatchID:      req.BatchID,
		CNIC:         cnic,
		RollNumber:   strings.TrimSpace(req.RollNumber),
		FullName:     strings.TrimSpace(req.FullName),
		FatherName:   strings.TrimSpace(req.FatherName),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		Status:       models.StudentActive,
	}
	if err := s.students.CreateIfUnique(ctx, student); err != nil {
		if errors.Is(err, repository.ErrNotApplied) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a student with this CNIC is already registered")
		}
		s.logger.Error("failed to register student", zap.Error(err), zap.String("batch_id", req.BatchID))
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to register student")
	}
	return student, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load student")
	}
	return student, nil
}

// List returns students matching the filter.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error) {
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list students")
	}
	return students, nil
}

// UpdateStatus transitions a student's enrollment status. Dropping a
// student records the reason alongside; any other target status clears it.
func (s *StudentService) UpdateStatus(ctx context.Context, id string, req UpdateStudentStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	switch req.Status {
	case models.StudentActive, models.StudentInactive, models.StudentDropped, models.StudentGraduated:
	default:
		return appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "invalid student status"),
			map[string]string{"status": "must be one of active, inactive, dropped, graduated"})
	}
	reason := req.DropoutReason
	if req.Status == models.StudentDropped {
		if reason == nil || strings.TrimSpace(*reason) == "" {
			return appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "dropout reason required"),
				map[string]string{"dropout_reason": "required when status is dropped"})
		}
	} else {
		reason = nil
	}

	if err := s.students.UpdateStatus(ctx, id, req.Status, reason); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update student status")
	}
	return nil
}

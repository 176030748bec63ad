package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/models"
	"github.com/acadops/registrar-api/internal/repository"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

type subjectRepo interface {
	CreateIfUnique(ctx context.Context, subject *models.Subject) error
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
	Update(ctx context.Context, subject *models.Subject) error
	SetStatus(ctx context.Context, id string, status bool) error
}

// subjectCodePattern accepts the raw form of a subject code: three letters,
// an optional separator, three digits. NormalizeSubjectCode canonicalizes
// matches to "ABC-123".
var subjectCodePattern = regexp.MustCompile(`^([A-Za-z]{3})[-\s]?(\d{3})$`)

// NormalizeSubjectCode canonicalizes a subject code to uppercase letters,
// a dash and three digits. Returns false when the input cannot be shaped
// into the canonical form.
func NormalizeSubjectCode(raw string) (string, bool) {
	m := subjectCodePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]) + "-" + m[2], true
}

// CreateSubjectRequest is the subject creation payload.
type CreateSubjectRequest struct {
	DepartmentID string `json:"department_id" validate:"required"`
	Code         string `json:"sub_code" validate:"required"`
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Theory       int    `json:"theory" validate:"min=0,max=6"`
	Practical    int    `json:"practical" validate:"min=0,max=6"`
}

// UpdateSubjectRequest rewrites the mutable subject fields.
type UpdateSubjectRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Theory    int    `json:"theory" validate:"min=0,max=6"`
	Practical int    `json:"practical" validate:"min=0,max=6"`
}

// SubjectService manages the subject catalogue.
type SubjectService struct {
	subjects    subjectRepo
	departments departmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubjectService constructs the service.
func NewSubjectService(subjects subjectRepo, departments departmentReader, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{subjects: subjects, departments: departments, validator: validate, logger: logger}
}

// Create registers a subject. A subject must carry at least one contact
// hour; the code is normalized before storage.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	code, ok := NormalizeSubjectCode(req.Code)
	if !ok {
		return nil, appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "invalid subject code"),
			map[string]string{"sub_code": "must be three letters, a dash and three digits, e.g. CSC-101"})
	}
	if req.Theory+req.Practical == 0 {
		return nil, appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "subject has no contact hours"),
			map[string]string{"theory": "theory and practical hours cannot both be zero"})
	}

	if _, err := s.departments.FindByID(ctx, req.DepartmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load department")
	}

	subject := &models.Subject{
		DepartmentID: req.DepartmentID,
		Code:         code,
		Name:         req.Name,
		Theory:       req.Theory,
		Practical:    req.Practical,
		Status:       true,
	}
	if err := s.subjects.CreateIfUnique(ctx, subject); err != nil {
		if errors.Is(err, repository.ErrNotApplied) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists in this department")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create subject")
	}
	return subject, nil
}

// Update rewrites a subject's name and hours.
func (s *SubjectService) Update(ctx context.Context, id string, req UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	if req.Theory+req.Practical == 0 {
		return nil, appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "subject has no contact hours"),
			map[string]string{"theory": "theory and practical hours cannot both be zero"})
	}
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load subject")
	}
	subject.Name = req.Name
	subject.Theory = req.Theory
	subject.Practical = req.Practical
	if err := s.subjects.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update subject")
	}
	return subject, nil
}

// List returns subjects matching the filter.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	subjects, err := s.subjects.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list subjects")
	}
	return subjects, nil
}

// SetStatus toggles the active flag.
func (s *SubjectService) SetStatus(ctx context.Context, id string, status bool) error {
	if err := s.subjects.SetStatus(ctx, id, status); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update subject status")
	}
	return nil
}

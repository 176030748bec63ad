package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/grading"
	"github.com/acadops/registrar-api/internal/models"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

type resultRepo interface {
	Upsert(ctx context.Context, result *models.Result) error
	Find(ctx context.Context, studentID, subjectID, semesterID string) (*models.Result, error)
	ListByStudentAndSemester(ctx context.Context, studentID, semesterID string) ([]models.Result, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// SaveResultRequest carries raw component marks for one student, subject
// and semester. Re-submitting the same key overwrites the prior record.
type SaveResultRequest struct {
	StudentID         string  `json:"student_id" validate:"required"`
	SubjectID         string  `json:"subject_id" validate:"required"`
	SemesterID        string  `json:"semester_id" validate:"required"`
	PresentationMarks float64 `json:"presentation_marks"`
	MidMarks          float64 `json:"mid_marks"`
	FinalMarks        float64 `json:"final_marks"`
	PracticalMarks    float64 `json:"practical_marks"`
}

// ResultService converts raw marks into graded outcomes.
type ResultService struct {
	results   resultRepo
	students  studentReader
	subjects  subjectReader
	semesters semesterReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs the service.
func NewResultService(results resultRepo, students studentReader, subjects subjectReader, semesters semesterReader, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{results: results, students: students, subjects: subjects, semesters: semesters, validator: validate, logger: logger}
}

// Save validates the components against the subject's mark scheme, derives
// every outcome field and upserts the record. Derived fields are always
// recomputed in full; the store never holds stale partials.
func (s *ResultService) Save(ctx context.Context, req SaveResultRequest) (*models.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load student")
	}
	semester, err := s.semesters.FindByID(ctx, req.SemesterID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load semester")
	}
	if !containsString(semester.SubjectIDs, req.SubjectID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject is not part of this semester's curriculum")
	}
	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load subject")
	}

	scheme := grading.SchemeFor(subject.Theory, subject.Practical)
	components := grading.Components{
		Presentation: req.PresentationMarks,
		Mid:          req.MidMarks,
		Final:        req.FinalMarks,
		Practical:    req.PracticalMarks,
	}
	if fields := scheme.Validate(components); fields != nil {
		return nil, appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "marks exceed the subject's scheme"), fields)
	}
	outcome := scheme.Evaluate(components)

	result := &models.Result{
		StudentID:         req.StudentID,
		SubjectID:         req.SubjectID,
		SemesterID:        req.SemesterID,
		TotalMarks:        outcome.TotalMarks,
		PresentationMarks: outcome.Components.Presentation,
		MidMarks:          outcome.Components.Mid,
		FinalMarks:        outcome.Components.Final,
		PracticalMarks:    outcome.Components.Practical,
		TotalObtained:     outcome.TotalObtained,
		Percentage:        outcome.Percentage,
		Grade:             outcome.Grade,
	}
	if err := s.results.Upsert(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to save result")
	}
	return result, nil
}

// Get returns the saved result for one key.
func (s *ResultService) Get(ctx context.Context, studentID, subjectID, semesterID string) (*models.Result, error) {
	result, err := s.results.Find(ctx, studentID, subjectID, semesterID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load result")
	}
	return result, nil
}

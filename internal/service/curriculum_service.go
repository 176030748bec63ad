package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/acadops/registrar-api/internal/models"
	"github.com/acadops/registrar-api/internal/repository"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

// minSemesterMonths is the shortest acceptable semester window, measured in
// whole calendar months.
const minSemesterMonths = 4

type semesterRepo interface {
	CreateIfUnique(ctx context.Context, semester *models.Semester) error
	Update(ctx context.Context, semester *models.Semester) error
	FindByID(ctx context.Context, id string) (*models.Semester, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.Semester, error)
	SubjectIDsInBatch(ctx context.Context, batchID, excludeSemesterID string) ([]string, error)
}

type subjectResolver interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.Subject, error)
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
}

type batchReader interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
}

// CreateSemesterRequest is the semester creation payload.
type CreateSemesterRequest struct {
	DepartmentID string    `json:"department_id" validate:"required"`
	BatchID      string    `json:"batch_id" validate:"required"`
	Number       int       `json:"number" validate:"required,min=1,max=8"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required"`
	SubjectIDs   []string  `json:"subject_ids"`
}

// UpdateSemesterRequest rewrites the window and subject set of a semester.
type UpdateSemesterRequest struct {
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
	SubjectIDs []string  `json:"subject_ids"`
}

// MonthsBetween counts whole calendar months between two dates, ignoring
// the day of month. A window of 4 months minus one day therefore still
// counts as 4; the coarse policy is deliberate.
func MonthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

// ValidateSemesterWindow checks the date window rule: the end must follow
// the start and span at least four calendar months. Returns per-field
// messages, nil when acceptable.
func ValidateSemesterWindow(start, end time.Time) map[string]string {
	if !end.After(start) {
		return map[string]string{"end_date": "must be after the start date"}
	}
	if MonthsBetween(start, end) < minSemesterMonths {
		return map[string]string{"end_date": fmt.Sprintf("semester must span at least %d months", minSemesterMonths)}
	}
	return nil
}

// CurriculumService builds and validates the batch -> semester -> subject
// graph.
type CurriculumService struct {
	semesters semesterRepo
	subjects  subjectResolver
	batches   batchReader
	validator *validator.Validate
	logger    *zap.Logger
	now       Clock
}

// NewCurriculumService constructs the service.
func NewCurriculumService(semesters semesterRepo, subjects subjectResolver, batches batchReader, validate *validator.Validate, logger *zap.Logger, now Clock) *CurriculumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &CurriculumService{semesters: semesters, subjects: subjects, batches: batches, validator: validate, logger: logger, now: now}
}

// CreateSemester places a new semester in a batch. The subject set must not
// overlap any other semester of the same batch.
func (s *CurriculumService) CreateSemester(ctx context.Context, req CreateSemesterRequest) (*models.Semester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}
	if fields := ValidateSemesterWindow(req.StartDate, req.EndDate); fields != nil {
		return nil, appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "invalid semester window"), fields)
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

	if err := s.ensureSubjectsUnused(ctx, req.BatchID, "", req.SubjectIDs); err != nil {
		return nil, err
	}

	semester := &models.Semester{
		DepartmentID: req.DepartmentID,
		BatchID:      req.BatchID,
		Name:         models.SemesterName(req.Number),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		SubjectIDs:   req.SubjectIDs,
	}
	if err := s.semesters.CreateIfUnique(ctx, semester); err != nil {
		if errors.Is(err, repository.ErrNotApplied) {
			return nil, appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("%s already exists in this batch", semester.Name))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create semester")
	}
	return semester, nil
}

// UpdateSemester rewrites a semester's window and subject set. The
// semester's own already-assigned subjects remain admissible so edits never
// strand previously chosen subjects.
func (s *CurriculumService) UpdateSemester(ctx context.Context, id string, req UpdateSemesterRequest) (*models.Semester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}
	if fields := ValidateSemesterWindow(req.StartDate, req.EndDate); fields != nil {
		return nil, appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "invalid semester window"), fields)
	}

	semester, err := s.semesters.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load semester")
	}

	if err := s.ensureSubjectsUnused(ctx, semester.BatchID, semester.ID, req.SubjectIDs); err != nil {
		return nil, err
	}

	semester.StartDate = req.StartDate
	semester.EndDate = req.EndDate
	semester.SubjectIDs = req.SubjectIDs
	if err := s.semesters.Update(ctx, semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update semester")
	}
	return semester, nil
}

// SubjectsUsedInBatch unions the subject ids across the batch's semesters,
// optionally excluding one semester.
func (s *CurriculumService) SubjectsUsedInBatch(ctx context.Context, batchID, excludeSemesterID string) (map[string]struct{}, error) {
	ids, err := s.semesters.SubjectIDsInBatch(ctx, batchID, excludeSemesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to resolve batch subjects")
	}
	used := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		used[id] = struct{}{}
	}
	return used, nil
}

// AvailableSubjects returns the department subjects not yet placed in any
// semester of the batch. When excludeSemesterID names the semester being
// edited, its own picks stay selectable.
func (s *CurriculumService) AvailableSubjects(ctx context.Context, batchID, excludeSemesterID string) ([]models.Subject, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load batch")
	}

	used, err := s.SubjectsUsedInBatch(ctx, batchID, excludeSemesterID)
	if err != nil {
		return nil, err
	}

	active := true
	all, err := s.subjects.List(ctx, models.SubjectFilter{DepartmentID: batch.DepartmentID, Status: &active})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list subjects")
	}

	available := make([]models.Subject, 0, len(all))
	for _, subject := range all {
		if _, taken := used[subject.ID]; taken {
			continue
		}
		available = append(available, subject)
	}
	return available, nil
}

// ListByBatch returns the batch's semesters in ascending term order, with
// derived status and resolved subjects. Subject resolution fans out one
// fetch per semester and joins by semester id.
func (s *CurriculumService) ListByBatch(ctx context.Context, batchID string) ([]models.SemesterDetail, error) {
	semesters, err := s.semesters.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list semesters")
	}
	sort.Slice(semesters, func(i, j int) bool {
		return semesters[i].Number() < semesters[j].Number()
	})

	resolved := make([][]models.Subject, len(semesters))
	g, gctx := errgroup.WithContext(ctx)
	for i := range semesters {
		i := i
		g.Go(func() error {
			subjects, err := s.subjects.ListByIDs(gctx, semesters[i].SubjectIDs)
			if err != nil {
				return err
			}
			resolved[i] = subjects
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to resolve semester subjects")
	}

	now := s.now()
	details := make([]models.SemesterDetail, len(semesters))
	for i, semester := range semesters {
		details[i] = models.SemesterDetail{
			Semester: semester,
			Status:   semester.StatusAt(now),
			Subjects: resolved[i],
		}
	}
	return details, nil
}

// ensureSubjectsUnused rejects subject ids already placed in another
// semester of the batch.
func (s *CurriculumService) ensureSubjectsUnused(ctx context.Context, batchID, excludeSemesterID string, subjectIDs []string) error {
	if len(subjectIDs) == 0 {
		return nil
	}
	used, err := s.SubjectsUsedInBatch(ctx, batchID, excludeSemesterID)
	if err != nil {
		return err
	}
	var conflicts []string
	for _, id := range subjectIDs {
		if _, taken := used[id]; taken {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		fields := make(map[string]string, len(conflicts))
		for _, id := range conflicts {
			fields[id] = "already placed in another semester of this batch"
		}
		return appErrors.WithFields(appErrors.Clone(appErrors.ErrSubjectInUse, ""), fields)
	}
	return nil
}

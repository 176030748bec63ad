package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/models"
	"github.com/acadops/registrar-api/internal/repository"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

type lectureRepo interface {
	CreateGuarded(ctx context.Context, lecture *models.Lecture) error
	FindActiveSlot(ctx context.Context, semesterID, subjectID, batchID string) (*models.Lecture, error)
	CountActiveByTeacherAndSemester(ctx context.Context, teacherID, semesterID string) (int, error)
	List(ctx context.Context, filter models.LectureFilter) ([]models.LectureDetail, error)
	Delete(ctx context.Context, id string) error
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type semesterReader interface {
	FindByID(ctx context.Context, id string) (*models.Semester, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.Semester, error)
}

// AssignLectureRequest is the teacher assignment payload.
type AssignLectureRequest struct {
	SemesterID string `json:"semester_id" validate:"required"`
	SubjectID  string `json:"subject_id" validate:"required"`
	TeacherID  string `json:"teacher_id" validate:"required"`
	BatchID    string `json:"batch_id" validate:"required"`
}

// ScheduleBoard groups a batch's current semesters into the two parallel
// weekly schedules for the assignment screens.
type ScheduleBoard struct {
	SetA []models.SemesterDetail `json:"set_a"`
	SetB []models.SemesterDetail `json:"set_b"`
}

// LectureService allocates teachers to semester subjects.
type LectureService struct {
	lectures  lectureRepo
	teachers  teacherReader
	semesters semesterReader
	validator *validator.Validate
	logger    *zap.Logger
	now       Clock
}

// NewLectureService constructs the service.
func NewLectureService(lectures lectureRepo, teachers teacherReader, semesters semesterReader, validate *validator.Validate, logger *zap.Logger, now Clock) *LectureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &LectureService{lectures: lectures, teachers: teachers, semesters: semesters, validator: validate, logger: logger, now: now}
}

// Assign binds a teacher to a (semester, subject, batch) slot. A slot holds
// at most one active lecture, and a teacher at most two active lectures per
// semester. The pre-checks give precise errors; the guarded insert is what
// holds under concurrency, and a blocked write is re-read to classify.
func (s *LectureService) Assign(ctx context.Context, req AssignLectureRequest) (*models.Lecture, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	teacher, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load teacher")
	}
	if !teacher.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher is inactive")
	}

	semester, err := s.semesters.FindByID(ctx, req.SemesterID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load semester")
	}
	if semester.BatchID != req.BatchID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester does not belong to this batch")
	}
	if !containsString(semester.SubjectIDs, req.SubjectID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject is not part of this semester's curriculum")
	}

	if err := s.checkSlotFree(ctx, req.SemesterID, req.SubjectID, req.BatchID); err != nil {
		return nil, err
	}

	count, err := s.lectures.CountActiveByTeacherAndSemester(ctx, req.TeacherID, req.SemesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to read teacher load")
	}
	if count >= 2 {
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "")
	}

	lecture := &models.Lecture{
		DepartmentID: semester.DepartmentID,
		BatchID:      req.BatchID,
		SemesterID:   req.SemesterID,
		SubjectID:    req.SubjectID,
		TeacherID:    req.TeacherID,
		AssignedDate: s.now(),
		Status:       models.LectureStatusActive,
	}
	if err := s.lectures.CreateGuarded(ctx, lecture); err != nil {
		if errors.Is(err, repository.ErrNotApplied) {
			return nil, s.classifyBlockedAssign(ctx, req)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create lecture")
	}
	return lecture, nil
}

// Unassign removes a lecture. Previously saved results stay addressable by
// (student, subject, semester); grading history is independent of staffing.
func (s *LectureService) Unassign(ctx context.Context, lectureID string) error {
	if err := s.lectures.Delete(ctx, lectureID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to delete lecture")
	}
	return nil
}

// List returns lectures with descriptive fields resolved.
func (s *LectureService) List(ctx context.Context, filter models.LectureFilter) ([]models.LectureDetail, error) {
	lectures, err := s.lectures.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list lectures")
	}
	return lectures, nil
}

// Schedule groups the batch's currently running semesters into the two
// fixed weekly schedule sets. The partition is a constant lookup over
// semester numbers and carries no conflict semantics.
func (s *LectureService) Schedule(ctx context.Context, batchID string) (*ScheduleBoard, error) {
	semesters, err := s.semesters.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list semesters")
	}
	now := s.now()
	board := &ScheduleBoard{}
	for _, semester := range semesters {
		if semester.StatusAt(now) != models.SemesterCurrent {
			continue
		}
		set, ok := models.ScheduleSetFor(semester.Number())
		if !ok {
			continue
		}
		detail := models.SemesterDetail{Semester: semester, Status: models.SemesterCurrent}
		switch set {
		case models.ScheduleSetA:
			board.SetA = append(board.SetA, detail)
		case models.ScheduleSetB:
			board.SetB = append(board.SetB, detail)
		}
	}
	return board, nil
}

func (s *LectureService) checkSlotFree(ctx context.Context, semesterID, subjectID, batchID string) error {
	holder, err := s.lectures.FindActiveSlot(ctx, semesterID, subjectID, batchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to check assignment slot")
	}
	return appErrors.WithFields(appErrors.Clone(appErrors.ErrAlreadyAssigned, ""),
		map[string]string{"teacher_id": holder.TeacherID})
}

// classifyBlockedAssign re-reads after a blocked conditional write to report
// which guard fired.
func (s *LectureService) classifyBlockedAssign(ctx context.Context, req AssignLectureRequest) error {
	if err := s.checkSlotFree(ctx, req.SemesterID, req.SubjectID, req.BatchID); err != nil {
		return err
	}
	count, err := s.lectures.CountActiveByTeacherAndSemester(ctx, req.TeacherID, req.SemesterID)
	if err == nil && count >= 2 {
		return appErrors.Clone(appErrors.ErrCapacityExceeded, "")
	}
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("assignment rejected for semester %s, retry", req.SemesterID))
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

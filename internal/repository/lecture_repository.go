package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadops/registrar-api/internal/models"
)

// maxActiveLecturesPerSemester caps a teacher's simultaneous assignments
// within one semester.
const maxActiveLecturesPerSemester = 2

// LectureRepository persists teacher-subject assignments. The active
// (semester, subject, batch) slot is guarded by a partial unique index and
// the teacher capacity by a guarded insert, so the write itself is the
// arbiter under concurrency, not any prior read.
type LectureRepository struct {
	db *sqlx.DB
}

// NewLectureRepository constructs the repository.
func NewLectureRepository(db *sqlx.DB) *LectureRepository {
	return &LectureRepository{db: db}
}

// CreateGuarded inserts the lecture unless the slot is taken or the teacher
// is at capacity for the semester. Returns ErrNotApplied when either guard
// blocked the write; the caller re-reads to classify which one.
func (r *LectureRepository) CreateGuarded(ctx context.Context, lecture *models.Lecture) error {
	if lecture.ID == "" {
		lecture.ID = uuid.NewString()
	}
	const query = `INSERT INTO lectures (id, department_id, batch_id, semester_id, subject_id, teacher_id, assigned_date, status)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8
		WHERE (SELECT COUNT(*) FROM lectures
			WHERE teacher_id = $6 AND semester_id = $4 AND status = 'active') < $9
		ON CONFLICT (semester_id, subject_id, batch_id) WHERE (status = 'active') DO NOTHING`
	result, err := r.db.ExecContext(ctx, query,
		lecture.ID, lecture.DepartmentID, lecture.BatchID, lecture.SemesterID,
		lecture.SubjectID, lecture.TeacherID, lecture.AssignedDate, lecture.Status,
		maxActiveLecturesPerSemester)
	if err != nil {
		return fmt.Errorf("create lecture: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check created lecture rows: %w", err)
	}
	if affected == 0 {
		return ErrNotApplied
	}
	return nil
}

// FindActiveSlot returns the active lecture occupying a
// (semester, subject, batch) slot.
func (r *LectureRepository) FindActiveSlot(ctx context.Context, semesterID, subjectID, batchID string) (*models.Lecture, error) {
	const query = `SELECT id, department_id, batch_id, semester_id, subject_id, teacher_id, assigned_date, status
		FROM lectures
		WHERE semester_id = $1 AND subject_id = $2 AND batch_id = $3 AND status = 'active'`
	var lecture models.Lecture
	if err := r.db.GetContext(ctx, &lecture, query, semesterID, subjectID, batchID); err != nil {
		return nil, err
	}
	return &lecture, nil
}

// CountActiveByTeacherAndSemester returns the teacher's active assignment
// count within a semester.
func (r *LectureRepository) CountActiveByTeacherAndSemester(ctx context.Context, teacherID, semesterID string) (int, error) {
	const query = `SELECT COUNT(*) FROM lectures
		WHERE teacher_id = $1 AND semester_id = $2 AND status = 'active'`
	var count int
	if err := r.db.GetContext(ctx, &count, query, teacherID, semesterID); err != nil {
		return 0, fmt.Errorf("count teacher lectures: %w", err)
	}
	return count, nil
}

// List returns lectures with descriptive fields resolved.
func (r *LectureRepository) List(ctx context.Context, filter models.LectureFilter) ([]models.LectureDetail, error) {
	query := `SELECT l.id, l.department_id, l.batch_id, l.semester_id, l.subject_id, l.teacher_id, l.assigned_date, l.status,
			COALESCE(t.full_name, 'Unknown') AS teacher_name,
			COALESCE(sub.name, 'Unknown') AS subject_name,
			COALESCE(sub.code, '') AS subject_code,
			COALESCE(sem.name, 'Unknown') AS semester_name,
			COALESCE(b.name, 'Unknown') AS batch_name
		FROM lectures l
		LEFT JOIN teachers t ON t.id = l.teacher_id
		LEFT JOIN subjects sub ON sub.id = l.subject_id
		LEFT JOIN semesters sem ON sem.id = l.semester_id
		LEFT JOIN batches b ON b.id = l.batch_id
		WHERE 1=1`
	var args []interface{}
	if filter.DepartmentID != "" {
		query += fmt.Sprintf(" AND l.department_id = $%d", len(args)+1)
		args = append(args, filter.DepartmentID)
	}
	if filter.BatchID != "" {
		query += fmt.Sprintf(" AND l.batch_id = $%d", len(args)+1)
		args = append(args, filter.BatchID)
	}
	if filter.SemesterID != "" {
		query += fmt.Sprintf(" AND l.semester_id = $%d", len(args)+1)
		args = append(args, filter.SemesterID)
	}
	if filter.TeacherID != "" {
		query += fmt.Sprintf(" AND l.teacher_id = $%d", len(args)+1)
		args = append(args, filter.TeacherID)
	}
	query += " ORDER BY l.assigned_date DESC"
	var lectures []models.LectureDetail
	if err := r.db.SelectContext(ctx, &lectures, query, args...); err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}
	return lectures, nil
}

// Delete removes a lecture. Saved results are untouched: grading history is
// keyed on (student, subject, semester), independent of staffing.
func (r *LectureRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM lectures WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted lecture rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadops/registrar-api/internal/models"
)

// ResultRepository persists computed results. A result is keyed on
// (student, subject, semester); re-saves overwrite the prior record
// entirely, so the write is idempotent.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs the repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Upsert inserts or fully overwrites the result for its key.
func (r *ResultRepository) Upsert(ctx context.Context, result *models.Result) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if result.CreatedAt.IsZero() {
		result.CreatedAt = now
	}
	result.UpdatedAt = now
	const query = `INSERT INTO results (id, student_id, subject_id, semester_id, total_marks, presentation_marks, mid_marks, final_marks, practical_marks, total_obtained, percentage, grade, created_at, updated_at)
		VALUES (:id, :student_id, :subject_id, :semester_id, :total_marks, :presentation_marks, :mid_marks, :final_marks, :practical_marks, :total_obtained, :percentage, :grade, :created_at, :updated_at)
		ON CONFLICT (student_id, subject_id, semester_id)
		DO UPDATE SET total_marks = EXCLUDED.total_marks,
			presentation_marks = EXCLUDED.presentation_marks,
			mid_marks = EXCLUDED.mid_marks,
			final_marks = EXCLUDED.final_marks,
			practical_marks = EXCLUDED.practical_marks,
			total_obtained = EXCLUDED.total_obtained,
			percentage = EXCLUDED.percentage,
			grade = EXCLUDED.grade,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

// Find loads the result for one (student, subject, semester) key.
func (r *ResultRepository) Find(ctx context.Context, studentID, subjectID, semesterID string) (*models.Result, error) {
	const query = `SELECT id, student_id, subject_id, semester_id, total_marks, presentation_marks, mid_marks, final_marks, practical_marks, total_obtained, percentage, grade, created_at, updated_at
		FROM results WHERE student_id = $1 AND subject_id = $2 AND semester_id = $3`
	var result models.Result
	if err := r.db.GetContext(ctx, &result, query, studentID, subjectID, semesterID); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByStudentAndSemester returns the student's results within a semester.
func (r *ResultRepository) ListByStudentAndSemester(ctx context.Context, studentID, semesterID string) ([]models.Result, error) {
	const query = `SELECT id, student_id, subject_id, semester_id, total_marks, presentation_marks, mid_marks, final_marks, practical_marks, total_obtained, percentage, grade, created_at, updated_at
		FROM results WHERE student_id = $1 AND semester_id = $2`
	var results []models.Result
	if err := r.db.SelectContext(ctx, &results, query, studentID, semesterID); err != nil {
		return nil, fmt.Errorf("list semester results: %w", err)
	}
	return results, nil
}

// ListByStudent returns every saved result of a student.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Result, error) {
	const query = `SELECT id, student_id, subject_id, semester_id, total_marks, presentation_marks, mid_marks, final_marks, practical_marks, total_obtained, percentage, grade, created_at, updated_at
		FROM results WHERE student_id = $1`
	var results []models.Result
	if err := r.db.SelectContext(ctx, &results, query, studentID); err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	return results, nil
}

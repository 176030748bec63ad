package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadops/registrar-api/internal/models"
)

// SemesterRepository persists semesters and their subject membership. The
// subject set lives in the semester_subjects join table and is merged onto
// the semester rows client-side.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs the repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// CreateIfUnique inserts the semester and its subject links in one
// transaction, unless the (batch, name) slot is already taken. Returns
// ErrNotApplied on the duplicate name.
func (r *SemesterRepository) CreateIfUnique(ctx context.Context, semester *models.Semester) error {
	if semester.ID == "" {
		semester.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	semester.CreatedAt = now
	semester.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin semester tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO semesters (id, department_id, batch_id, name, start_date, end_date, created_at, updated_at)
		VALUES (:id, :department_id, :batch_id, :name, :start_date, :end_date, :created_at, :updated_at)
		ON CONFLICT (batch_id, name) DO NOTHING`
	result, err := tx.NamedExecContext(ctx, query, semester)
	if err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check created semester rows: %w", err)
	}
	if affected == 0 {
		return ErrNotApplied
	}
	if err := replaceSubjects(ctx, tx, semester.ID, semester.SubjectIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit semester tx: %w", err)
	}
	return nil
}

// Update rewrites the semester window and replaces its subject set.
func (r *SemesterRepository) Update(ctx context.Context, semester *models.Semester) error {
	semester.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin semester tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `UPDATE semesters SET start_date = :start_date, end_date = :end_date, updated_at = :updated_at
		WHERE id = :id`
	result, err := tx.NamedExecContext(ctx, query, semester)
	if err != nil {
		return fmt.Errorf("update semester: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated semester rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	if err := replaceSubjects(ctx, tx, semester.ID, semester.SubjectIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit semester tx: %w", err)
	}
	return nil
}

func replaceSubjects(ctx context.Context, tx *sqlx.Tx, semesterID string, subjectIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM semester_subjects WHERE semester_id = $1`, semesterID); err != nil {
		return fmt.Errorf("clear semester subjects: %w", err)
	}
	for _, subjectID := range subjectIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO semester_subjects (semester_id, subject_id) VALUES ($1, $2)`,
			semesterID, subjectID); err != nil {
			return fmt.Errorf("link semester subject: %w", err)
		}
	}
	return nil
}

// FindByID loads one semester including its subject ids.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	const query = `SELECT id, department_id, batch_id, name, start_date, end_date, created_at, updated_at
		FROM semesters WHERE id = $1`
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, id); err != nil {
		return nil, err
	}
	const subjectQuery = `SELECT subject_id FROM semester_subjects WHERE semester_id = $1`
	if err := r.db.SelectContext(ctx, &semester.SubjectIDs, subjectQuery, id); err != nil {
		return nil, fmt.Errorf("load semester subjects: %w", err)
	}
	return &semester, nil
}

// ListByBatch returns the batch's semesters with subject ids attached.
func (r *SemesterRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Semester, error) {
	const query = `SELECT id, department_id, batch_id, name, start_date, end_date, created_at, updated_at
		FROM semesters WHERE batch_id = $1 ORDER BY name ASC`
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query, batchID); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	if len(semesters) == 0 {
		return semesters, nil
	}

	ids := make([]string, 0, len(semesters))
	for _, s := range semesters {
		ids = append(ids, s.ID)
	}
	linkQuery, args, err := sqlx.In(`SELECT semester_id, subject_id FROM semester_subjects WHERE semester_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build semester subject query: %w", err)
	}
	linkQuery = r.db.Rebind(linkQuery)
	var links []struct {
		SemesterID string `db:"semester_id"`
		SubjectID  string `db:"subject_id"`
	}
	if err := r.db.SelectContext(ctx, &links, linkQuery, args...); err != nil {
		return nil, fmt.Errorf("load semester subjects: %w", err)
	}
	bySemester := make(map[string][]string, len(semesters))
	for _, link := range links {
		bySemester[link.SemesterID] = append(bySemester[link.SemesterID], link.SubjectID)
	}
	for i := range semesters {
		semesters[i].SubjectIDs = bySemester[semesters[i].ID]
	}
	return semesters, nil
}

// SubjectIDsInBatch unions the subject ids across all semesters of a batch,
// optionally excluding one semester (used while that semester is edited so
// its own picks stay selectable).
func (r *SemesterRepository) SubjectIDsInBatch(ctx context.Context, batchID, excludeSemesterID string) ([]string, error) {
	const query = `SELECT DISTINCT ss.subject_id
		FROM semester_subjects ss
		JOIN semesters s ON s.id = ss.semester_id
		WHERE s.batch_id = $1 AND ($2 = '' OR ss.semester_id <> $2)`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, batchID, excludeSemesterID); err != nil {
		return nil, fmt.Errorf("union batch subjects: %w", err)
	}
	return ids, nil
}

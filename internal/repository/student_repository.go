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

// StudentRepository persists students. CNIC uniqueness is guarded by a
// unique index rather than a pre-read.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// CreateIfUnique inserts a student unless the CNIC is already registered.
// Returns ErrNotApplied on the duplicate.
func (r *StudentRepository) CreateIfUnique(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, department_id, batch_id, cnic, roll_number, full_name, father_name, phone, address, status, dropout_reason, created_at, updated_at)
		VALUES (:id, :department_id, :batch_id, :cnic, :roll_number, :full_name, :father_name, :phone, :address, :status, :dropout_reason, :created_at, :updated_at)
		ON CONFLICT (cnic) DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check created student rows: %w", err)
	}
	if affected == 0 {
		return ErrNotApplied
	}
	return nil
}

// FindByID loads one student.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, department_id, batch_id, cnic, roll_number, full_name, father_name, phone, address, status, dropout_reason, created_at, updated_at
		FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByCNIC loads a student by national identity number.
func (r *StudentRepository) FindByCNIC(ctx context.Context, cnic string) (*models.Student, error) {
	const query = `SELECT id, department_id, batch_id, cnic, roll_number, full_name, father_name, phone, address, status, dropout_reason, created_at, updated_at
		FROM students WHERE cnic = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, cnic); err != nil {
		return nil, err
	}
	return &student, nil
}

// List returns students with department and batch names resolved; dangling
// references degrade to "Unknown".
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error) {
	query := `SELECT s.id, s.department_id, s.batch_id, s.cnic, s.roll_number, s.full_name, s.father_name, s.phone, s.address, s.status, s.dropout_reason, s.created_at, s.updated_at,
			COALESCE(d.name, 'Unknown') AS department_name,
			COALESCE(b.name, 'Unknown') AS batch_name
		FROM students s
		LEFT JOIN departments d ON d.id = s.department_id
		LEFT JOIN batches b ON b.id = s.batch_id
		WHERE 1=1`
	var args []interface{}
	if filter.DepartmentID != "" {
		query += fmt.Sprintf(" AND s.department_id = $%d", len(args)+1)
		args = append(args, filter.DepartmentID)
	}
	if filter.BatchID != "" {
		query += fmt.Sprintf(" AND s.batch_id = $%d", len(args)+1)
		args = append(args, filter.BatchID)
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND s.status = $%d", len(args)+1)
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (s.full_name ILIKE $%d OR s.roll_number ILIKE $%d OR s.cnic ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}
	query += " ORDER BY s.roll_number ASC"
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// UpdateStatus changes the enrollment lifecycle state, recording the dropout
// reason when one applies.
func (r *StudentRepository) UpdateStatus(ctx context.Context, id string, status models.StudentStatus, dropoutReason *string) error {
	const query = `UPDATE students SET status = $1, dropout_reason = $2, updated_at = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, status, dropoutReason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update student status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated student rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

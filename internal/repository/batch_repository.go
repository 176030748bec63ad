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

// BatchRepository persists batch cohorts. Uniqueness of the active
// (department, start_year, end_year) key is enforced by a partial unique
// index, so duplicate detection does not rely on a separate read.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs the repository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// CreateIfUnique inserts the batch unless an active batch already occupies
// the same (department, start_year, end_year) key. Returns ErrNotApplied on
// the duplicate.
func (r *BatchRepository) CreateIfUnique(ctx context.Context, batch *models.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	batch.CreatedAt = now
	batch.UpdatedAt = now
	const query = `INSERT INTO batches (id, department_id, start_year, end_year, duration, name, status, created_at, updated_at)
		VALUES (:id, :department_id, :start_year, :end_year, :duration, :name, :status, :created_at, :updated_at)
		ON CONFLICT (department_id, start_year, end_year) WHERE (status) DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, query, batch)
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check created batch rows: %w", err)
	}
	if affected == 0 {
		return ErrNotApplied
	}
	return nil
}

// FindByID loads one batch.
func (r *BatchRepository) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	const query = `SELECT id, department_id, start_year, end_year, duration, name, status, created_at, updated_at
		FROM batches WHERE id = $1`
	var batch models.Batch
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		return nil, err
	}
	return &batch, nil
}

// FindActiveByKey looks up the active batch occupying a year-range key.
func (r *BatchRepository) FindActiveByKey(ctx context.Context, departmentID string, startYear, endYear int) (*models.Batch, error) {
	const query = `SELECT id, department_id, start_year, end_year, duration, name, status, created_at, updated_at
		FROM batches WHERE department_id = $1 AND start_year = $2 AND end_year = $3 AND status = true`
	var batch models.Batch
	if err := r.db.GetContext(ctx, &batch, query, departmentID, startYear, endYear); err != nil {
		return nil, err
	}
	return &batch, nil
}

// List returns batches with their department names resolved. A dangling
// department reference degrades to "Unknown" rather than failing the list.
func (r *BatchRepository) List(ctx context.Context, filter models.BatchFilter) ([]models.BatchDetail, error) {
	query := `SELECT b.id, b.department_id, b.start_year, b.end_year, b.duration, b.name, b.status, b.created_at, b.updated_at,
			COALESCE(d.name, 'Unknown') AS department_name
		FROM batches b
		LEFT JOIN departments d ON d.id = b.department_id
		WHERE 1=1`
	var args []interface{}
	if filter.DepartmentID != "" {
		query += fmt.Sprintf(" AND b.department_id = $%d", len(args)+1)
		args = append(args, filter.DepartmentID)
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND b.status = $%d", len(args)+1)
		args = append(args, *filter.Status)
	}
	query += " ORDER BY b.start_year DESC, b.name ASC"
	var batches []models.BatchDetail
	if err := r.db.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// SetStatus toggles the active flag.
func (r *BatchRepository) SetStatus(ctx context.Context, id string, status bool) error {
	const query = `UPDATE batches SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update batch status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated batch rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

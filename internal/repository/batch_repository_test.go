package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/acadops/registrar-api/internal/models"
)

func TestBatchRepositoryCreateIfUnique(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	batch := &models.Batch{
		DepartmentID: "d1", StartYear: 2026, EndYear: 2030,
		Duration: 4, Name: "2026 - 2030", Status: true,
	}
	mock.ExpectExec("INSERT INTO batches").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateIfUnique(context.Background(), batch))
	require.NotEmpty(t, batch.ID)
	require.False(t, batch.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryCreateIfUniqueDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	batch := &models.Batch{
		DepartmentID: "d1", StartYear: 2026, EndYear: 2030,
		Duration: 4, Name: "2026 - 2030", Status: true,
	}
	// The partial unique index swallows the insert when an active batch
	// already holds the year-range key.
	mock.ExpectExec("INSERT INTO batches").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CreateIfUnique(context.Background(), batch)
	require.ErrorIs(t, err, ErrNotApplied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryFindActiveByKey(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "department_id", "start_year", "end_year", "duration", "name", "status", "created_at", "updated_at"}).
		AddRow("b1", "d1", 2026, 2030, 4, "2026 - 2030", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM batches WHERE department_id = $1 AND start_year = $2 AND end_year = $3 AND status = true")).
		WithArgs("d1", 2026, 2030).
		WillReturnRows(rows)

	batch, err := repo.FindActiveByKey(context.Background(), "d1", 2026, 2030)
	require.NoError(t, err)
	require.Equal(t, "2026 - 2030", batch.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	now := time.Now().UTC()
	active := true
	rows := sqlmock.NewRows([]string{"id", "department_id", "start_year", "end_year", "duration", "name", "status", "created_at", "updated_at", "department_name"}).
		AddRow("b1", "d1", 2026, 2030, 4, "2026 - 2030", true, now, now, "Computer Science")
	mock.ExpectQuery("FROM batches b").
		WithArgs("d1", true).
		WillReturnRows(rows)

	batches, err := repo.List(context.Background(), models.BatchFilter{DepartmentID: "d1", Status: &active})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Equal(t, "Computer Science", batches[0].DepartmentName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositorySetStatusMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec("UPDATE batches SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus(context.Background(), "b-404", false)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

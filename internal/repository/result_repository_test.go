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

func TestResultRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	result := &models.Result{
		StudentID: "st-1", SubjectID: "sub-1", SemesterID: "sem-1",
		TotalMarks: 80, PresentationMarks: 10, MidMarks: 10, FinalMarks: 30,
		PracticalMarks: 15, TotalObtained: 65, Percentage: 81.25, Grade: "A-",
	}
	mock.ExpectExec("INSERT INTO results").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), result))
	require.NotEmpty(t, result.ID)
	require.False(t, result.CreatedAt.IsZero())
	require.False(t, result.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryUpsertKeepsCreatedAt(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	createdAt := time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC)
	result := &models.Result{
		ID: "res-1", StudentID: "st-1", SubjectID: "sub-1", SemesterID: "sem-1",
		TotalMarks: 80, TotalObtained: 70, Percentage: 87.5, Grade: "A",
		CreatedAt: createdAt,
	}
	mock.ExpectExec("INSERT INTO results").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), result))
	require.Equal(t, createdAt, result.CreatedAt)
	require.True(t, result.UpdatedAt.After(createdAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "student_id", "subject_id", "semester_id", "total_marks", "presentation_marks", "mid_marks", "final_marks", "practical_marks", "total_obtained", "percentage", "grade", "created_at", "updated_at"}).
		AddRow("res-1", "st-1", "sub-1", "sem-1", 80, 10.0, 10.0, 30.0, 15.0, 65.0, 81.25, "A-", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM results WHERE student_id = $1 AND subject_id = $2 AND semester_id = $3")).
		WithArgs("st-1", "sub-1", "sem-1").
		WillReturnRows(rows)

	result, err := repo.Find(context.Background(), "st-1", "sub-1", "sem-1")
	require.NoError(t, err)
	require.Equal(t, "A-", result.Grade)
	require.InDelta(t, 81.25, result.Percentage, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryListByStudentAndSemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "student_id", "subject_id", "semester_id", "total_marks", "presentation_marks", "mid_marks", "final_marks", "practical_marks", "total_obtained", "percentage", "grade", "created_at", "updated_at"}).
		AddRow("res-1", "st-1", "sub-1", "sem-1", 80, 10.0, 10.0, 30.0, 15.0, 65.0, 81.25, "A-", now, now).
		AddRow("res-2", "st-1", "sub-2", "sem-1", 40, 8.0, 7.0, 25.0, 0.0, 40.0, 100.0, "A+", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM results WHERE student_id = $1 AND semester_id = $2")).
		WithArgs("st-1", "sem-1").
		WillReturnRows(rows)

	results, err := repo.ListByStudentAndSemester(context.Background(), "st-1", "sem-1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

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

func TestStudentRepositoryCreateIfUniqueDuplicateCNIC(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	student := &models.Student{
		DepartmentID: "d1", BatchID: "b1", CNIC: "12345-1234567-1",
		RollNumber: "CS-001", FullName: "Ayesha Khan", FatherName: "Imran Khan",
		Status: models.StudentActive,
	}
	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CreateIfUnique(context.Background(), student)
	require.ErrorIs(t, err, ErrNotApplied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByCNIC(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "department_id", "batch_id", "cnic", "roll_number", "full_name", "father_name", "phone", "address", "status", "dropout_reason", "created_at", "updated_at"}).
		AddRow("st-1", "d1", "b1", "12345-1234567-1", "CS-001", "Ayesha Khan", "Imran Khan", "", "", models.StudentActive, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE cnic = $1")).
		WithArgs("12345-1234567-1").
		WillReturnRows(rows)

	student, err := repo.FindByCNIC(context.Background(), "12345-1234567-1")
	require.NoError(t, err)
	require.Equal(t, "st-1", student.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	reason := "family relocation"
	mock.ExpectExec("UPDATE students SET status").
		WithArgs(models.StudentDropped, &reason, sqlmock.AnyArg(), "st-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "st-1", models.StudentDropped, &reason))
	require.NoError(t, mock.ExpectationsWereMet())
}

package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/models"
	"github.com/acadops/registrar-api/internal/repository"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]models.Student
	cnics    map[string]struct{}
	status   map[string]models.StudentStatus
	reasons  map[string]*string
}

func (m *mockStudentRepo) CreateIfUnique(ctx context.Context, student *models.Student) error {
	if m.cnics == nil {
		m.cnics = make(map[string]struct{})
	}
	if _, taken := m.cnics[student.CNIC]; taken {
		return repository.ErrNotApplied
	}
	m.cnics[student.CNIC] = struct{}{}
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error) {
	return nil, nil
}

func (m *mockStudentRepo) UpdateStatus(ctx context.Context, id string, status models.StudentStatus, dropoutReason *string) error {
	if _, ok := m.students[id]; !ok {
		return sql.ErrNoRows
	}
	if m.status == nil {
		m.status = make(map[string]models.StudentStatus)
		m.reasons = make(map[string]*string)
	}
	m.status[id] = status
	m.reasons[id] = dropoutReason
	return nil
}

func newStudentFixture(repo *mockStudentRepo) *StudentService {
	departments := &mockDepartmentReader{departments: map[string]*models.Department{
		"d1": {ID: "d1", Status: true},
	}}
	batches := &mockBatchReader{batches: map[string]*models.Batch{
		"b1": {ID: "b1", DepartmentID: "d1", Status: true},
		"b2": {ID: "b2", DepartmentID: "d2", Status: true},
	}}
	return NewStudentService(repo, departments, batches, validator.New(), zap.NewNop())
}

func TestStudentServiceRegister(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentFixture(repo)

	student, err := svc.Register(context.Background(), RegisterStudentRequest{
		DepartmentID: "d1",
		BatchID:      "b1",
		CNIC:         "12345-1234567-1",
		RollNumber:   "CS-001",
		FullName:     "Ayesha Khan",
		FatherName:   "Imran Khan",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, models.StudentActive, student.Status)
}

func TestStudentServiceRegisterMalformedCNIC(t *testing.T) {
	svc := newStudentFixture(&mockStudentRepo{})

	_, err := svc.Register(context.Background(), RegisterStudentRequest{
		DepartmentID: "d1", BatchID: "b1", CNIC: "1234512345671",
		RollNumber: "CS-001", FullName: "Ayesha Khan", FatherName: "Imran Khan",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "cnic")
}

func TestStudentServiceRegisterDuplicateCNIC(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentFixture(repo)

	req := RegisterStudentRequest{
		DepartmentID: "d1", BatchID: "b1", CNIC: "12345-1234567-1",
		RollNumber: "CS-001", FullName: "Ayesha Khan", FatherName: "Imran Khan",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	req.RollNumber = "CS-002"
	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceRegisterBatchDepartmentMismatch(t *testing.T) {
	svc := newStudentFixture(&mockStudentRepo{})

	_, err := svc.Register(context.Background(), RegisterStudentRequest{
		DepartmentID: "d1", BatchID: "b2", CNIC: "12345-1234567-1",
		RollNumber: "CS-001", FullName: "Ayesha Khan", FatherName: "Imran Khan",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateStatus(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{
		"st1": {ID: "st1", Status: models.StudentActive},
	}}
	svc := newStudentFixture(repo)

	// Dropping without a reason is rejected.
	err := svc.UpdateStatus(context.Background(), "st1", UpdateStudentStatusRequest{Status: models.StudentDropped})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "dropout_reason")

	reason := "family relocation"
	require.NoError(t, svc.UpdateStatus(context.Background(), "st1", UpdateStudentStatusRequest{
		Status: models.StudentDropped, DropoutReason: &reason,
	}))
	assert.Equal(t, models.StudentDropped, repo.status["st1"])
	require.NotNil(t, repo.reasons["st1"])
	assert.Equal(t, reason, *repo.reasons["st1"])

	// Reactivating clears any stale reason.
	stale := "should be cleared"
	require.NoError(t, svc.UpdateStatus(context.Background(), "st1", UpdateStudentStatusRequest{
		Status: models.StudentActive, DropoutReason: &stale,
	}))
	assert.Nil(t, repo.reasons["st1"])

	err = svc.UpdateStatus(context.Background(), "st1", UpdateStudentStatusRequest{Status: "expelled"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/models"
	"github.com/acadops/registrar-api/internal/repository"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

type mockBatchRepo struct {
	batches    map[string]models.Batch
	duplicate  bool
	created    *models.Batch
	statusSet  map[string]bool
	listResult []models.BatchDetail
}

func (m *mockBatchRepo) CreateIfUnique(ctx context.Context, batch *models.Batch) error {
	if m.duplicate {
		return repository.ErrNotApplied
	}
	if batch.ID == "" {
		batch.ID = "new-batch"
	}
	m.created = batch
	return nil
}

func (m *mockBatchRepo) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	if b, ok := m.batches[id]; ok {
		return &b, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBatchRepo) FindActiveByKey(ctx context.Context, departmentID string, startYear, endYear int) (*models.Batch, error) {
	return nil, sql.ErrNoRows
}

func (m *mockBatchRepo) List(ctx context.Context, filter models.BatchFilter) ([]models.BatchDetail, error) {
	return m.listResult, nil
}

func (m *mockBatchRepo) SetStatus(ctx context.Context, id string, status bool) error {
	if _, ok := m.batches[id]; !ok {
		return sql.ErrNoRows
	}
	if m.statusSet == nil {
		m.statusSet = make(map[string]bool)
	}
	m.statusSet[id] = status
	return nil
}

type mockDepartmentReader struct {
	departments map[string]*models.Department
}

func (m *mockDepartmentReader) FindByID(ctx context.Context, id string) (*models.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestClampStartYear(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 2025, ClampStartYear(2020, now))
	assert.Equal(t, 2025, ClampStartYear(2025, now))
	assert.Equal(t, 2026, ClampStartYear(2026, now))
	assert.Equal(t, 2027, ClampStartYear(2027, now))
	assert.Equal(t, 2027, ClampStartYear(2090, now))
}

func TestBatchServicePlan(t *testing.T) {
	svc := NewBatchService(&mockBatchRepo{}, &mockDepartmentReader{}, validator.New(), zap.NewNop(),
		fixedClock(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)))

	plan := svc.Plan(2026)
	assert.Equal(t, 2026, plan.StartYear)
	assert.Equal(t, 2030, plan.EndYear)
	assert.Equal(t, 4, plan.Duration)
	assert.Equal(t, "2026 - 2030", plan.Name)
}

func TestBatchServiceCreate(t *testing.T) {
	repo := &mockBatchRepo{}
	departments := &mockDepartmentReader{departments: map[string]*models.Department{
		"d1": {ID: "d1", Name: "Computer Science", Status: true},
	}}
	svc := NewBatchService(repo, departments, validator.New(), zap.NewNop(),
		fixedClock(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)))

	batch, err := svc.Create(context.Background(), CreateBatchRequest{DepartmentID: "d1", StartYear: 2099})
	require.NoError(t, err)
	assert.Equal(t, 2027, batch.StartYear)
	assert.Equal(t, 2031, batch.EndYear)
	assert.Equal(t, "2027 - 2031", batch.Name)
	assert.True(t, batch.Status)
	require.NotNil(t, repo.created)
}

func TestBatchServiceCreateDuplicate(t *testing.T) {
	repo := &mockBatchRepo{duplicate: true}
	departments := &mockDepartmentReader{departments: map[string]*models.Department{
		"d1": {ID: "d1", Status: true},
	}}
	svc := NewBatchService(repo, departments, validator.New(), zap.NewNop(),
		fixedClock(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)))

	_, err := svc.Create(context.Background(), CreateBatchRequest{DepartmentID: "d1", StartYear: 2026})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateBatch.Code, appErr.Code)
	assert.Nil(t, repo.created)
}

func TestBatchServiceCreateInactiveDepartment(t *testing.T) {
	departments := &mockDepartmentReader{departments: map[string]*models.Department{
		"d1": {ID: "d1", Status: false},
	}}
	svc := NewBatchService(&mockBatchRepo{}, departments, validator.New(), zap.NewNop(),
		fixedClock(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)))

	_, err := svc.Create(context.Background(), CreateBatchRequest{DepartmentID: "d1", StartYear: 2026})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBatchServiceCreateMissingDepartment(t *testing.T) {
	svc := NewBatchService(&mockBatchRepo{}, &mockDepartmentReader{}, validator.New(), zap.NewNop(),
		fixedClock(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)))

	_, err := svc.Create(context.Background(), CreateBatchRequest{DepartmentID: "ghost", StartYear: 2026})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBatchServiceSetStatus(t *testing.T) {
	repo := &mockBatchRepo{batches: map[string]models.Batch{"b1": {ID: "b1", Status: true}}}
	svc := NewBatchService(repo, &mockDepartmentReader{}, validator.New(), zap.NewNop(), nil)

	require.NoError(t, svc.SetStatus(context.Background(), "b1", false))
	assert.False(t, repo.statusSet["b1"])

	err := svc.SetStatus(context.Background(), "ghost", true)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

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
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

type mockResultRepo struct {
	results map[string]models.Result
	upserts int
}

func (m *mockResultRepo) key(studentID, subjectID, semesterID string) string {
	return studentID + "|" + subjectID + "|" + semesterID
}

func (m *mockResultRepo) Upsert(ctx context.Context, result *models.Result) error {
	if m.results == nil {
		m.results = make(map[string]models.Result)
	}
	m.results[m.key(result.StudentID, result.SubjectID, result.SemesterID)] = *result
	m.upserts++
	return nil
}

func (m *mockResultRepo) Find(ctx context.Context, studentID, subjectID, semesterID string) (*models.Result, error) {
	if r, ok := m.results[m.key(studentID, subjectID, semesterID)]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockResultRepo) ListByStudentAndSemester(ctx context.Context, studentID, semesterID string) ([]models.Result, error) {
	var list []models.Result
	for _, r := range m.results {
		if r.StudentID == studentID && r.SemesterID == semesterID {
			list = append(list, r)
		}
	}
	return list, nil
}

type mockStudentReader struct {
	students map[string]*models.Student
}

func (m *mockStudentReader) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockSubjectReader struct {
	subjects map[string]*models.Subject
}

func (m *mockSubjectReader) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func newResultFixture(repo *mockResultRepo) *ResultService {
	students := &mockStudentReader{students: map[string]*models.Student{
		"st1": {ID: "st1", Status: models.StudentActive},
	}}
	subjects := &mockSubjectReader{subjects: map[string]*models.Subject{
		"sub1": {ID: "sub1", Theory: 3, Practical: 1},
		"sub2": {ID: "sub2", Theory: 2, Practical: 0},
	}}
	semesters := &mockSemesterReader{semesters: map[string]*models.Semester{
		"sem1": {ID: "sem1", BatchID: "b1", Name: "Semester 1", SubjectIDs: []string{"sub1", "sub2"}},
	}}
	return NewResultService(repo, students, subjects, semesters, validator.New(), zap.NewNop())
}

func TestResultServiceSave(t *testing.T) {
	repo := &mockResultRepo{}
	svc := newResultFixture(repo)

	// Theory 3h, practical 1h: 60 theory marks (12/12/36) plus 20 practical.
	result, err := svc.Save(context.Background(), SaveResultRequest{
		StudentID:         "st1",
		SubjectID:         "sub1",
		SemesterID:        "sem1",
		PresentationMarks: 10,
		MidMarks:          10,
		FinalMarks:        30,
		PracticalMarks:    15,
	})
	require.NoError(t, err)
	assert.Equal(t, 80, result.TotalMarks)
	assert.InDelta(t, 65, result.TotalObtained, 1e-9)
	assert.InDelta(t, 81.25, result.Percentage, 1e-9)
	assert.Equal(t, "A-", result.Grade)
	assert.Equal(t, 1, repo.upserts)
}

func TestResultServiceSaveComponentOverCap(t *testing.T) {
	repo := &mockResultRepo{}
	svc := newResultFixture(repo)

	// Final cap for a 3-hour theory subject is 36; 37 is rejected outright,
	// never clamped.
	_, err := svc.Save(context.Background(), SaveResultRequest{
		StudentID:  "st1",
		SubjectID:  "sub1",
		SemesterID: "sem1",
		FinalMarks: 37,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "final_marks")
	assert.Zero(t, repo.upserts)
}

func TestResultServiceSaveOverwrites(t *testing.T) {
	repo := &mockResultRepo{}
	svc := newResultFixture(repo)

	_, err := svc.Save(context.Background(), SaveResultRequest{
		StudentID: "st1", SubjectID: "sub1", SemesterID: "sem1",
		PresentationMarks: 5, MidMarks: 5, FinalMarks: 20, PracticalMarks: 10,
	})
	require.NoError(t, err)

	// A re-save for the same key supersedes, never appends.
	updated, err := svc.Save(context.Background(), SaveResultRequest{
		StudentID: "st1", SubjectID: "sub1", SemesterID: "sem1",
		PresentationMarks: 12, MidMarks: 12, FinalMarks: 36, PracticalMarks: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.upserts)
	require.Len(t, repo.results, 1)

	assert.InDelta(t, 80, updated.TotalObtained, 1e-9)
	assert.InDelta(t, 100, updated.Percentage, 1e-9)
	assert.Equal(t, "A+", updated.Grade)
}

func TestResultServiceSaveAbsentPractical(t *testing.T) {
	repo := &mockResultRepo{}
	svc := newResultFixture(repo)

	// Theory-only subject: practical marks are zeroed, total is 40.
	result, err := svc.Save(context.Background(), SaveResultRequest{
		StudentID: "st1", SubjectID: "sub2", SemesterID: "sem1",
		PresentationMarks: 8, MidMarks: 8, FinalMarks: 24, PracticalMarks: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, result.TotalMarks)
	assert.Zero(t, result.PracticalMarks)
	assert.InDelta(t, 40, result.TotalObtained, 1e-9)
	assert.InDelta(t, 100, result.Percentage, 1e-9)
}

func TestResultServiceSaveSubjectOutsideCurriculum(t *testing.T) {
	svc := newResultFixture(&mockResultRepo{})

	_, err := svc.Save(context.Background(), SaveResultRequest{
		StudentID: "st1", SubjectID: "sub99", SemesterID: "sem1", FinalMarks: 10,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestResultServiceGet(t *testing.T) {
	repo := &mockResultRepo{}
	svc := newResultFixture(repo)

	_, err := svc.Get(context.Background(), "st1", "sub1", "sem1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Save(context.Background(), SaveResultRequest{
		StudentID: "st1", SubjectID: "sub1", SemesterID: "sem1", FinalMarks: 30,
	})
	require.NoError(t, err)

	result, err := svc.Get(context.Background(), "st1", "sub1", "sem1")
	require.NoError(t, err)
	assert.InDelta(t, 30, result.TotalObtained, 1e-9)
}

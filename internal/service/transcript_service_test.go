package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/models"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
	"github.com/acadops/registrar-api/pkg/export"
)

type mockStudentLookup struct {
	students map[string]*models.Student
	byCNIC   map[string]*models.Student
	reads    int
}

func (m *mockStudentLookup) FindByID(ctx context.Context, id string) (*models.Student, error) {
	m.reads++
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentLookup) FindByCNIC(ctx context.Context, cnic string) (*models.Student, error) {
	m.reads++
	if s, ok := m.byCNIC[cnic]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type stubTableExporter struct {
	rendered *export.Table
}

func (s *stubTableExporter) Render(table export.Table) ([]byte, error) {
	s.rendered = &table
	return []byte("csv"), nil
}

type stubDocExporter struct {
	rendered *export.Table
	title    string
}

func (s *stubDocExporter) Render(table export.Table, title string) ([]byte, error) {
	s.rendered = &table
	s.title = title
	return []byte("%PDF"), nil
}

func transcriptFixture() (*TranscriptService, *mockStudentLookup, *mockResultRepo, *stubTableExporter, *stubDocExporter) {
	students := &mockStudentLookup{
		students: map[string]*models.Student{
			"st1": {ID: "st1", BatchID: "b1", FullName: "Ayesha Khan", CNIC: "12345-1234567-1"},
		},
		byCNIC: map[string]*models.Student{
			"12345-1234567-1": {ID: "st1", BatchID: "b1", FullName: "Ayesha Khan", CNIC: "12345-1234567-1"},
		},
	}
	batches := &mockBatchReader{batches: map[string]*models.Batch{
		"b1": {ID: "b1", DepartmentID: "d1", Name: "2025 - 2029", Status: true},
	}}
	semesters := &mockSemesterReader{semesters: map[string]*models.Semester{
		"sem1": {ID: "sem1", BatchID: "b1", Name: "Semester 1", SubjectIDs: []string{"sub1", "sub2"}},
		"sem2": {ID: "sem2", BatchID: "b1", Name: "Semester 2"},
		"sem10": {ID: "sem10", BatchID: "b1", Name: "Semester 10"},
	}}
	subjects := &mockSubjectResolver{subjects: map[string]models.Subject{
		"sub1": {ID: "sub1", Code: "CSC-101", Name: "Programming", Theory: 3, Practical: 1},
		"sub2": {ID: "sub2", Code: "MTH-101", Name: "Calculus", Theory: 3, Practical: 0},
	}}
	results := &mockResultRepo{}
	csv := &stubTableExporter{}
	pdf := &stubDocExporter{}
	svc := NewTranscriptService(students, batches, semesters, subjects, results, csv, pdf, zap.NewNop())
	return svc, students, results, csv, pdf
}

func TestTranscriptBuild(t *testing.T) {
	svc, _, results, _, _ := transcriptFixture()
	require.NoError(t, results.Upsert(context.Background(), &models.Result{
		StudentID: "st1", SubjectID: "sub1", SemesterID: "sem1",
		TotalMarks: 80, TotalObtained: 65, Percentage: 81.25, Grade: "A-",
	}))

	transcript, err := svc.Build(context.Background(), "st1", "sem1")
	require.NoError(t, err)
	require.Len(t, transcript.Rows, 2)

	// Rows sort by subject code: CSC before MTH.
	assert.Equal(t, "CSC-101", transcript.Rows[0].Subject.Code)
	require.NotNil(t, transcript.Rows[0].Result)
	assert.Nil(t, transcript.Rows[1].Result)

	// Only the saved result feeds the aggregates: GPA 3.7 over 4 credit
	// hours, percentage from its marks alone.
	require.NotNil(t, transcript.GPA)
	assert.InDelta(t, 3.7, *transcript.GPA, 1e-9)
	require.NotNil(t, transcript.Percentage)
	assert.InDelta(t, 81.25, *transcript.Percentage, 1e-9)
	assert.Equal(t, "A", transcript.Grade)
}

func TestTranscriptBuildNoResults(t *testing.T) {
	svc, _, _, _, _ := transcriptFixture()

	transcript, err := svc.Build(context.Background(), "st1", "sem1")
	require.NoError(t, err)
	require.Len(t, transcript.Rows, 2)
	assert.Nil(t, transcript.GPA)
	assert.Nil(t, transcript.Percentage)
	assert.Empty(t, transcript.Grade)
}

func TestTranscriptLookupByNationalID(t *testing.T) {
	svc, students, _, _, _ := transcriptFixture()

	bundle, err := svc.LookupByNationalID(context.Background(), "12345-1234567-1")
	require.NoError(t, err)
	assert.Equal(t, "Ayesha Khan", bundle.Student.FullName)
	assert.Equal(t, "2025 - 2029", bundle.Batch.Name)

	// Public display order is lexicographic by name, so "Semester 10"
	// sorts between 1 and 2.
	require.Len(t, bundle.Semesters, 3)
	assert.Equal(t, "Semester 1", bundle.Semesters[0].Name)
	assert.Equal(t, "Semester 10", bundle.Semesters[1].Name)
	assert.Equal(t, "Semester 2", bundle.Semesters[2].Name)
	assert.Positive(t, students.reads)
}

func TestTranscriptLookupRejectsMalformedCNIC(t *testing.T) {
	svc, students, _, _, _ := transcriptFixture()

	for _, cnic := range []string{
		"",
		"1234512345671",
		"12345-1234567",
		"12345-1234567-12",
		"abcde-1234567-1",
		" 12345-1234567-1",
	} {
		_, err := svc.LookupByNationalID(context.Background(), cnic)
		require.Error(t, err, cnic)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
	// Malformed input is rejected before any store access.
	assert.Zero(t, students.reads)
}

func TestTranscriptLookupUnknownCNIC(t *testing.T) {
	svc, _, _, _, _ := transcriptFixture()

	_, err := svc.LookupByNationalID(context.Background(), "99999-9999999-9")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTranscriptExport(t *testing.T) {
	svc, _, results, csv, pdf := transcriptFixture()
	require.NoError(t, results.Upsert(context.Background(), &models.Result{
		StudentID: "st1", SubjectID: "sub1", SemesterID: "sem1",
		TotalMarks: 80, TotalObtained: 65, Percentage: 81.25, Grade: "A-",
	}))

	data, err := svc.ExportCSV(context.Background(), "st1", "sem1")
	require.NoError(t, err)
	assert.Equal(t, []byte("csv"), data)
	require.NotNil(t, csv.rendered)
	require.Len(t, csv.rendered.Rows, 2)
	assert.Equal(t, "65.0", csv.rendered.Rows[0]["Obtained"])
	// Unsaved subjects render as N/A in every mark column.
	assert.Equal(t, "N/A", csv.rendered.Rows[1]["Obtained"])
	require.NotEmpty(t, csv.rendered.Summary)
	assert.True(t, strings.HasPrefix(csv.rendered.Summary[0], "GPA:"))

	_, err = svc.ExportPDF(context.Background(), "st1", "sem1")
	require.NoError(t, err)
	assert.Equal(t, "Result Card - Semester 1", pdf.title)
}

func TestValidCNIC(t *testing.T) {
	assert.True(t, ValidCNIC("12345-1234567-1"))
	assert.False(t, ValidCNIC("12345-1234567-1 "))
	assert.False(t, ValidCNIC("12345_1234567_1"))
}

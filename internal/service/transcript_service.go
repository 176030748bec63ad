package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/acadops/registrar-api/internal/grading"
	"github.com/acadops/registrar-api/internal/models"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
	"github.com/acadops/registrar-api/pkg/export"
)

// cnicPattern is the formatted 13-digit national identity number used as
// the public lookup key.
var cnicPattern = regexp.MustCompile(`^\d{5}-\d{7}-\d$`)

// ValidCNIC reports whether the input matches the canonical CNIC format.
func ValidCNIC(cnic string) bool {
	return cnicPattern.MatchString(cnic)
}

type transcriptResultRepo interface {
	ListByStudentAndSemester(ctx context.Context, studentID, semesterID string) ([]models.Result, error)
}

type studentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByCNIC(ctx context.Context, cnic string) (*models.Student, error)
}

type tableExporter interface {
	Render(table export.Table) ([]byte, error)
}

type documentExporter interface {
	Render(table export.Table, title string) ([]byte, error)
}

// TranscriptService assembles per-semester gradebooks and the public
// result lookup.
type TranscriptService struct {
	students  studentLookup
	batches   batchReader
	semesters semesterReader
	subjects  subjectResolver
	results   transcriptResultRepo
	csv       tableExporter
	pdf       documentExporter
	logger    *zap.Logger
}

// NewTranscriptService constructs the service.
func NewTranscriptService(students studentLookup, batches batchReader, semesters semesterReader, subjects subjectResolver, results transcriptResultRepo, csv tableExporter, pdf documentExporter, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptService{
		students:  students,
		batches:   batches,
		semesters: semesters,
		subjects:  subjects,
		results:   results,
		csv:       csv,
		pdf:       pdf,
		logger:    logger,
	}
}

// Build joins a semester's subjects against the student's saved results.
// Subjects without a result keep a nil result entry and contribute nothing
// to the aggregates. Subject and result reads fan out concurrently and are
// joined by subject id.
func (s *TranscriptService) Build(ctx context.Context, studentID, semesterID string) (*models.Transcript, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load student")
	}
	semester, err := s.semesters.FindByID(ctx, semesterID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load semester")
	}

	var subjects []models.Subject
	var results []models.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subjects, err = s.subjects.ListByIDs(gctx, semester.SubjectIDs)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.results.ListByStudentAndSemester(gctx, studentID, semesterID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to assemble transcript")
	}

	resultsBySubject := make(map[string]models.Result, len(results))
	for _, result := range results {
		resultsBySubject[result.SubjectID] = result
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Code < subjects[j].Code })

	transcript := &models.Transcript{
		StudentID:    studentID,
		SemesterID:   semesterID,
		SemesterName: semester.Name,
		Rows:         make([]models.TranscriptRow, 0, len(subjects)),
	}
	var gpaEntries []grading.GPAEntry
	var obtainedSum, totalSum float64
	for _, subject := range subjects {
		row := models.TranscriptRow{Subject: subject}
		if result, ok := resultsBySubject[subject.ID]; ok {
			result := result
			row.Result = &result
			if result.TotalMarks > 0 {
				gpaEntries = append(gpaEntries, grading.GPAEntry{Letter: result.Grade, CreditHours: subject.CreditHours()})
				obtainedSum += result.TotalObtained
				totalSum += float64(result.TotalMarks)
			}
		}
		transcript.Rows = append(transcript.Rows, row)
	}

	if gpa, ok := grading.AggregateGPA(gpaEntries); ok {
		transcript.GPA = &gpa
		percentage := obtainedSum / totalSum * 100
		transcript.Percentage = &percentage
		transcript.Grade = grading.TranscriptScale.Letter(percentage)
	}
	return transcript, nil
}

// LookupByNationalID resolves the public transcript bundle for a CNIC. The
// format is checked before any store access; a malformed CNIC costs zero
// reads. Semesters are ordered lexicographically by name, the long-standing
// public display order (the staff screens sort numerically instead).
func (s *TranscriptService) LookupByNationalID(ctx context.Context, cnic string) (*models.TranscriptBundle, error) {
	if !ValidCNIC(cnic) {
		return nil, appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "invalid CNIC"),
			map[string]string{"cnic": "must match the NNNNN-NNNNNNN-N format"})
	}

	student, err := s.students.FindByCNIC(ctx, cnic)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no student registered under this CNIC")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to look up student")
	}

	batch, err := s.batches.FindByID(ctx, student.BatchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load batch")
	}

	semesters, err := s.semesters.ListByBatch(ctx, student.BatchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list semesters")
	}
	sort.Slice(semesters, func(i, j int) bool { return semesters[i].Name < semesters[j].Name })

	return &models.TranscriptBundle{Student: *student, Batch: *batch, Semesters: semesters}, nil
}

// ExportCSV renders one semester transcript as CSV.
func (s *TranscriptService) ExportCSV(ctx context.Context, studentID, semesterID string) ([]byte, error) {
	transcript, err := s.Build(ctx, studentID, semesterID)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(transcriptTable(transcript))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, nil
}

// ExportPDF renders one semester transcript as PDF.
func (s *TranscriptService) ExportPDF(ctx context.Context, studentID, semesterID string) ([]byte, error) {
	transcript, err := s.Build(ctx, studentID, semesterID)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Result Card - %s", transcript.SemesterName)
	data, err := s.pdf.Render(transcriptTable(transcript), title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, nil
}

func transcriptTable(transcript *models.Transcript) export.Table {
	table := export.Table{
		Headers: []string{"Code", "Subject", "Credit Hours", "Total", "Obtained", "Percentage", "Grade"},
	}
	for _, row := range transcript.Rows {
		record := map[string]string{
			"Code":         row.Subject.Code,
			"Subject":      row.Subject.Name,
			"Credit Hours": fmt.Sprintf("%d", row.Subject.CreditHours()),
			"Total":        "N/A",
			"Obtained":     "N/A",
			"Percentage":   "N/A",
			"Grade":        "N/A",
		}
		if row.Result != nil {
			record["Total"] = fmt.Sprintf("%d", row.Result.TotalMarks)
			record["Obtained"] = fmt.Sprintf("%.1f", row.Result.TotalObtained)
			record["Percentage"] = fmt.Sprintf("%.2f%%", row.Result.Percentage)
			record["Grade"] = row.Result.Grade
		}
		table.Rows = append(table.Rows, record)
	}
	if transcript.GPA != nil {
		table.Summary = append(table.Summary,
			fmt.Sprintf("GPA: %.2f", *transcript.GPA),
			fmt.Sprintf("Overall: %.2f%% (%s)", *transcript.Percentage, transcript.Grade))
	}
	return table
}

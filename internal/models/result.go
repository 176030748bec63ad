package models

import "time"

// Result is the graded outcome of one student in one subject in one
// semester. It is keyed on (student, subject, semester) and superseded on
// re-save, never appended. All derived fields are recomputed on every write.
type Result struct {
	ID                string    `db:"id" json:"id"`
	StudentID         string    `db:"student_id" json:"student_id"`
	SubjectID         string    `db:"subject_id" json:"subject_id"`
	SemesterID        string    `db:"semester_id" json:"semester_id"`
	TotalMarks        int       `db:"total_marks" json:"total_marks"`
	PresentationMarks float64   `db:"presentation_marks" json:"presentation_marks"`
	MidMarks          float64   `db:"mid_marks" json:"mid_marks"`
	FinalMarks        float64   `db:"final_marks" json:"final_marks"`
	PracticalMarks    float64   `db:"practical_marks" json:"practical_marks"`
	TotalObtained     float64   `db:"total_obtained" json:"total_obtained"`
	Percentage        float64   `db:"percentage" json:"percentage"`
	Grade             string    `db:"grade" json:"grade"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ResultFilter captures filtering criteria for listing results.
type ResultFilter struct {
	StudentID  string
	SubjectID  string
	SemesterID string
}

// TranscriptRow pairs a semester subject with the student's result for it.
// Result is nil when no marks were saved; such rows render as "N/A" and are
// excluded from aggregate totals.
type TranscriptRow struct {
	Subject Subject `json:"subject"`
	Result  *Result `json:"result,omitempty"`
}

// Transcript is one semester's gradebook for a student.
type Transcript struct {
	StudentID    string          `json:"student_id"`
	SemesterID   string          `json:"semester_id"`
	SemesterName string          `json:"semester_name"`
	Rows         []TranscriptRow `json:"rows"`
	GPA          *float64        `json:"gpa,omitempty"`
	Percentage   *float64        `json:"percentage,omitempty"`
	Grade        string          `json:"grade,omitempty"`
}

// TranscriptBundle is the public lookup payload: the student, their batch,
// and every semester of the batch ready for per-semester drill down.
type TranscriptBundle struct {
	Student   Student    `json:"student"`
	Batch     Batch      `json:"batch"`
	Semesters []Semester `json:"semesters"`
}

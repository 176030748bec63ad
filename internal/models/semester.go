package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SemesterStatus is derived from the date window at read time; it is never
// stored or cached beyond a single response.
type SemesterStatus string

const (
	SemesterUpcoming SemesterStatus = "Upcoming"
	SemesterCurrent  SemesterStatus = "Current"
	SemesterOutgoing SemesterStatus = "OutGoing"
)

// Semester is a fixed academic term (1..8) within a batch, carrying a date
// window and the set of subjects taught during it.
type Semester struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	BatchID      string    `db:"batch_id" json:"batch_id"`
	Name         string    `db:"name" json:"name"`
	StartDate    time.Time `db:"start_date" json:"start_date"`
	EndDate      time.Time `db:"end_date" json:"end_date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	SubjectIDs []string `json:"subject_ids"`
}

// SemesterDetail adds the derived status and resolved subjects for display.
type SemesterDetail struct {
	Semester
	Status   SemesterStatus `json:"status"`
	Subjects []Subject      `json:"subjects,omitempty"`
}

// SemesterName renders the canonical name for a term number.
func SemesterName(number int) string {
	return fmt.Sprintf("Semester %d", number)
}

// Number parses the trailing integer out of the semester name. Returns 0
// when the name does not follow the "Semester N" convention.
func (s Semester) Number() int {
	idx := strings.LastIndex(s.Name, " ")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(s.Name[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// StatusAt derives the semester status from the given instant.
func (s Semester) StatusAt(now time.Time) SemesterStatus {
	switch {
	case now.Before(s.StartDate):
		return SemesterUpcoming
	case now.After(s.EndDate):
		return SemesterOutgoing
	default:
		return SemesterCurrent
	}
}

// SemesterFilter captures filtering criteria for listing semesters.
type SemesterFilter struct {
	DepartmentID string
	BatchID      string
}

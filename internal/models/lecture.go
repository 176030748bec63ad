package models

import "time"

// LectureStatusActive marks an assignment that currently holds the
// (semester, subject, batch) slot.
const LectureStatusActive = "active"

// Lecture binds a teacher to a subject within one semester of one batch.
// At most one active lecture may exist per (semester, subject, batch), and a
// teacher may hold at most two active lectures within the same semester.
type Lecture struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	BatchID      string    `db:"batch_id" json:"batch_id"`
	SemesterID   string    `db:"semester_id" json:"semester_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	AssignedDate time.Time `db:"assigned_date" json:"assigned_date"`
	Status       string    `db:"status" json:"status"`
}

// LectureDetail enriches lectures with descriptive fields for listings.
type LectureDetail struct {
	Lecture
	TeacherName  string `db:"teacher_name" json:"teacher_name"`
	SubjectName  string `db:"subject_name" json:"subject_name"`
	SubjectCode  string `db:"subject_code" json:"subject_code"`
	SemesterName string `db:"semester_name" json:"semester_name"`
	BatchName    string `db:"batch_name" json:"batch_name"`
}

// LectureFilter captures filtering criteria for listing lectures.
type LectureFilter struct {
	DepartmentID string
	BatchID      string
	SemesterID   string
	TeacherID    string
}

// ScheduleSet names one of the two parallel weekly schedule groupings.
type ScheduleSet string

const (
	ScheduleSetA ScheduleSet = "A"
	ScheduleSetB ScheduleSet = "B"
)

// scheduleSets is a fixed partition of semester numbers into the two weekly
// schedules. It is a display grouping only and has no effect on assignment
// conflict rules.
var scheduleSets = map[int]ScheduleSet{
	1: ScheduleSetA, 2: ScheduleSetA, 5: ScheduleSetA, 6: ScheduleSetA,
	3: ScheduleSetB, 4: ScheduleSetB, 7: ScheduleSetB, 8: ScheduleSetB,
}

// ScheduleSetFor returns the weekly schedule grouping for a semester number,
// or false for numbers outside the 1..8 range.
func ScheduleSetFor(semesterNumber int) (ScheduleSet, bool) {
	set, ok := scheduleSets[semesterNumber]
	return set, ok
}

package models

import "time"

// StudentStatus tracks the enrollment lifecycle of a student.
type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentInactive  StudentStatus = "inactive"
	StudentDropped   StudentStatus = "dropped"
	StudentGraduated StudentStatus = "graduated"
)

// Student represents a learner registered in a department batch. CNIC is the
// formatted 13-digit national identity number used for public result lookup.
type Student struct {
	ID            string        `db:"id" json:"id"`
	DepartmentID  string        `db:"department_id" json:"department_id"`
	BatchID       string        `db:"batch_id" json:"batch_id"`
	CNIC          string        `db:"cnic" json:"cnic"`
	RollNumber    string        `db:"roll_number" json:"roll_number"`
	FullName      string        `db:"full_name" json:"full_name"`
	FatherName    string        `db:"father_name" json:"father_name"`
	Phone         string        `db:"phone" json:"phone"`
	Address       string        `db:"address" json:"address"`
	Status        StudentStatus `db:"status" json:"status"`
	DropoutReason *string       `db:"dropout_reason" json:"dropout_reason,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentDetail enriches students with department and batch names.
type StudentDetail struct {
	Student
	DepartmentName string `db:"department_name" json:"department_name"`
	BatchName      string `db:"batch_name" json:"batch_name"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	DepartmentID string
	BatchID      string
	Status       *StudentStatus
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

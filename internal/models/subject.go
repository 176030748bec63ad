package models

import "time"

// Subject represents a taught course unit. Theory and practical carry the
// weekly contact hours (0..6 each); credit hours weight the GPA aggregate.
type Subject struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Code         string    `db:"code" json:"sub_code"`
	Name         string    `db:"name" json:"name"`
	Theory       int       `db:"theory" json:"theory"`
	Practical    int       `db:"practical" json:"practical"`
	Status       bool      `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CreditHours is the GPA weighting factor: theory plus practical hours.
func (s Subject) CreditHours() int {
	return s.Theory + s.Practical
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	DepartmentID string
	Status       *bool
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

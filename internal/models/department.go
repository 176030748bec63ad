package models

import "time"

// Department is the top-level academic unit owning batches and subjects.
// Departments are deactivated, never hard-deleted, once referenced.
type Department struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Status    bool      `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DepartmentFilter captures filtering criteria for listing departments.
type DepartmentFilter struct {
	Status    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

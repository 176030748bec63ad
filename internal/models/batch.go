package models

import (
	"fmt"
	"time"
)

// BatchDurationYears is the fixed cohort span: every batch runs four years.
const BatchDurationYears = 4

// Batch is a cohort of students admitted in a given year.
type Batch struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	StartYear    int       `db:"start_year" json:"start_year"`
	EndYear      int       `db:"end_year" json:"end_year"`
	Duration     int       `db:"duration" json:"batch_duration"`
	Name         string    `db:"name" json:"name"`
	Status       bool      `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// BatchName derives the display name from the year range.
func BatchName(startYear, endYear int) string {
	return fmt.Sprintf("%d - %d", startYear, endYear)
}

// BatchDetail enriches a batch with its department name for listings. The
// department name falls back to "Unknown" when the reference is dangling.
type BatchDetail struct {
	Batch
	DepartmentName string `db:"department_name" json:"department_name"`
}

// BatchFilter captures filtering criteria for listing batches.
type BatchFilter struct {
	DepartmentID string
	Status       *bool
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the staff roles known to the system.
type UserRole string

const (
	RoleAdmin        UserRole = "ADMIN"
	RoleHOD          UserRole = "HOD"
	RoleTeacher      UserRole = "TEACHER"
	RoleDataOperator UserRole = "DATA_OPERATOR"
)

// Capability names a permitted operation set. Write paths authorize against
// capabilities, never against caller-supplied role strings.
type Capability string

const (
	CapManageCurriculum Capability = "manage-curriculum"
	CapAssignLectures   Capability = "assign-lectures"
	CapEnterMarks       Capability = "enter-marks"
	CapViewReports      Capability = "view-reports"
	CapManageStudents   Capability = "manage-students"
)

// roleCapabilities is the declarative role -> capability table.
var roleCapabilities = map[UserRole][]Capability{
	RoleAdmin:        {CapManageCurriculum, CapAssignLectures, CapEnterMarks, CapViewReports, CapManageStudents},
	RoleHOD:          {CapManageCurriculum, CapAssignLectures, CapViewReports, CapManageStudents},
	RoleTeacher:      {CapEnterMarks, CapViewReports},
	RoleDataOperator: {CapEnterMarks, CapViewReports, CapManageStudents},
}

// HasCapability reports whether the role grants the capability.
func (r UserRole) HasCapability(cap Capability) bool {
	for _, c := range roleCapabilities[r] {
		if c == cap {
			return true
		}
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// JWTClaims carries the authenticated identity inside access tokens.
type JWTClaims struct {
	UserID string   `json:"uid"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and user profile.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/acadops/registrar-api/internal/models"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
)

type mockUserRepo struct {
	users      map[string]*models.User
	lastLogins map[string]time.Time
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if m.lastLogins == nil {
		m.lastLogins = make(map[string]time.Time)
	}
	m.lastLogins[id] = ts
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo, time.Time) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "admin@college.edu", PasswordHash: string(hash), Role: models.RoleAdmin, Active: true},
		"u2": {ID: "u2", Email: "gone@college.edu", PasswordHash: string(hash), Role: models.RoleTeacher, Active: false},
	}}
	// Token expiry is validated against the wall clock during parsing, so
	// the injected clock has to stay anchored to the present.
	now := time.Now().UTC().Truncate(time.Second)
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		Secret:     "test-signing-secret",
		Expiration: time.Hour,
		Issuer:     "registrar-api",
	}, fixedClock(now))
	return svc, repo, now
}

func TestAuthServiceLogin(t *testing.T) {
	svc, repo, now := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "admin@college.edu", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, now.Add(time.Hour), resp.ExpiresAt)
	assert.Equal(t, "u1", resp.User.ID)
	assert.False(t, repo.lastLogins["u1"].IsZero())

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "admin@college.edu", Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "nobody@college.edu", Password: "s3cret-pass",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "gone@college.edu", Password: "s3cret-pass",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenTampered(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "admin@college.edu", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, models.RoleAdmin.HasCapability(models.CapManageCurriculum))
	assert.True(t, models.RoleHOD.HasCapability(models.CapAssignLectures))
	assert.False(t, models.RoleHOD.HasCapability(models.CapEnterMarks))
	assert.True(t, models.RoleTeacher.HasCapability(models.CapEnterMarks))
	assert.False(t, models.RoleTeacher.HasCapability(models.CapManageStudents))
	assert.True(t, models.RoleDataOperator.HasCapability(models.CapManageStudents))
	assert.False(t, models.RoleDataOperator.HasCapability(models.CapManageCurriculum))
}

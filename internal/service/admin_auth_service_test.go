package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	appErrors "github.com/Emmanuel10701/katwanyaa-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]models.User
	lastLogin map[string]time.Time
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if m.lastLogin == nil {
		m.lastLogin = make(map[string]time.Time)
	}
	m.lastLogin[id] = ts
	return nil
}

func newAdminFixture(t *testing.T) (*AdminAuthService, *mockUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockUserRepo{users: map[string]models.User{
		"admin@katwanyaa.sc.ke": {
			ID:           "u-1",
			Email:        "admin@katwanyaa.sc.ke",
			PasswordHash: string(hash),
			FullName:     "Jane Admin",
			Role:         models.RoleAdmin,
			Active:       true,
		},
	}}
	svc := NewAdminAuthService(repo, nil, nil, AdminAuthConfig{Secret: "admin-secret", Expiry: time.Hour})
	return svc, repo
}

func TestAdminLogin(t *testing.T) {
	svc, repo := newAdminFixture(t)

	res, err := svc.Login(context.Background(), models.AdminLoginRequest{
		Email:    "admin@katwanyaa.sc.ke",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "u-1", res.User.ID)
	assert.Contains(t, repo.lastLogin, "u-1")

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAdminLoginBadCredentials(t *testing.T) {
	svc, _ := newAdminFixture(t)

	_, err := svc.Login(context.Background(), models.AdminLoginRequest{
		Email:    "admin@katwanyaa.sc.ke",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials.Code))

	_, err = svc.Login(context.Background(), models.AdminLoginRequest{
		Email:    "nobody@katwanyaa.sc.ke",
		Password: "s3cret-pass",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials.Code),
		"unknown email and bad password are indistinguishable")
}

func TestAdminLoginInactiveAccount(t *testing.T) {
	svc, repo := newAdminFixture(t)
	user := repo.users["admin@katwanyaa.sc.ke"]
	user.Active = false
	repo.users["admin@katwanyaa.sc.ke"] = user

	_, err := svc.Login(context.Background(), models.AdminLoginRequest{
		Email:    "admin@katwanyaa.sc.ke",
		Password: "s3cret-pass",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInactiveAccount.Code))
}

func TestAdminValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAdminFixture(t)

	_, err := svc.ValidateToken("garbage")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized.Code))
}

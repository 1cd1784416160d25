package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	appErrors "github.com/Emmanuel10701/katwanyaa-api/pkg/errors"
)

type mockSchoolRepo struct {
	profile *models.SchoolProfile
	getErr  error
	updated *models.SchoolProfile
}

func (m *mockSchoolRepo) Get(ctx context.Context) (*models.SchoolProfile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.profile, nil
}

func (m *mockSchoolRepo) Update(ctx context.Context, profile *models.SchoolProfile) error {
	m.updated = profile
	return nil
}

func TestSchoolGet(t *testing.T) {
	repo := &mockSchoolRepo{profile: &models.SchoolProfile{ID: "sch-1", Name: "Katwanyaa High"}}
	svc := NewSchoolService(repo, nil, nil, time.Minute)

	profile, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Katwanyaa High", profile.Name)
}

func TestSchoolGetNotConfigured(t *testing.T) {
	svc := NewSchoolService(&mockSchoolRepo{getErr: sql.ErrNoRows}, nil, nil, time.Minute)

	_, err := svc.Get(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))
}

func TestSchoolGetRepoFailure(t *testing.T) {
	svc := NewSchoolService(&mockSchoolRepo{getErr: errors.New("connection reset")}, nil, nil, time.Minute)

	_, err := svc.Get(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal.Code))
}

func TestSchoolUpdateValidation(t *testing.T) {
	repo := &mockSchoolRepo{}
	svc := NewSchoolService(repo, nil, nil, time.Minute)

	err := svc.Update(context.Background(), &models.SchoolProfile{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
	assert.Nil(t, repo.updated)

	err = svc.Update(context.Background(), &models.SchoolProfile{ID: "sch-1", Name: "Katwanyaa High"})
	require.NoError(t, err)
	require.NotNil(t, repo.updated)
}

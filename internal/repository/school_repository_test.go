package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
)

func TestSchoolRepositoryGetDecodesJSONColumns(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	examJSON := []byte(`{"kcse-2023":{"document_path":"exams/kcse 2023.pdf","year":2023}}`)
	extraJSON := []byte(`[{"name":"Newsletter","path":"newsletters/term1.pdf","year":2024}]`)
	rows := sqlmock.NewRows([]string{"id", "name", "motto", "curriculum_doc_path", "fee_structure_day_path",
		"fee_structure_boarding_path", "admission_fee_doc_path", "video_tour_url", "exam_results", "additional_files", "updated_at"}).
		AddRow("school-1", "Katwanyaa High", "Excellence", nil, nil, nil, nil, "https://www.youtube.com/watch?v=tour", examJSON, extraJSON, time.Now())

	mock.ExpectQuery("SELECT id, name, motto(.+)FROM school_profiles ORDER BY updated_at DESC LIMIT 1").
		WillReturnRows(rows)

	profile, err := repo.Get(context.Background())
	require.NoError(t, err)
	require.Contains(t, profile.ExamResults, "kcse-2023")
	assert.Equal(t, "exams/kcse 2023.pdf", profile.ExamResults["kcse-2023"].DocumentPath)
	require.Len(t, profile.AdditionalFiles, 1)
	assert.Equal(t, "Newsletter", profile.AdditionalFiles[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectExec("UPDATE school_profiles SET").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	profile := &models.SchoolProfile{ID: "school-1", Name: "Katwanyaa High"}
	require.NoError(t, repo.Update(context.Background(), profile))
	assert.False(t, profile.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
)

// SchoolRepository manages the single school profile row.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs a SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// Get fetches the school profile.
func (r *SchoolRepository) Get(ctx context.Context) (*models.SchoolProfile, error) {
	const query = `SELECT id, name, motto, curriculum_doc_path, fee_structure_day_path, fee_structure_boarding_path,
        admission_fee_doc_path, video_tour_url, exam_results, additional_files, updated_at
        FROM school_profiles ORDER BY updated_at DESC LIMIT 1`
	var profile models.SchoolProfile
	if err := r.db.GetContext(ctx, &profile, query); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update persists profile changes.
func (r *SchoolRepository) Update(ctx context.Context, profile *models.SchoolProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE school_profiles SET name = :name, motto = :motto,
        curriculum_doc_path = :curriculum_doc_path, fee_structure_day_path = :fee_structure_day_path,
        fee_structure_boarding_path = :fee_structure_boarding_path, admission_fee_doc_path = :admission_fee_doc_path,
        video_tour_url = :video_tour_url, exam_results = :exam_results, additional_files = :additional_files,
        updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("update school profile: %w", err)
	}
	return nil
}

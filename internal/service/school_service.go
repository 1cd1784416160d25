package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	appErrors "github.com/Emmanuel10701/katwanyaa-api/pkg/errors"
)

const schoolProfileCacheKey = "school:profile"

type schoolRepository interface {
	Get(ctx context.Context) (*models.SchoolProfile, error)
	Update(ctx context.Context, profile *models.SchoolProfile) error
}

// SchoolService serves the school profile with cache-aside reads.
type SchoolService struct {
	repo   schoolRepository
	cache  *CacheService
	logger *zap.Logger
	ttl    time.Duration
}

// NewSchoolService constructs a SchoolService.
func NewSchoolService(repo schoolRepository, cache *CacheService, logger *zap.Logger, ttl time.Duration) *SchoolService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SchoolService{repo: repo, cache: cache, logger: logger, ttl: ttl}
}

// Get returns the school profile, preferring the cache.
func (s *SchoolService) Get(ctx context.Context) (*models.SchoolProfile, error) {
	var cached models.SchoolProfile
	if hit, _ := s.cache.Get(ctx, schoolProfileCacheKey, &cached); hit {
		return &cached, nil
	}

	profile, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school profile")
	}

	if err := s.cache.Set(ctx, schoolProfileCacheKey, profile, s.ttl); err != nil {
		s.logger.Warn("failed to cache school profile", zap.Error(err))
	}
	return profile, nil
}

// Update persists profile changes and invalidates the cached copy.
func (s *SchoolService) Update(ctx context.Context, profile *models.SchoolProfile) error {
	if profile.ID == "" || profile.Name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "profile id and name are required")
	}
	if err := s.repo.Update(ctx, profile); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update school profile")
	}
	if err := s.cache.Invalidate(ctx, schoolProfileCacheKey); err != nil {
		s.logger.Warn("failed to invalidate school profile cache", zap.Error(err))
	}
	return nil
}

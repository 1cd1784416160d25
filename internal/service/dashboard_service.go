package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
)

const dashboardCacheKey = "dashboard:overview"

type rosterCounter interface {
	CountActive(ctx context.Context) (int, error)
	CountByForm(ctx context.Context) (map[string]int, error)
}

type sessionCounter interface {
	CountActive(ctx context.Context, now time.Time) (int, error)
}

type fileLister interface {
	Aggregate(ctx context.Context, profile *models.SchoolProfile) []models.FileDescriptor
}

type profileGetter interface {
	Get(ctx context.Context) (*models.SchoolProfile, error)
}

// DashboardService composes the admin landing-page summary. The independent
// reads run concurrently and each tolerates failure by falling back to an
// empty block, so one broken source never blanks the whole dashboard.
type DashboardService struct {
	students rosterCounter
	sessions sessionCounter
	school   profileGetter
	files    fileLister
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
	cacheTTL time.Duration
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(students rosterCounter, sessions sessionCounter, school profileGetter, files fileLister, cache *CacheService, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{
		students: students,
		sessions: sessions,
		school:   school,
		files:    files,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
		cacheTTL: cacheTTL,
	}
}

// Overview gathers the dashboard counters, serving a cached copy when fresh.
func (s *DashboardService) Overview(ctx context.Context) (*models.DashboardOverview, bool, error) {
	var cached models.DashboardOverview
	if hit, _ := s.cache.Get(ctx, dashboardCacheKey, &cached); hit {
		return &cached, true, nil
	}

	overview := &models.DashboardOverview{GeneratedAt: s.now().UTC()}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		total, err := s.students.CountActive(ctx)
		if err != nil {
			s.logger.Warn("dashboard: student count failed", zap.Error(err))
			return
		}
		byForm, err := s.students.CountByForm(ctx)
		if err != nil {
			s.logger.Warn("dashboard: form breakdown failed", zap.Error(err))
			byForm = nil
		}
		overview.Students = models.DashboardStudents{TotalActive: total, ByForm: byForm}
	}()

	go func() {
		defer wg.Done()
		active, err := s.sessions.CountActive(ctx, s.now().UTC())
		if err != nil {
			s.logger.Warn("dashboard: session count failed", zap.Error(err))
			return
		}
		overview.Sessions = models.DashboardSessions{Active: active}
	}()

	go func() {
		defer wg.Done()
		profile, err := s.school.Get(ctx)
		if err != nil {
			s.logger.Warn("dashboard: school profile load failed", zap.Error(err))
			return
		}
		files := s.files.Aggregate(ctx, profile)
		byCategory := make(map[models.FileCategory]int)
		for _, fd := range files {
			byCategory[fd.Category]++
		}
		overview.Files = models.DashboardFiles{Total: len(files), ByCategory: byCategory}
	}()

	wg.Wait()

	if err := s.cache.Set(ctx, dashboardCacheKey, overview, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard overview", zap.Error(err))
	}
	return overview, false, nil
}

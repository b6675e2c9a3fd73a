package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/internal/repository"
)

const (
	statsCacheKey     = "stats:summary"
	statsCachePattern = "stats:*"
)

// StatsService aggregates the six collections.
type StatsService struct {
	repos  *repository.Repositories
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsService constructs a StatsService. cache may be nil.
func NewStatsService(repos *repository.Repositories, cache *CacheService, ttl time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repos: repos, cache: cache, ttl: ttl, logger: logger}
}

// Snapshot loads every collection and derives the summary in one pass.
func (s *StatsService) Snapshot(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	var err error
	if snap.Professors, err = s.repos.Professors.Load(ctx); err != nil {
		return models.Snapshot{}, err
	}
	if snap.Students, err = s.repos.Students.Load(ctx); err != nil {
		return models.Snapshot{}, err
	}
	if snap.Courses, err = s.repos.Courses.Load(ctx); err != nil {
		return models.Snapshot{}, err
	}
	if snap.Evaluations, err = s.repos.Evaluations.Load(ctx); err != nil {
		return models.Snapshot{}, err
	}
	if snap.Grades, err = s.repos.Grades.Load(ctx); err != nil {
		return models.Snapshot{}, err
	}
	if snap.Reviews, err = s.repos.Reviews.Load(ctx); err != nil {
		return models.Snapshot{}, err
	}

	snap.Stats = models.StatsSummary{
		Professors:   len(snap.Professors),
		Students:     len(snap.Students),
		Courses:      len(snap.Courses),
		Evaluations:  len(snap.Evaluations),
		Grades:       len(snap.Grades),
		Reviews:      len(snap.Reviews),
		AverageGrade: averageGrade(snap.Grades),
		GeneratedAt:  s.repos.Store.Now().UTC(),
	}
	return snap, nil
}

// Compute returns fresh statistics, bypassing the cache.
func (s *StatsService) Compute(ctx context.Context) (models.StatsSummary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.StatsSummary{}, err
	}
	return snap.Stats, nil
}

// Summary serves statistics from cache when enabled, computing and storing them on a miss.
func (s *StatsService) Summary(ctx context.Context) (models.StatsSummary, error) {
	var cached models.StatsSummary
	if hit, err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	summary, err := s.Compute(ctx)
	if err != nil {
		return models.StatsSummary{}, err
	}
	if err := s.cache.Set(ctx, statsCacheKey, summary, s.ttl); err != nil {
		s.logger.Debug("stats cache write skipped", zap.Error(err))
	}
	return summary, nil
}

// HandleMutation drops cached statistics after any store mutation.
func (s *StatsService) HandleMutation(ctx context.Context, event models.RecordEvent) {
	if err := s.cache.Invalidate(ctx, statsCachePattern); err != nil {
		s.logger.Warn("stats cache invalidation failed",
			zap.String("collection", string(event.Collection)),
			zap.Error(err),
		)
	}
}

func averageGrade(grades []models.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var total float64
	for _, g := range grades {
		total += g.Value
	}
	return math.Round(total/float64(len(grades))*100) / 100
}

package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-agent-api/internal/dto"
	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/internal/repository"
	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func TestStatsAverageRoundsToTwoDecimals(t *testing.T) {
	repos := newTestRepos(t)
	for _, value := range []float64{15.5, 12, 13.3} {
		_, err := repos.Grades.Insert(bg, models.Grade{StudentID: 1, EvaluationID: 1, Value: value})
		require.NoError(t, err)
	}
	_, err := repos.Professors.Insert(bg, models.Professor{Name: "Jean"})
	require.NoError(t, err)

	stats, err := NewStatsService(repos, nil, time.Minute, nil).Compute(bg)
	require.NoError(t, err)
	assert.Equal(t, 13.6, stats.AverageGrade)
	assert.Equal(t, 3, stats.Grades)
	assert.Equal(t, 1, stats.Professors)
	assert.Equal(t, testNow, stats.GeneratedAt)
}

func TestStatsOnEmptyStore(t *testing.T) {
	stats, err := NewStatsService(newTestRepos(t), nil, time.Minute, nil).Compute(bg)
	require.NoError(t, err)
	assert.Zero(t, stats.AverageGrade)
	assert.Zero(t, stats.Students)
}

func TestStatsSummaryServedFromCacheUntilMutation(t *testing.T) {
	cacheRepo := newMemoryCache()
	metrics := NewMetricsService()
	cache := NewCacheService(cacheRepo, metrics, time.Minute, nil, true)

	var stats *StatsService
	repos := newTestRepos(t, repository.WithMutationHook(func(ctx context.Context, event models.RecordEvent) {
		stats.HandleMutation(ctx, event)
	}))
	stats = NewStatsService(repos, cache, time.Minute, nil)

	first, err := stats.Summary(bg)
	require.NoError(t, err)
	assert.Zero(t, first.Students)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheMisses))

	creator := NewEntityCreator(repos, nil, nil, LenientCreation, nil)
	_, err = creator.CreateStudent(bg, dto.CreateStudentRequest{Name: ptr("Marie Martin")}, LenientCreation)
	require.NoError(t, err)
	assert.Equal(t, 1, cacheRepo.deletes)

	second, err := stats.Summary(bg)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Students)

	third, err := stats.Summary(bg)
	require.NoError(t, err)
	assert.Equal(t, second, third)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheHits))
}

func TestCacheServiceDisabled(t *testing.T) {
	cacheRepo := newMemoryCache()
	cache := NewCacheService(cacheRepo, nil, 0, nil, false)
	assert.False(t, cache.Enabled())

	require.NoError(t, cache.Set(bg, "stats:summary", 1, 0))
	hit, err := cache.Get(bg, "stats:summary", new(int))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, cacheRepo.entries)

	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	require.NoError(t, nilCache.Invalidate(bg, "stats:*"))
}

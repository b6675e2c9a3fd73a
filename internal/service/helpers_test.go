package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-agent-api/internal/repository"
	"github.com/noah-isme/edu-agent-api/pkg/storage"
)

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestRepos(t *testing.T, opts ...repository.StoreOption) *repository.Repositories {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	opts = append([]repository.StoreOption{repository.WithClock(func() time.Time { return testNow })}, opts...)
	return repository.NewRepositories(repository.NewRecordStore(repository.NewFileCollectionBackend(files), nil, opts...))
}

type testStack struct {
	repos      *repository.Repositories
	creator    *EntityCreator
	retriever  *DataRetriever
	stats      *StatsService
	registry   *ActionRegistry
	dispatcher *Dispatcher
	metrics    *MetricsService
}

func newTestStack(t *testing.T, policy CreationPolicy, quoteAware bool) *testStack {
	t.Helper()
	repos := newTestRepos(t)
	formatter := NewResponseFormatter()
	metrics := NewMetricsService()
	creator := NewEntityCreator(repos, validator.New(), formatter, policy, nil)
	stats := NewStatsService(repos, nil, time.Minute, nil)
	retriever := NewDataRetriever(repos, stats, formatter)
	registry := NewDefaultActionRegistry(creator, retriever)
	return &testStack{
		repos:      repos,
		creator:    creator,
		retriever:  retriever,
		stats:      stats,
		registry:   registry,
		dispatcher: NewDispatcher(registry, quoteAware, metrics, nil),
		metrics:    metrics,
	}
}

func ptr[T any](v T) *T { return &v }

var bg = context.Background()

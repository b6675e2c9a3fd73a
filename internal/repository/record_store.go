package repository

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-agent-api/internal/models"
)

// StoreObserver receives timing for every store operation.
type StoreObserver interface {
	ObserveStoreOperation(collection, operation string, duration time.Duration, err error)
}

// MutationHook is invoked after a successful insert, update or delete.
type MutationHook func(ctx context.Context, event models.RecordEvent)

// StoreOption customises a RecordStore.
type StoreOption func(*RecordStore)

// WithObserver attaches a store operation observer.
func WithObserver(observer StoreObserver) StoreOption {
	return func(s *RecordStore) { s.observer = observer }
}

// WithMutationHook registers a hook run after every successful mutation.
func WithMutationHook(hook MutationHook) StoreOption {
	return func(s *RecordStore) {
		if hook != nil {
			s.hooks = append(s.hooks, hook)
		}
	}
}

// WithClock overrides the time source used for date_creation and events.
func WithClock(now func() time.Time) StoreOption {
	return func(s *RecordStore) {
		if now != nil {
			s.now = now
		}
	}
}

// RecordStore owns the persisted collections and the per-collection locks that serialise
// read-modify-write cycles. Typed access goes through CollectionRepository.
type RecordStore struct {
	backend  CollectionBackend
	logger   *zap.Logger
	observer StoreObserver
	hooks    []MutationHook
	now      func() time.Time

	mu    sync.Mutex
	locks map[models.Collection]*sync.Mutex
}

// NewRecordStore constructs a RecordStore over the given backend.
func NewRecordStore(backend CollectionBackend, logger *zap.Logger, opts ...StoreOption) *RecordStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RecordStore{
		backend: backend,
		logger:  logger,
		now:     time.Now,
		locks:   make(map[models.Collection]*sync.Mutex, len(models.Collections)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddMutationHook registers a hook after construction.
func (s *RecordStore) AddMutationHook(hook MutationHook) {
	if hook == nil {
		return
	}
	s.mu.Lock()
	s.hooks = append(s.hooks, hook)
	s.mu.Unlock()
}

// Now returns the store clock reading.
func (s *RecordStore) Now() time.Time {
	return s.now()
}

func (s *RecordStore) lockFor(collection models.Collection) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[collection]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[collection] = lock
	}
	return lock
}

func (s *RecordStore) observe(collection models.Collection, operation string, start time.Time, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveStoreOperation(string(collection), operation, time.Since(start), err)
}

func (s *RecordStore) notify(ctx context.Context, collection models.Collection, op models.RecordOperation, id int) {
	s.mu.Lock()
	hooks := append([]MutationHook(nil), s.hooks...)
	s.mu.Unlock()
	if len(hooks) == 0 {
		return
	}
	event := models.RecordEvent{Type: op, Collection: collection, RecordID: id, OccurredAt: s.now().UTC()}
	for _, hook := range hooks {
		hook(ctx, event)
	}
}

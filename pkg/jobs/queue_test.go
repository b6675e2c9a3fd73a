package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	done := make(chan struct{}, 3)
	q := NewQueue("numbers", func(_ context.Context, job Job[int]) error {
		mu.Lock()
		seen = append(seen, job.Payload)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 2, BufferSize: 4})

	q.Start(context.Background())
	defer q.Stop()

	for i := 1; i <= 3; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job not processed")
		}
	}
	mu.Lock()
	assert.ElementsMatch(t, []int{1, 2, 3}, seen)
	mu.Unlock()
}

func TestQueueRetriesThenGivesUp(t *testing.T) {
	var attempts int32
	gaveUp := make(chan error, 1)
	q := NewQueue("failing", func(context.Context, Job[string]) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("broker down")
	}, QueueConfig{MaxRetries: 2, RetryDelay: 5 * time.Millisecond, OnGiveUp: func(err error) { gaveUp <- err }})

	q.Start(context.Background())
	defer q.Stop()
	require.NoError(t, q.Enqueue("event"))

	select {
	case err := <-gaveUp:
		assert.EqualError(t, err, "broker down")
	case <-time.After(2 * time.Second):
		t.Fatal("queue never gave up")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestEnqueueBeforeStartFails(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job[int]) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(1))
	assert.Error(t, q.TryEnqueue(1))
	q.Stop()
}

func TestTryEnqueueReportsFullBuffer(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	q := NewQueue("slow", func(ctx context.Context, _ Job[int]) error {
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())

	require.NoError(t, q.TryEnqueue(1))
	<-started
	require.NoError(t, q.TryEnqueue(2))
	assert.ErrorIs(t, q.TryEnqueue(3), ErrQueueFull)

	close(release)
	q.Stop()
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/pkg/events"
	"github.com/noah-isme/edu-agent-api/pkg/jobs"
)

// EventPublisher delivers one encoded event.
type EventPublisher interface {
	Publish(ctx context.Context, msg events.Message) error
}

// EventService forwards record mutations to the publisher through a worker queue so a slow broker
// never delays a store write.
type EventService struct {
	queue     *jobs.Queue[models.RecordEvent]
	publisher EventPublisher
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewEventService constructs an EventService.
func NewEventService(publisher EventPublisher, cfg jobs.QueueConfig, metrics *MetricsService, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EventService{publisher: publisher, metrics: metrics, logger: logger}
	cfg.Logger = logger
	cfg.OnGiveUp = func(err error) { metrics.RecordEventPublish(err) }
	s.queue = jobs.NewQueue("record-events", s.publish, cfg)
	return s
}

// Start launches the publishing workers.
func (s *EventService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for the workers to exit.
func (s *EventService) Stop() {
	s.queue.Stop()
}

// HandleMutation is registered as a store mutation hook.
func (s *EventService) HandleMutation(_ context.Context, event models.RecordEvent) {
	if err := s.queue.TryEnqueue(event); err != nil {
		s.logger.Warn("record event dropped",
			zap.String("type", string(event.Type)),
			zap.String("collection", string(event.Collection)),
			zap.Int("record_id", event.RecordID),
			zap.Error(err),
		)
		s.metrics.RecordEventPublish(err)
	}
}

func (s *EventService) publish(ctx context.Context, job jobs.Job[models.RecordEvent]) error {
	event := job.Payload
	err := s.publisher.Publish(ctx, events.Message{
		Key:   fmt.Sprintf("%s/%d", event.Collection, event.RecordID),
		Value: event,
		Time:  event.OccurredAt,
	})
	if err == nil {
		s.metrics.RecordEventPublish(nil)
	}
	return err
}

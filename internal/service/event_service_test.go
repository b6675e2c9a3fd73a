package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/internal/repository"
	"github.com/noah-isme/edu-agent-api/pkg/events"
	"github.com/noah-isme/edu-agent-api/pkg/jobs"
)

type channelPublisher struct {
	messages chan events.Message
	err      error
}

func (p *channelPublisher) Publish(_ context.Context, msg events.Message) error {
	if p.err != nil {
		return p.err
	}
	p.messages <- msg
	return nil
}

func TestEventServicePublishesStoreMutations(t *testing.T) {
	publisher := &channelPublisher{messages: make(chan events.Message, 4)}
	metrics := NewMetricsService()
	svc := NewEventService(publisher, jobs.QueueConfig{Workers: 1, BufferSize: 8}, metrics, nil)
	svc.Start(bg)
	defer svc.Stop()

	repos := newTestRepos(t, repository.WithMutationHook(svc.HandleMutation))
	_, err := repos.Courses.Insert(bg, models.Course{Name: "Python"})
	require.NoError(t, err)
	_, err = repos.Courses.DeleteByID(bg, 1)
	require.NoError(t, err)

	var got []events.Message
	for len(got) < 2 {
		select {
		case msg := <-publisher.messages:
			got = append(got, msg)
		case <-time.After(2 * time.Second):
			t.Fatalf("received %d of 2 events", len(got))
		}
	}

	assert.Equal(t, "cours/1", got[0].Key)
	created := got[0].Value.(models.RecordEvent)
	assert.Equal(t, models.RecordCreated, created.Type)
	assert.Equal(t, models.CollectionCourses, created.Collection)
	assert.Equal(t, models.RecordDeleted, got[1].Value.(models.RecordEvent).Type)

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.eventsTotal.WithLabelValues("published")) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestEventServiceDropsWhenNotRunning(t *testing.T) {
	publisher := &channelPublisher{messages: make(chan events.Message, 1)}
	metrics := NewMetricsService()
	svc := NewEventService(publisher, jobs.QueueConfig{}, metrics, nil)

	svc.HandleMutation(bg, models.RecordEvent{Type: models.RecordCreated, Collection: models.CollectionGrades, RecordID: 1})
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.eventsTotal.WithLabelValues("failed")))
	assert.Empty(t, publisher.messages)
}

func TestEventServiceCountsGiveUps(t *testing.T) {
	publisher := &channelPublisher{err: errors.New("broker down")}
	metrics := NewMetricsService()
	svc := NewEventService(publisher, jobs.QueueConfig{Workers: 1, MaxRetries: 0}, metrics, nil)
	svc.Start(bg)
	defer svc.Stop()

	svc.HandleMutation(bg, models.RecordEvent{Type: models.RecordUpdated, Collection: models.CollectionStudents, RecordID: 2})
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.eventsTotal.WithLabelValues("failed")) == 1
	}, time.Second, 10*time.Millisecond)
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *stubWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewKafkaPublisherValidatesConfig(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaConfig{Topic: "edu.records"})
	assert.Error(t, err)
	_, err = NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.Error(t, err)

	p, err := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "edu.records"})
	require.NoError(t, err)
	assert.Equal(t, "edu.records", p.Topic())
	require.NoError(t, p.Close())
}

func TestPublishEncodesJSON(t *testing.T) {
	w := &stubWriter{}
	p := newPublisherWithWriter(w, "edu.records")
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	err := p.Publish(context.Background(), Message{Key: "notes/3", Value: map[string]int{"record_id": 3}, Time: at})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	assert.Equal(t, "notes/3", string(w.messages[0].Key))
	assert.Equal(t, at, w.messages[0].Time)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &decoded))
	assert.Equal(t, 3, decoded["record_id"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishWrapsWriterError(t *testing.T) {
	p := newPublisherWithWriter(&stubWriter{err: errors.New("no leader")}, "edu.records")
	err := p.Publish(context.Background(), Message{Key: "k", Value: "v"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write event to edu.records")
}

package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestDeliverGroupsByTopic(t *testing.T) {
	writer := &stubWriter{}

	messages := []Message{
		{EventID: 1, EventType: "user.registered", Topic: "tracker_user_events", PartitionKey: "u-1", Payload: json.RawMessage(`{"user_id":"u-1"}`)},
		{EventID: 2, EventType: "exercise.logged", Topic: "tracker_exercise_events", PartitionKey: "u-1", Payload: json.RawMessage(`{"exercise_id":"e-1"}`)},
		{EventID: 3, EventType: "exercise.logged", Topic: "tracker_exercise_events", PartitionKey: "u-2", Payload: json.RawMessage(`{"exercise_id":"e-2"}`)},
	}

	err := deliver(context.Background(), writer, messages)
	require.NoError(t, err)

	require.Len(t, writer.batches["tracker_user_events"], 1)
	require.Len(t, writer.batches["tracker_exercise_events"], 2)

	record := writer.batches["tracker_exercise_events"][0]
	require.Equal(t, "u-1", string(record.Key))
	require.JSONEq(t, `{"exercise_id":"e-1"}`, string(record.Value))

	require.Len(t, record.Headers, 1)
	require.Equal(t, "event_type", record.Headers[0].Key)
	require.Equal(t, "exercise.logged", string(record.Headers[0].Value))
}

func TestDeliverStopsOnWriterError(t *testing.T) {
	boom := errors.New("broker unavailable")
	writer := &stubWriter{err: boom}

	messages := []Message{
		{EventID: 1, EventType: "user.registered", Topic: "tracker_user_events", PartitionKey: "u-1", Payload: json.RawMessage(`{}`)},
	}

	err := deliver(context.Background(), writer, messages)
	require.ErrorIs(t, err, boom)
}

type stubWriter struct {
	batches map[string][]kafka.Message
	err     error
}

func (s *stubWriter) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	if s.batches == nil {
		s.batches = make(map[string][]kafka.Message)
	}
	s.batches[topic] = append(s.batches[topic], msgs...)
	return nil
}

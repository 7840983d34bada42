package events

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/sograves/hpk14-padel/internal/domain"
)

type stubWriter struct {
	messages []kafka.Message
	err      error
}

func (w *stubWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *stubWriter) Close() error { return nil }

func TestPublishActivityEvent(t *testing.T) {
	writer := &stubWriter{}
	publisher := &Publisher{writer: writer, logger: log.New(io.Discard, "", 0)}

	occurred := time.Date(2099, 1, 1, 18, 0, 0, 0, time.UTC)
	publisher.PublishActivityEvent(context.Background(), domain.ActivityEvent{
		Type:         "activity.created",
		ActivityID:   "a1",
		Name:         "Padel",
		ActivityType: "training",
		Date:         occurred,
		OccurredAt:   occurred,
	})

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	require.Equal(t, "a1", string(msg.Key))
	require.Equal(t, occurred, msg.Time)
	require.Len(t, msg.Headers, 1)
	require.Equal(t, "event_type", msg.Headers[0].Key)
	require.Equal(t, "activity.created", string(msg.Headers[0].Value))
	require.JSONEq(t, `{
        "type": "activity.created",
        "activity_id": "a1",
        "name": "Padel",
        "activity_type": "training",
        "date": "2099-01-01T18:00:00Z",
        "occurred_at": "2099-01-01T18:00:00Z"
    }`, string(msg.Value))
}

func TestPublishSwallowsBrokerErrors(t *testing.T) {
	writer := &stubWriter{err: errors.New("broker down")}
	publisher := &Publisher{writer: writer, logger: log.New(io.Discard, "", 0)}

	// Must not panic or surface the error; publishing is best effort.
	publisher.PublishActivityEvent(context.Background(), domain.ActivityEvent{
		Type:       "activity.deleted",
		ActivityID: "a1",
		OccurredAt: time.Now().UTC(),
	})
	require.Empty(t, writer.messages)
}

// Package events publishes activity lifecycle notifications to Kafka.
//
// Publishing is best effort and happens inline after a successful write: a
// broker failure is logged and never surfaces in the HTTP response.
package events

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/segmentio/kafka-go"

	"github.com/sograves/hpk14-padel/internal/domain"
)

// Topic carries every activity lifecycle event.
const Topic = "board.activity_events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits activity events to a Kafka topic.
type Publisher struct {
	writer messageWriter
	logger *log.Logger
}

// NewKafkaPublisher creates a Publisher writing to the given brokers.
func NewKafkaPublisher(brokers []string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        Topic,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	return &Publisher{writer: writer, logger: logger}
}

// PublishActivityEvent writes one event, keyed by activity id so consumers
// see per-activity ordering.
func (p *Publisher) PublishActivityEvent(ctx context.Context, event domain.ActivityEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Printf("marshal %s event for activity %s: %v", event.Type, event.ActivityID, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.ActivityID),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Printf("publish %s event for activity %s: %v", event.Type, event.ActivityID, err)
	}
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

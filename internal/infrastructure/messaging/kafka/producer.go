package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	segkafka "github.com/segmentio/kafka-go"

	"github.com/turtacn/LexDocket/internal/config"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexDocket/pkg/errors"
)

const schemaVersion = "1.0"

// WriterInterface abstracts the kafka writer for testability.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...segkafka.Message) error
	Close() error
}

// Producer implements the cascade engine's EventPublisher over kafka.
type Producer struct {
	writer WriterInterface
	source string
	log    logging.Logger
	now    func() time.Time
}

// NewProducer builds a producer writing to the configured brokers.  Topic
// selection happens per message, so one writer serves every docket topic.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	writer := &segkafka.Writer{
		Addr:         segkafka.TCP(cfg.Brokers...),
		Balancer:     &segkafka.Hash{},
		RequiredAcks: segkafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Producer{
		writer: writer,
		source: cfg.ClientID,
		log:    log.Named("kafka"),
		now:    time.Now,
	}
}

// NewProducerWithWriter builds a producer over a supplied writer, for tests.
func NewProducerWithWriter(writer WriterInterface, source string, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Producer{writer: writer, source: source, log: log.Named("kafka"), now: time.Now}
}

// Publish wraps the payload in an event envelope and writes it to the topic
// for its event type.
func (p *Producer) Publish(ctx context.Context, eventType string, payload interface{}) error {
	envelope := EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        p.source,
		Timestamp:     p.now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       payload,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode event envelope")
	}

	msg := segkafka.Message{
		Topic: topicForEvent(eventType),
		Key:   []byte(eventType),
		Value: value,
		Headers: []segkafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "schema-version", Value: []byte(schemaVersion)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "publish event")
	}
	p.log.Debug("event published",
		logging.String("event_type", eventType),
		logging.String("event_id", envelope.EventID))
	return nil
}

// Close flushes and releases the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

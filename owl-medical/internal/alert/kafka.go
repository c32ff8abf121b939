package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"owl-care/owl-common/config"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaService produces alerts keyed by patient id
type KafkaService struct {
	writer messageWriter
}

// NewKafkaWriter writer for cfg.Topic; connections are opened lazily
func NewKafkaWriter(cfg *config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// NewKafkaService creates a Kafka alert sink
func NewKafkaService(writer messageWriter) *KafkaService {
	return &KafkaService{writer: writer}
}

// Send writes one message keyed by patient id
func (s *KafkaService) Send(ctx context.Context, message string) error {
	msg := newMessage(ctx, message)
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}
	if err := s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.PatientID),
		Value: value,
		Time:  msg.SentAt,
	}); err != nil {
		return fmt.Errorf("failed to write alert to kafka: %w", err)
	}
	return nil
}

// Close flushes and closes the writer
func (s *KafkaService) Close() error {
	return s.writer.Close()
}

package alert

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher implemented by owl-common/mqtt.Client
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTService publishes alerts as JSON to one topic
type MQTTService struct {
	publisher Publisher
	topic     string
	qos       byte
}

// NewMQTTService creates an MQTT alert sink
func NewMQTTService(publisher Publisher, topic string, qos byte) *MQTTService {
	return &MQTTService{publisher: publisher, topic: topic, qos: qos}
}

// Send publishes one JSON Message
func (s *MQTTService) Send(ctx context.Context, message string) error {
	payload, err := json.Marshal(newMessage(ctx, message))
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}
	return s.publisher.Publish(s.topic, s.qos, false, payload)
}

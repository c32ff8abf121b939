package consumer

import (
	"context"
	"fmt"
	"time"

	mqttcommon "owl-care/owl-common/mqtt"
	"owl-care/owl-medical/internal/config"
	"owl-care/owl-medical/internal/metrics"
	"owl-care/owl-medical/internal/models"

	"go.uber.org/zap"
)

const mqttCheckTimeout = 10 * time.Second

// Subscriber implemented by owl-common/mqtt.Client
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqttcommon.MessageHandler) error
	Unsubscribe(topics ...string) error
}

// MQTTConsumer feeds measurements published by bedside devices into the checker.
// Payloads use the same JSON shape as the stream's data field.
type MQTTConsumer struct {
	config     *config.Config
	subscriber Subscriber
	checker    Checker
	logger     *zap.Logger

	ctx context.Context
}

// NewMQTTConsumer builds a consumer for cfg.Ingest
func NewMQTTConsumer(cfg *config.Config, subscriber Subscriber, checker Checker, logger *zap.Logger) *MQTTConsumer {
	return &MQTTConsumer{
		config:     cfg,
		subscriber: subscriber,
		checker:    checker,
		logger:     logger,
		ctx:        context.Background(),
	}
}

// Start subscribes and blocks until ctx is cancelled, then unsubscribes
func (c *MQTTConsumer) Start(ctx context.Context) error {
	topic := c.config.Ingest.Topic
	c.ctx = ctx
	if err := c.subscriber.Subscribe(topic, c.config.MQTT.QoS, c.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to measurement topic: %w", err)
	}

	c.logger.Info("MQTT measurement consumer started", zap.String("topic", topic))

	<-ctx.Done()

	if err := c.subscriber.Unsubscribe(topic); err != nil {
		c.logger.Error("Failed to unsubscribe", zap.String("topic", topic), zap.Error(err))
	}
	c.logger.Info("MQTT measurement consumer stopped")
	return nil
}

// handleMessage errors are logged by the MQTT client
func (c *MQTTConsumer) handleMessage(topic string, payload []byte) error {
	c.logger.Debug("Received MQTT measurement",
		zap.String("topic", topic),
		zap.Int("payload_size", len(payload)),
	)

	m, err := models.DecodeMeasurement(payload)
	if err != nil {
		metrics.MeasurementsConsumedTotal.WithLabelValues(sourceMQTT, "invalid").Inc()
		return fmt.Errorf("dropping invalid measurement from %s: %w", topic, err)
	}

	ctx, cancel := context.WithTimeout(c.ctx, mqttCheckTimeout)
	defer cancel()
	if err := dispatch(ctx, c.checker, m); err != nil {
		metrics.MeasurementsConsumedTotal.WithLabelValues(sourceMQTT, "failed").Inc()
		return fmt.Errorf("failed to check %s measurement for patient %s: %w", m.Kind, m.PatientID, err)
	}
	metrics.MeasurementsConsumedTotal.WithLabelValues(sourceMQTT, "processed").Inc()
	return nil
}

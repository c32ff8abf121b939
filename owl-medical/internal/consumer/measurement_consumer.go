package consumer

import (
	"context"
	"fmt"
	"time"

	rediscommon "owl-care/owl-common/redis"
	"owl-care/owl-medical/internal/config"
	"owl-care/owl-medical/internal/metrics"
	"owl-care/owl-medical/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// MeasurementConsumer feeds stream measurements into the checker.
// Every entry read is acknowledged, including ones that failed to parse or check.
type MeasurementConsumer struct {
	config      *config.Config
	redisClient *redis.Client
	checker     Checker
	logger      *zap.Logger
}

// NewMeasurementConsumer builds a consumer for cfg.Consumer; the group is created on Start
func NewMeasurementConsumer(cfg *config.Config, redisClient *redis.Client, checker Checker, logger *zap.Logger) *MeasurementConsumer {
	return &MeasurementConsumer{
		config:      cfg,
		redisClient: redisClient,
		checker:     checker,
		logger:      logger,
	}
}

// Start creates the consumer group and consumes until ctx is cancelled
func (c *MeasurementConsumer) Start(ctx context.Context) error {
	cc := c.config.Consumer
	if err := rediscommon.CreateConsumerGroup(ctx, c.redisClient, cc.Stream, cc.Group); err != nil {
		return fmt.Errorf("failed to create consumer group for %s: %w", cc.Stream, err)
	}

	c.logger.Info("Measurement consumer started",
		zap.String("stream", cc.Stream),
		zap.String("consumer_group", cc.Group),
		zap.String("consumer_name", cc.Name),
	)

	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if _, err := c.ConsumeOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to consume measurements",
				zap.Error(err),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
			}
			continue
		}
		backoff = time.Second
	}
}

// ConsumeOnce reads one batch, processes it and acks it. Returns the number of entries read.
func (c *MeasurementConsumer) ConsumeOnce(ctx context.Context) (int, error) {
	cc := c.config.Consumer
	messages, err := rediscommon.ReadFromStream(ctx, c.redisClient, cc.Stream, cc.Group, cc.Name, cc.BatchSize, cc.Block)
	if err != nil {
		return 0, fmt.Errorf("failed to read from stream %s: %w", cc.Stream, err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		c.processMessage(ctx, msg)
		ids = append(ids, msg.ID)
	}

	if err := rediscommon.AckMessage(ctx, c.redisClient, cc.Stream, cc.Group, ids...); err != nil {
		return len(messages), fmt.Errorf("failed to ack measurements: %w", err)
	}
	return len(messages), nil
}

func (c *MeasurementConsumer) processMessage(ctx context.Context, msg rediscommon.StreamMessage) {
	m, err := models.ParseMeasurement(msg.Values)
	if err != nil {
		c.logger.Warn("Dropping invalid measurement",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		metrics.MeasurementsConsumedTotal.WithLabelValues(sourceStream, "invalid").Inc()
		return
	}

	if err := dispatch(ctx, c.checker, m); err != nil {
		c.logger.Error("Failed to check measurement",
			zap.String("message_id", msg.ID),
			zap.String("patient_id", m.PatientID),
			zap.String("kind", m.Kind),
			zap.Error(err),
		)
		metrics.MeasurementsConsumedTotal.WithLabelValues(sourceStream, "failed").Inc()
		return
	}
	metrics.MeasurementsConsumedTotal.WithLabelValues(sourceStream, "processed").Inc()
}

package alert

import (
	"context"
	"fmt"

	rediscommon "owl-care/owl-common/redis"

	"github.com/go-redis/redis/v8"
)

// StreamService appends alerts to a Redis stream ({"data": <json>, "timestamp": ...})
type StreamService struct {
	client *redis.Client
	stream string
}

// NewStreamService creates a Redis Streams alert sink
func NewStreamService(client *redis.Client, stream string) *StreamService {
	return &StreamService{client: client, stream: stream}
}

func (s *StreamService) Send(ctx context.Context, message string) error {
	if _, err := rediscommon.PublishJSONToStream(ctx, s.client, s.stream, newMessage(ctx, message)); err != nil {
		return fmt.Errorf("failed to publish alert to stream %s: %w", s.stream, err)
	}
	return nil
}

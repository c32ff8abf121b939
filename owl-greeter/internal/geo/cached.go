package geo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"owl-care/owl-greeter/internal/entity"
	"owl-care/owl-greeter/internal/metrics"
	"owl-care/owl-greeter/internal/store"

	"go.uber.org/zap"
)

const cacheKeyPrefix = "geo:ip:"

// negativeEntry marks an IP that resolved to nothing
const negativeEntry = "null"

// CachedService read-through cache in front of another Service.
// Cache failures fall through to the wrapped service.
type CachedService struct {
	next   Service
	kv     store.KV
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedService wraps next with a Redis read-through cache
func NewCachedService(next Service, kv store.KV, ttl time.Duration, logger *zap.Logger) *CachedService {
	return &CachedService{next: next, kv: kv, ttl: ttl, logger: logger}
}

func cacheKey(ip string) string {
	return cacheKeyPrefix + ip
}

// ByIP serves from cache, falling through to next on miss or cache error
func (s *CachedService) ByIP(ctx context.Context, ip string) *entity.Location {
	key := cacheKey(ip)

	raw, err := s.kv.Get(ctx, key)
	switch {
	case err == nil:
		if loc, ok := s.decode(ip, raw); ok {
			metrics.GeoLookupsTotal.WithLabelValues(SourceCache, resultHit).Inc()
			return loc
		}
	case errors.Is(err, store.ErrMiss):
	default:
		s.logger.Warn("Failed to read geo cache", zap.String("key", key), zap.Error(err))
	}
	metrics.GeoLookupsTotal.WithLabelValues(SourceCache, resultMiss).Inc()

	loc := s.next.ByIP(ctx, ip)

	value := negativeEntry
	if loc != nil {
		b, err := json.Marshal(loc)
		if err != nil {
			s.logger.Warn("Failed to encode location", zap.String("ip", ip), zap.Error(err))
			return loc
		}
		value = string(b)
	}
	if err := s.kv.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("Failed to write geo cache", zap.String("key", key), zap.Error(err))
	}
	return loc
}

// decode returns ok=false for corrupt entries so they get refreshed
func (s *CachedService) decode(ip, raw string) (*entity.Location, bool) {
	if raw == negativeEntry {
		return nil, true
	}
	var loc entity.Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		s.logger.Warn("Corrupt geo cache entry", zap.String("ip", ip), zap.Error(err))
		return nil, false
	}
	return &loc, true
}

package geo

import (
	"context"

	"owl-care/owl-greeter/internal/entity"
)

// Service resolves a client IP to a Location; nil means the IP is unknown.
// Lookup failures are reported as nil, never as errors.
type Service interface {
	ByIP(ctx context.Context, ip string) *entity.Location
}

const (
	SourceStatic   = "static"
	SourcePostgres = "postgres"
	SourceCache    = "cache"
)

const (
	resultFound    = "found"
	resultNotFound = "not_found"
	resultError    = "error"
	resultHit      = "hit"
	resultMiss     = "miss"
)

func lookupResult(loc *entity.Location) string {
	if loc == nil {
		return resultNotFound
	}
	return resultFound
}

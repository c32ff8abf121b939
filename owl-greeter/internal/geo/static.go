package geo

import (
	"context"
	"strings"

	"owl-care/owl-greeter/internal/entity"
	"owl-care/owl-greeter/internal/metrics"
)

const (
	LocalhostIP = "127.0.0.1"
	MoscowIP    = "172.0.32.11"
	NewYorkIP   = "96.44.183.149"
)

// StaticService built-in lookup table. Exact addresses win over prefixes.
type StaticService struct{}

// NewStaticService creates the built-in lookup table
func NewStaticService() *StaticService {
	return &StaticService{}
}

// ByIP counts every lookup by result
func (s *StaticService) ByIP(_ context.Context, ip string) *entity.Location {
	loc := staticLookup(ip)
	metrics.GeoLookupsTotal.WithLabelValues(SourceStatic, lookupResult(loc)).Inc()
	return loc
}

func staticLookup(ip string) *entity.Location {
	switch {
	case ip == LocalhostIP:
		return &entity.Location{}
	case ip == MoscowIP:
		return &entity.Location{City: "Moscow", Country: entity.Russia, Street: "Lenina", Building: 15}
	case ip == NewYorkIP:
		return &entity.Location{City: "New York", Country: entity.USA, Street: " 10th Avenue", Building: 32}
	case strings.HasPrefix(ip, "172."):
		return &entity.Location{City: "Moscow", Country: entity.Russia}
	case strings.HasPrefix(ip, "96."):
		return &entity.Location{City: "New York", Country: entity.USA}
	default:
		return nil
	}
}

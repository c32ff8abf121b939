package sender

import (
	"context"

	"owl-care/owl-greeter/internal/entity"
	"owl-care/owl-greeter/internal/geo"
	"owl-care/owl-greeter/internal/i18n"
	"owl-care/owl-greeter/internal/metrics"

	"go.uber.org/zap"
)

// IPAddressHeader header carrying the client address, set by the reverse proxy
const IPAddressHeader = "x-real-ip"

// DefaultCountry used whenever the client location cannot be resolved
const DefaultCountry = entity.USA

// MessageSender picks a greeting for the caller's location
type MessageSender struct {
	geo    geo.Service
	i18n   i18n.Service
	logger *zap.Logger
}

// NewMessageSender creates the greeting sender
func NewMessageSender(geoService geo.Service, localization i18n.Service, logger *zap.Logger) *MessageSender {
	return &MessageSender{
		geo:    geoService,
		i18n:   localization,
		logger: logger,
	}
}

// Send never fails: a missing, empty or "null" address, an unknown
// address and a location without country all produce the USA greeting.
func (s *MessageSender) Send(ctx context.Context, headers map[string]string) string {
	ip := headers[IPAddressHeader]
	if ip != "" && ip != "null" {
		loc := s.geo.ByIP(ctx, ip)
		if loc.HasCountry() {
			s.logger.Debug("Greeting by client location",
				zap.String("ip", ip),
				zap.String("country", string(loc.Country)),
			)
			metrics.GreetingsTotal.WithLabelValues(string(loc.Country)).Inc()
			return s.i18n.Locale(loc.Country)
		}
	}

	s.logger.Debug("Client location unresolved, using default greeting", zap.String("ip", ip))
	metrics.GreetingsTotal.WithLabelValues("default").Inc()
	return s.i18n.Locale(DefaultCountry)
}

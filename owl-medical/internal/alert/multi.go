package alert

import (
	"context"
	"errors"
	"fmt"

	"owl-care/owl-medical/internal/metrics"

	"go.uber.org/zap"
)

// Sink a named delivery channel
type Sink struct {
	Name    string
	Service Service
}

// MultiService delivers to every sink. A failing sink does not stop the others;
// the joined error names each one that failed.
type MultiService struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewMultiService fans out to sinks in order
func NewMultiService(logger *zap.Logger, sinks ...Sink) *MultiService {
	return &MultiService{sinks: sinks, logger: logger}
}

// Send tries every sink once and joins the failures
func (s *MultiService) Send(ctx context.Context, message string) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Service.Send(ctx, message); err != nil {
			s.logger.Error("Failed to deliver alert",
				zap.String("sink", sink.Name),
				zap.String("patient_id", PatientIDFromContext(ctx)),
				zap.Error(err),
			)
			metrics.AlertsTotal.WithLabelValues(sink.Name, "failed").Inc()
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name, err))
			continue
		}
		metrics.AlertsTotal.WithLabelValues(sink.Name, "sent").Inc()
	}
	return errors.Join(errs...)
}

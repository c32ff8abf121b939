package alert

import (
	"context"

	"go.uber.org/zap"
)

// LogService writes alerts to the service log
type LogService struct {
	logger *zap.Logger
}

// NewLogService creates a log alert sink
func NewLogService(logger *zap.Logger) *LogService {
	return &LogService{logger: logger}
}

func (s *LogService) Send(ctx context.Context, message string) error {
	s.logger.Warn(message, zap.String("patient_id", PatientIDFromContext(ctx)))
	return nil
}

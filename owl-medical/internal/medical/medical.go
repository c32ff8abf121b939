package medical

import (
	"context"
	"fmt"

	"owl-care/owl-medical/internal/alert"
	"owl-care/owl-medical/internal/entity"
	"owl-care/owl-medical/internal/metrics"
	"owl-care/owl-medical/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	KindBloodPressure = "blood_pressure"
	KindTemperature   = "temperature"
)

// TemperatureTolerance how far below baseline a reading may drop before alerting.
// Readings above baseline are never flagged.
var TemperatureTolerance = decimal.RequireFromString("1.5")

// AlertMessage text sent for an abnormal reading
func AlertMessage(patientID string) string {
	return fmt.Sprintf("Warning, patient with id: %s, need help", patientID)
}

// Service compares submitted readings with a patient's baseline
type Service struct {
	repo   repository.PatientInfoRepository
	alerts alert.Service
	logger *zap.Logger
}

// NewService creates the vital-sign checker
func NewService(repo repository.PatientInfoRepository, alerts alert.Service, logger *zap.Logger) *Service {
	return &Service{repo: repo, alerts: alerts, logger: logger}
}

// CheckBloodPressure alerts unless bp matches the baseline exactly
func (s *Service) CheckBloodPressure(ctx context.Context, patientID string, bp entity.BloodPressure) error {
	patient, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		metrics.ChecksTotal.WithLabelValues(KindBloodPressure, "error").Inc()
		return fmt.Errorf("failed to get patient %s: %w", patientID, err)
	}

	baseline := patient.HealthInfo.BloodPressure
	if baseline.Equal(bp) {
		metrics.ChecksTotal.WithLabelValues(KindBloodPressure, "normal").Inc()
		return nil
	}

	s.logger.Info("Abnormal blood pressure",
		zap.String("patient_id", patientID),
		zap.Stringer("baseline", baseline),
		zap.Stringer("submitted", bp),
	)
	metrics.ChecksTotal.WithLabelValues(KindBloodPressure, "abnormal").Inc()
	return s.raise(ctx, patientID)
}

// CheckTemperature alerts when baseline - t exceeds TemperatureTolerance
func (s *Service) CheckTemperature(ctx context.Context, patientID string, t decimal.Decimal) error {
	patient, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		metrics.ChecksTotal.WithLabelValues(KindTemperature, "error").Inc()
		return fmt.Errorf("failed to get patient %s: %w", patientID, err)
	}

	baseline := patient.HealthInfo.NormalTemperature
	if !baseline.Sub(t).GreaterThan(TemperatureTolerance) {
		metrics.ChecksTotal.WithLabelValues(KindTemperature, "normal").Inc()
		return nil
	}

	s.logger.Info("Abnormal temperature",
		zap.String("patient_id", patientID),
		zap.String("baseline", baseline.String()),
		zap.String("submitted", t.String()),
	)
	metrics.ChecksTotal.WithLabelValues(KindTemperature, "abnormal").Inc()
	return s.raise(ctx, patientID)
}

func (s *Service) raise(ctx context.Context, patientID string) error {
	if err := s.alerts.Send(alert.WithPatientID(ctx, patientID), AlertMessage(patientID)); err != nil {
		return fmt.Errorf("failed to send alert for patient %s: %w", patientID, err)
	}
	return nil
}

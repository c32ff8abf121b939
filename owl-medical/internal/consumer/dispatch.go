package consumer

import (
	"context"
	"errors"

	"owl-care/owl-medical/internal/entity"
	"owl-care/owl-medical/internal/models"

	"github.com/shopspring/decimal"
)

const (
	sourceStream = "stream"
	sourceMQTT   = "mqtt"
)

// Checker is satisfied by medical.Service
type Checker interface {
	CheckBloodPressure(ctx context.Context, patientID string, bp entity.BloodPressure) error
	CheckTemperature(ctx context.Context, patientID string, t decimal.Decimal) error
}

// dispatch routes a decoded measurement to the matching check
func dispatch(ctx context.Context, checker Checker, m *models.Measurement) error {
	switch m.Kind {
	case models.KindBloodPressure:
		return checker.CheckBloodPressure(ctx, m.PatientID, *m.BloodPressure)
	case models.KindTemperature:
		return checker.CheckTemperature(ctx, m.PatientID, *m.Temperature)
	default:
		return errors.New("unreachable measurement kind " + m.Kind)
	}
}

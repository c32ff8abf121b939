package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"owl-care/owl-medical/internal/entity"

	"github.com/shopspring/decimal"
)

const (
	KindBloodPressure = "blood_pressure"
	KindTemperature   = "temperature"
)

var (
	ErrInvalidDataFormat  = errors.New("invalid measurement data format")
	ErrUnknownMeasurement = errors.New("unknown measurement kind")
)

// Measurement a reading published to the measurements stream as {"data": <json>}
type Measurement struct {
	PatientID     string                `json:"patient_id"`
	Kind          string                `json:"kind"`
	BloodPressure *entity.BloodPressure `json:"blood_pressure,omitempty"`
	Temperature   *decimal.Decimal      `json:"temperature,omitempty"`
	Timestamp     int64                 `json:"timestamp,omitempty"`
}

// ParseMeasurement decodes and checks the payload of one stream entry
func ParseMeasurement(values map[string]interface{}) (*Measurement, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, ErrInvalidDataFormat
	}
	return DecodeMeasurement([]byte(dataStr))
}

// DecodeMeasurement decodes and checks one JSON measurement (stream data field or MQTT payload)
func DecodeMeasurement(data []byte) (*Measurement, error) {
	var m Measurement
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataFormat, err)
	}
	if m.PatientID == "" {
		return nil, fmt.Errorf("%w: missing patient_id", ErrInvalidDataFormat)
	}

	switch m.Kind {
	case KindBloodPressure:
		if m.BloodPressure == nil {
			return nil, fmt.Errorf("%w: missing blood_pressure", ErrInvalidDataFormat)
		}
		if err := m.BloodPressure.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataFormat, err)
		}
	case KindTemperature:
		if m.Temperature == nil {
			return nil, fmt.Errorf("%w: missing temperature", ErrInvalidDataFormat)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMeasurement, m.Kind)
	}
	return &m, nil
}

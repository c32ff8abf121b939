package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPatient       = errors.New("invalid patient info")
	ErrInvalidBloodPressure = errors.New("invalid blood pressure")
)

var validate = validator.New()

// BloodPressure systolic (High) / diastolic (Low) pair
type BloodPressure struct {
	High int `json:"high" validate:"gt=0"`
	Low  int `json:"low" validate:"gt=0"`
}

// Equal exact match on both values
func (b BloodPressure) Equal(other BloodPressure) bool {
	return b.High == other.High && b.Low == other.Low
}

// Validate both values must be positive
func (b BloodPressure) Validate() error {
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBloodPressure, err)
	}
	return nil
}

func (b BloodPressure) String() string {
	return fmt.Sprintf("%d/%d", b.High, b.Low)
}

// HealthInfo a patient's baseline
type HealthInfo struct {
	NormalTemperature decimal.Decimal `json:"normal_temperature"`
	BloodPressure     BloodPressure   `json:"blood_pressure"`
}

// PatientInfo ID is empty until the repository assigns one
type PatientInfo struct {
	ID         string     `json:"id"`
	Name       string     `json:"name" validate:"required"`
	Surname    string     `json:"surname" validate:"required"`
	Birthday   time.Time  `json:"birthday" validate:"required"`
	HealthInfo HealthInfo `json:"health_info"`
}

// Validate wraps every failure in ErrInvalidPatient
func (p *PatientInfo) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatient, err)
	}
	if !p.HealthInfo.NormalTemperature.IsPositive() {
		return fmt.Errorf("%w: normal temperature must be positive", ErrInvalidPatient)
	}
	if p.Birthday.After(time.Now()) {
		return fmt.Errorf("%w: birthday is in the future", ErrInvalidPatient)
	}
	return nil
}

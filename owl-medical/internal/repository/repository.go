package repository

import (
	"context"
	"errors"

	"owl-care/owl-medical/internal/entity"
)

var ErrPatientNotFound = errors.New("patient not found")

// PatientInfoRepository patient baselines
type PatientInfoRepository interface {
	// GetByID returns ErrPatientNotFound for unknown ids
	GetByID(ctx context.Context, id string) (*entity.PatientInfo, error)
	// Add assigns a new UUID to the record and returns it
	Add(ctx context.Context, patient *entity.PatientInfo) (string, error)
	Update(ctx context.Context, patient *entity.PatientInfo) error
	Remove(ctx context.Context, id string) error
}

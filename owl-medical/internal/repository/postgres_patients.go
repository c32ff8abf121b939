package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"owl-care/owl-medical/internal/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostgresPatientRepository patients table:
//
//	patients(id uuid primary key, name text, surname text, birthday date,
//	         normal_temperature numeric(4,2), bp_high int, bp_low int)
type PostgresPatientRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresPatientRepository creates the patients table repository
func NewPostgresPatientRepository(db *sql.DB, logger *zap.Logger) *PostgresPatientRepository {
	return &PostgresPatientRepository{db: db, logger: logger}
}

// GetByID returns ErrPatientNotFound for unknown ids
func (r *PostgresPatientRepository) GetByID(ctx context.Context, id string) (*entity.PatientInfo, error) {
	query := `
		SELECT id, name, surname, birthday, normal_temperature, bp_high, bp_low
		FROM patients
		WHERE id = $1
	`

	var p entity.PatientInfo
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Surname,
		&p.Birthday,
		&p.HealthInfo.NormalTemperature,
		&p.HealthInfo.BloodPressure.High,
		&p.HealthInfo.BloodPressure.Low,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}
	return &p, nil
}

// Add assigns a new UUID and returns it
func (r *PostgresPatientRepository) Add(ctx context.Context, patient *entity.PatientInfo) (string, error) {
	query := `
		INSERT INTO patients (id, name, surname, birthday, normal_temperature, bp_high, bp_low)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	id := uuid.New().String()
	_, err := r.db.ExecContext(ctx, query,
		id,
		patient.Name,
		patient.Surname,
		patient.Birthday,
		patient.HealthInfo.NormalTemperature,
		patient.HealthInfo.BloodPressure.High,
		patient.HealthInfo.BloodPressure.Low,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert patient: %w", err)
	}

	patient.ID = id
	r.logger.Debug("Patient added", zap.String("patient_id", id))
	return id, nil
}

// Update replaces the stored record
func (r *PostgresPatientRepository) Update(ctx context.Context, patient *entity.PatientInfo) error {
	query := `
		UPDATE patients
		SET name = $2, surname = $3, birthday = $4, normal_temperature = $5, bp_high = $6, bp_low = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.Surname,
		patient.Birthday,
		patient.HealthInfo.NormalTemperature,
		patient.HealthInfo.BloodPressure.High,
		patient.HealthInfo.BloodPressure.Low,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return expectOneRow(result)
}

// Remove deletes the record
func (r *PostgresPatientRepository) Remove(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrPatientNotFound
	}
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"owl-care/owl-medical/internal/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FilePatientRepository keeps all patients in one JSON file (id -> record).
// The whole file is rewritten on every change.
type FilePatientRepository struct {
	path     string
	mu       sync.RWMutex
	patients map[string]entity.PatientInfo
	logger   *zap.Logger
}

// NewFilePatientRepository loads path; a missing file starts an empty store
func NewFilePatientRepository(path string, logger *zap.Logger) (*FilePatientRepository, error) {
	r := &FilePatientRepository{
		path:     path,
		patients: make(map[string]entity.PatientInfo),
		logger:   logger,
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("Patient file not found, starting empty", zap.String("path", path))
		return r, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read patient file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &r.patients); err != nil {
			return nil, fmt.Errorf("failed to parse patient file: %w", err)
		}
	}
	logger.Info("Loaded patients", zap.String("path", path), zap.Int("count", len(r.patients)))
	return r, nil
}

// GetByID returns a copy of the stored record
func (r *FilePatientRepository) GetByID(_ context.Context, id string) (*entity.PatientInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

// Add assigns a new UUID and persists the file
func (r *FilePatientRepository) Add(_ context.Context, patient *entity.PatientInfo) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := *patient
	p.ID = uuid.New().String()
	r.patients[p.ID] = p
	if err := r.persist(); err != nil {
		delete(r.patients, p.ID)
		return "", err
	}
	patient.ID = p.ID
	return p.ID, nil
}

// Update replaces the stored record
func (r *FilePatientRepository) Update(_ context.Context, patient *entity.PatientInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.patients[patient.ID]
	if !ok {
		return ErrPatientNotFound
	}
	r.patients[patient.ID] = *patient
	if err := r.persist(); err != nil {
		r.patients[patient.ID] = prev
		return err
	}
	return nil
}

// Remove deletes the record
func (r *FilePatientRepository) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.patients[id]
	if !ok {
		return ErrPatientNotFound
	}
	delete(r.patients, id)
	if err := r.persist(); err != nil {
		r.patients[id] = prev
		return err
	}
	return nil
}

// persist writes to a temp file and renames it over the target. Caller holds mu.
func (r *FilePatientRepository) persist() error {
	data, err := json.MarshalIndent(r.patients, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode patients: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create patient dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".patients-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write patients: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write patients: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace patient file: %w", err)
	}
	return nil
}

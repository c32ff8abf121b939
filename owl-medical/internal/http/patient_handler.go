package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"owl-care/owl-medical/internal/entity"
	"owl-care/owl-medical/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Checker is satisfied by medical.Service
type Checker interface {
	CheckBloodPressure(ctx context.Context, patientID string, bp entity.BloodPressure) error
	CheckTemperature(ctx context.Context, patientID string, t decimal.Decimal) error
}

type PatientHandler struct {
	repo    repository.PatientInfoRepository
	checker Checker
	logger  *zap.Logger
}

// NewPatientHandler creates the patient handler
func NewPatientHandler(repo repository.PatientInfoRepository, checker Checker, logger *zap.Logger) *PatientHandler {
	return &PatientHandler{repo: repo, checker: checker, logger: logger}
}

// patientDTO wire form; birthday is a plain YYYY-MM-DD date
type patientDTO struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name"`
	Surname    string            `json:"surname"`
	Birthday   string            `json:"birthday"`
	HealthInfo entity.HealthInfo `json:"health_info"`
}

func toDTO(p *entity.PatientInfo) patientDTO {
	return patientDTO{
		ID:         p.ID,
		Name:       p.Name,
		Surname:    p.Surname,
		Birthday:   p.Birthday.Format(dateLayout),
		HealthInfo: p.HealthInfo,
	}
}

func (d patientDTO) toEntity(id string) (*entity.PatientInfo, error) {
	p := &entity.PatientInfo{
		ID:         id,
		Name:       d.Name,
		Surname:    d.Surname,
		HealthInfo: d.HealthInfo,
	}
	if d.Birthday != "" {
		birthday, err := time.Parse(dateLayout, d.Birthday)
		if err != nil {
			return nil, errors.New("birthday must be YYYY-MM-DD")
		}
		p.Birthday = birthday
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

type temperatureRequest struct {
	Temperature *decimal.Decimal `json:"temperature"`
}

type checkResponse struct {
	PatientID string `json:"patient_id"`
	Kind      string `json:"kind"`
}

// CreatePatient POST /medical/api/v1/patients
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req patientDTO
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	p, err := req.toEntity("")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}

	if _, err := h.repo.Add(r.Context(), p); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(toDTO(p)))
}

// GetPatient GET /medical/api/v1/patients/{id}
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(toDTO(p)))
}

// UpdatePatient PUT /medical/api/v1/patients/{id}
func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request, id string) {
	var req patientDTO
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	p, err := req.toEntity(id)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}

	if err := h.repo.Update(r.Context(), p); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(toDTO(p)))
}

// DeletePatient DELETE /medical/api/v1/patients/{id}
func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.repo.Remove(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"id": id}))
}

// CheckBloodPressure POST /medical/api/v1/patients/{id}/blood-pressure
func (h *PatientHandler) CheckBloodPressure(w http.ResponseWriter, r *http.Request, id string) {
	var bp entity.BloodPressure
	if err := readBodyJSON(r, maxBodyBytes, &bp); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if err := bp.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("high and low must be positive"))
		return
	}

	if err := h.checker.CheckBloodPressure(r.Context(), id, bp); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(checkResponse{PatientID: id, Kind: "blood_pressure"}))
}

// CheckTemperature POST /medical/api/v1/patients/{id}/temperature
func (h *PatientHandler) CheckTemperature(w http.ResponseWriter, r *http.Request, id string) {
	var req temperatureRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil || req.Temperature == nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	if err := h.checker.CheckTemperature(r.Context(), id, *req.Temperature); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(checkResponse{PatientID: id, Kind: "temperature"}))
}

func (h *PatientHandler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrPatientNotFound) {
		writeJSON(w, http.StatusNotFound, Fail("patient not found"))
		return
	}
	h.logger.Error("Request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
}

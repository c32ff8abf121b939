package medical

import (
	"context"
	"errors"
	"testing"
	"time"

	"owl-care/owl-medical/internal/alert"
	"owl-care/owl-medical/internal/entity"
	"owl-care/owl-medical/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPatientRepository mock of repository.PatientInfoRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id string) (*entity.PatientInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PatientInfo), args.Error(1)
}

func (m *MockPatientRepository) Add(ctx context.Context, p *entity.PatientInfo) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockPatientRepository) Update(ctx context.Context, p *entity.PatientInfo) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAlertService mock of alert.Service
type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) Send(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

const patientID = "a5b3b2c1-7d5e-4f0a-9a1b-1c2d3e4f5a6b"

func baselinePatient() *entity.PatientInfo {
	return &entity.PatientInfo{
		ID:       patientID,
		Name:     "Ivan",
		Surname:  "Petrov",
		Birthday: time.Date(1980, time.November, 26, 0, 0, 0, 0, time.UTC),
		HealthInfo: entity.HealthInfo{
			NormalTemperature: decimal.RequireFromString("36.6"),
			BloodPressure:     entity.BloodPressure{High: 120, Low: 80},
		},
	}
}

func setupService(t *testing.T) (*Service, *MockPatientRepository, *MockAlertService) {
	repo := new(MockPatientRepository)
	alerts := new(MockAlertService)
	repo.On("GetByID", mock.Anything, patientID).Return(baselinePatient(), nil)
	return NewService(repo, alerts, zap.NewNop()), repo, alerts
}

func TestAlertMessage(t *testing.T) {
	assert.Equal(t, "Warning, patient with id: p-1, need help", AlertMessage("p-1"))
}

func TestCheckBloodPressure_Abnormal(t *testing.T) {
	s, repo, alerts := setupService(t)
	alerts.On("Send", mock.MatchedBy(func(ctx context.Context) bool {
		return alert.PatientIDFromContext(ctx) == patientID
	}), "Warning, patient with id: "+patientID+", need help").Return(nil).Once()

	err := s.CheckBloodPressure(context.Background(), patientID, entity.BloodPressure{High: 150, Low: 100})

	require.NoError(t, err)
	alerts.AssertNumberOfCalls(t, "Send", 1)
	alerts.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCheckBloodPressure_SingleValueMismatch(t *testing.T) {
	for _, bp := range []entity.BloodPressure{{High: 121, Low: 80}, {High: 120, Low: 79}} {
		s, _, alerts := setupService(t)
		alerts.On("Send", mock.Anything, AlertMessage(patientID)).Return(nil)

		require.NoError(t, s.CheckBloodPressure(context.Background(), patientID, bp))
		alerts.AssertNumberOfCalls(t, "Send", 1)
	}
}

func TestCheckBloodPressure_Normal(t *testing.T) {
	s, _, alerts := setupService(t)

	err := s.CheckBloodPressure(context.Background(), patientID, entity.BloodPressure{High: 120, Low: 80})

	require.NoError(t, err)
	alerts.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestCheckTemperature(t *testing.T) {
	tests := []struct {
		name      string
		submitted string
		alert     bool
	}{
		{"well below baseline", "34.0", true},
		{"just past tolerance", "35.09", true},
		{"exactly at tolerance", "35.1", false},
		{"slightly below baseline", "36.0", false},
		{"equal to baseline", "36.6", false},
		{"fever is not flagged", "38.5", false},
		{"very high is not flagged", "42.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, alerts := setupService(t)
			alerts.On("Send", mock.Anything, AlertMessage(patientID)).Return(nil)

			err := s.CheckTemperature(context.Background(), patientID, decimal.RequireFromString(tt.submitted))

			require.NoError(t, err)
			if tt.alert {
				alerts.AssertNumberOfCalls(t, "Send", 1)
			} else {
				alerts.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCheck_PatientNotFound(t *testing.T) {
	repo := new(MockPatientRepository)
	alerts := new(MockAlertService)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrPatientNotFound)
	s := NewService(repo, alerts, zap.NewNop())

	err := s.CheckBloodPressure(context.Background(), "missing", entity.BloodPressure{High: 1, Low: 1})
	assert.ErrorIs(t, err, repository.ErrPatientNotFound)

	err = s.CheckTemperature(context.Background(), "missing", decimal.RequireFromString("30"))
	assert.ErrorIs(t, err, repository.ErrPatientNotFound)

	alerts.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestCheck_AlertFailureIsReturned(t *testing.T) {
	s, _, alerts := setupService(t)
	sendErr := errors.New("broker down")
	alerts.On("Send", mock.Anything, mock.Anything).Return(sendErr)

	err := s.CheckTemperature(context.Background(), patientID, decimal.RequireFromString("34.0"))

	assert.ErrorIs(t, err, sendErr)
	alerts.AssertNumberOfCalls(t, "Send", 1)
}

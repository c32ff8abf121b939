package alert

import (
	"context"
	"time"
)

// Service delivers an alert message
type Service interface {
	Send(ctx context.Context, message string) error
}

// Message payload for the structured sinks
type Message struct {
	PatientID string    `json:"patient_id,omitempty"`
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sent_at"`
}

type patientIDKey struct{}

// WithPatientID attaches the patient the next alert is about
func WithPatientID(ctx context.Context, patientID string) context.Context {
	return context.WithValue(ctx, patientIDKey{}, patientID)
}

// PatientIDFromContext "" when not set
func PatientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(patientIDKey{}).(string)
	return id
}

func newMessage(ctx context.Context, message string) Message {
	return Message{
		PatientID: PatientIDFromContext(ctx),
		Message:   message,
		SentAt:    time.Now().UTC(),
	}
}

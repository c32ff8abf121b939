package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChecksTotal vital-sign checks by kind (blood_pressure, temperature) and result (normal, abnormal, error)
	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "owl_medical_checks_total",
		Help: "Number of vital-sign checks",
	}, []string{"kind", "result"})

	// AlertsTotal alert deliveries by sink and status (sent, failed)
	AlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "owl_medical_alerts_total",
		Help: "Number of alert deliveries",
	}, []string{"sink", "status"})

	// MeasurementsConsumedTotal ingested measurements by source (stream, mqtt) and status (processed, invalid, failed)
	MeasurementsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "owl_medical_measurements_consumed_total",
		Help: "Number of measurements read from the stream or MQTT",
	}, []string{"source", "status"})
)

package httpapi

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const patientsPath = "/medical/api/v1/patients"

// Router plain http.ServeMux
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

// NewRouter empty router; register route groups before serving
func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

// Handle registers a handler func
func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler registers an http.Handler (promhttp and the like)
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterPatientRoutes
//
//	POST   /medical/api/v1/patients
//	GET    /medical/api/v1/patients/{id}
//	PUT    /medical/api/v1/patients/{id}
//	DELETE /medical/api/v1/patients/{id}
//	POST   /medical/api/v1/patients/{id}/blood-pressure
//	POST   /medical/api/v1/patients/{id}/temperature
func (r *Router) RegisterPatientRoutes(p *PatientHandler) {
	r.Handle(patientsPath, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		p.CreatePatient(w, req)
	})

	r.Handle(patientsPath+"/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, patientsPath+"/")
		parts := strings.Split(rest, "/")
		if parts[0] == "" || len(parts) > 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		id := parts[0]

		if len(parts) == 1 {
			switch req.Method {
			case http.MethodGet:
				p.GetPatient(w, req, id)
			case http.MethodPut:
				p.UpdatePatient(w, req, id)
			case http.MethodDelete:
				p.DeletePatient(w, req, id)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
			return
		}

		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch parts[1] {
		case "blood-pressure":
			p.CheckBloodPressure(w, req, id)
		case "temperature":
			p.CheckTemperature(w, req, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// HealthProbe reports one dependency's state on /health
type HealthProbe struct {
	Name    string
	Healthy func() bool
}

// RegisterOpsRoutes /health and /metrics; /health answers 503 while any probe is down
func (r *Router) RegisterOpsRoutes(probes ...HealthProbe) {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		for _, p := range probes {
			if p.Healthy() {
				status[p.Name] = "up"
				continue
			}
			status[p.Name] = "down"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, Ok(status))
	})
	r.HandleHandler("/metrics", promhttp.Handler())
}

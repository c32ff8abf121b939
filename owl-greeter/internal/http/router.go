package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

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

// RegisterGreetingRoutes greeting API
func (r *Router) RegisterGreetingRoutes(g *GreetingHandler) {
	r.Handle("/greeter/api/v1/greeting", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		g.GetGreeting(w, req)
	})
}

// RegisterOpsRoutes /health and /metrics
func (r *Router) RegisterOpsRoutes() {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
	r.HandleHandler("/metrics", promhttp.Handler())
}

package httpapi

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Greeter produces a greeting from request headers
type Greeter interface {
	Send(ctx context.Context, headers map[string]string) string
}

type GreetingHandler struct {
	greeter Greeter
	logger  *zap.Logger
}

// NewGreetingHandler creates the greeting handler
func NewGreetingHandler(greeter Greeter, logger *zap.Logger) *GreetingHandler {
	return &GreetingHandler{greeter: greeter, logger: logger}
}

type greetingResponse struct {
	Greeting string `json:"greeting"`
}

// GetGreeting GET /greeter/api/v1/greeting
func (h *GreetingHandler) GetGreeting(w http.ResponseWriter, r *http.Request) {
	greeting := h.greeter.Send(r.Context(), headerMap(r.Header))
	writeJSON(w, http.StatusOK, Ok(greetingResponse{Greeting: greeting}))
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HealthChecker reports whether one backing service is reachable.
type HealthChecker interface {
	Check(ctx context.Context) error
}

type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Check(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks map[string]HealthChecker
	logger *slog.Logger
}

// NewHealthHandler takes the named checks to run; with none the service
// only reports liveness.
func NewHealthHandler(checks map[string]HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

// Healthz godoc
// @Summary Liveness and dependency check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		results[name] = "ok"
		if err := check.Check(ctx); err != nil {
			h.logger.ErrorContext(ctx, "health check failed", slog.String("name", name), slog.Any("error", err))
			results[name] = "error"
			status = http.StatusServiceUnavailable
		}
	}

	env := jsonResponse{"status": "ok", "checks": results}
	if status != http.StatusOK {
		env["status"] = "unavailable"
	}
	if err := writeJSON(w, status, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/thai-travel-share/internal/api/response"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns a simple liveness response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including database connectivity
func ReadyCheck(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.ServiceUnavailable(w, "database not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// SystemHandler serves the public system endpoints
type SystemHandler struct {
	systemService SystemService
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(systemService SystemService) *SystemHandler {
	return &SystemHandler{systemService: systemService}
}

// Health reports service and database status. An unreachable database is
// part of the payload, not an error.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.systemService.Health(r.Context()))
}

func (h *SystemHandler) Info(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.systemService.Info())
}

func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.systemService.Stats(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, stats)
}

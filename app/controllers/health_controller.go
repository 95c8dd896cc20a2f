package controllers

import (
	"log/slog"
	"net/http"
)

// Pinger checks that storage is reachable.
type Pinger interface {
	Ping() error
}

type HealthController struct {
	responder
	store Pinger
}

func NewHealthController(store Pinger, logger *slog.Logger) *HealthController {
	return &HealthController{
		responder: responder{logger: logger},
		store:     store,
	}
}

// Health reports ok after a storage round trip
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if err := hc.store.Ping(); err != nil {
		hc.logger.ErrorContext(r.Context(), "health check failed", "error", err)
		hc.sendJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	hc.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"linguaspeak/internal/languages"
)

// Pinger reports storage reachability
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler serves health and reference data
type SystemHandler struct {
	db  Pinger
	log *zap.Logger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db Pinger, log *zap.Logger) *SystemHandler {
	return &SystemHandler{db: db, log: log}
}

// Health answers ok once the database responds
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Languages lists the supported practice languages
func (h *SystemHandler) Languages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, languages.All())
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/grocerhq/storefront/internal/session"
)

// HealthHandler provides health check endpoint
type HealthHandler struct {
	logger   *slog.Logger
	sessions *session.Manager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sessions *session.Manager, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Sessions  int       `json:"sessions"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Sessions:  h.sessions.Count(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode health response", "error", err)
	}
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/grocerhq/storefront/internal/middleware"
	"github.com/grocerhq/storefront/internal/session"
	"github.com/grocerhq/storefront/internal/store"
)

// SessionHandler manages storefront session lifecycle.
type SessionHandler struct {
	manager *session.Manager
	log     *slog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(manager *session.Manager, log *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		log:     log,
	}
}

// Create handles POST /api/session.
// Fetches a fresh catalog and opens a session around it:
// - 201: session created
// - 422: catalog rejected (duplicate product names)
// - 502: catalog fetch failed
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, s, err := h.manager.Create(r.Context())
	if err != nil {
		h.log.Error("failed to create session", "error", err)

		if errors.Is(err, store.ErrDuplicateIdentity) {
			writeError(w, http.StatusUnprocessableEntity, "Catalog contains duplicate product names")
			return
		}
		writeError(w, http.StatusBadGateway, "Failed to fetch catalog")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id":   id,
		"catalog_size": len(s.Catalog()),
	})
}

// Delete handles DELETE /api/session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(middleware.SessionHeader)

	if err := h.manager.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, "Unknown session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RefreshCatalog handles POST /api/session/catalog/refresh.
// Refetches the catalog and replaces the session's copy:
// - 200: replaced; lists any cart entries dropped as dangling
// - 422: new catalog rejected (duplicate product names); old catalog kept
// - 502: fetch failed; old catalog kept
func (h *SessionHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(middleware.SessionHeader)

	dropped, err := h.manager.Refresh(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "Unknown session")
		case errors.Is(err, store.ErrDuplicateIdentity):
			h.log.Warn("catalog refresh rejected", "session_id", id, "error", err)
			writeError(w, http.StatusUnprocessableEntity, "Catalog contains duplicate product names")
		default:
			h.log.Error("catalog refresh failed", "session_id", id, "error", err)
			writeError(w, http.StatusBadGateway, "Failed to fetch catalog")
		}
		return
	}

	if dropped == nil {
		dropped = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":             "ok",
		"dropped_cart_items": dropped,
	})
}

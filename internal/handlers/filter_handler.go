package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/grocerhq/storefront/internal/middleware"
	"github.com/grocerhq/storefront/internal/store"
)

// FilterHandler serves the session's product-type filter state.
type FilterHandler struct {
	log *slog.Logger
}

// NewFilterHandler creates a new filter handler.
func NewFilterHandler(log *slog.Logger) *FilterHandler {
	return &FilterHandler{
		log: log,
	}
}

type filterRequest struct {
	Type string `json:"type"`
}

func filterState(s *store.Store) map[string]interface{} {
	return map[string]interface{}{
		"filtered":    s.Filtered(),
		"filter_type": s.FilterType(),
	}
}

// Set handles PUT /api/filter.
func (h *FilterHandler) Set(w http.ResponseWriter, r *http.Request) {
	s := middleware.StoreFrom(r.Context())

	req, ok := h.decodeFilterRequest(w, r)
	if !ok {
		return
	}

	s.SetFilterType(req.Type)
	writeJSON(w, http.StatusOK, filterState(s))
}

// Clear handles DELETE /api/filter.
func (h *FilterHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s := middleware.StoreFrom(r.Context())

	s.ClearFilter()
	writeJSON(w, http.StatusOK, filterState(s))
}

// Toggle handles POST /api/filter/toggle.
// Selecting the active type again clears the filter, mirroring the
// storefront's filter chips.
func (h *FilterHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	s := middleware.StoreFrom(r.Context())

	req, ok := h.decodeFilterRequest(w, r)
	if !ok {
		return
	}

	s.ToggleFilter(req.Type)
	writeJSON(w, http.StatusOK, filterState(s))
}

func (h *FilterHandler) decodeFilterRequest(w http.ResponseWriter, r *http.Request) (filterRequest, bool) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode filter request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return filterRequest{}, false
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "Filter type is required")
		return filterRequest{}, false
	}
	return req, true
}

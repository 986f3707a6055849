package api

import (
	"net/http"

	"github.com/ledgerguard/invoice-audit/pkg/history"
)

// HistoryHandler handles aggregate inspection and history clearing.
type HistoryHandler struct {
	store *history.Store
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(store *history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// Aggregates handles GET /api/v1/aggregates and returns both derived
// tables as of the last recomputation.
func (h *HistoryHandler) Aggregates(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.Load()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to load history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"item_averages":   state.ItemAverages,
		"vendor_averages": state.VendorAverages,
		"last_updated":    state.LastUpdated,
	})
}

// Clear handles DELETE /api/v1/history. It replaces the persisted
// state with an empty one; there is no partial delete.
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to clear history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

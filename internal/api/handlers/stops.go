package handlers

import (
	"net/http"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/api/dto"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/services"
)

// StopHandler exposes the per-stop transition endpoints a swapper hits from
// the field: complete and skip.
type StopHandler struct {
	Service *services.RouteService
}

// Complete marks a pending stop as completed. A missing or already-terminal
// stop is reported as updated=false with a 404, not an error.
func (h *StopHandler) Complete(w http.ResponseWriter, r *http.Request) {
	stopID, ok := pathID(w, r)
	if !ok {
		return
	}

	updated, err := h.Service.CompleteRouteStop(r.Context(), stopID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !updated {
		writeError(w, r, http.StatusNotFound, "stop not found or not pending")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.StopActionResponse{Updated: true})
}

// Skip marks a pending stop as skipped.
func (h *StopHandler) Skip(w http.ResponseWriter, r *http.Request) {
	stopID, ok := pathID(w, r)
	if !ok {
		return
	}

	updated, err := h.Service.SkipRouteStop(r.Context(), stopID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !updated {
		writeError(w, r, http.StatusNotFound, "stop not found or not pending")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.StopActionResponse{Updated: true})
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/api/dto"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/domain"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/services"
)

const dateLayout = "2006-01-02"

// RouteHandler exposes route planning and lifecycle endpoints.
type RouteHandler struct {
	Service *services.RouteService
}

// Create runs the optimizer for the requested vehicles and persists the
// suggested route. Optimization is bounded by the solver's wall-clock limit,
// so this is the slow endpoint of the API.
func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.SwapperID <= 0 {
		writeError(w, r, http.StatusBadRequest, "swapper_id is required")
		return
	}
	if req.ZoneID <= 0 {
		writeError(w, r, http.StatusBadRequest, "zone_id is required")
		return
	}
	if len(req.VehicleIDs) == 0 {
		writeError(w, r, http.StatusBadRequest, "vehicle_ids is required")
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			return
		}
		date = parsed
	}

	route, err := h.Service.CreateOptimizedRoute(
		r.Context(),
		req.SwapperID,
		req.ZoneID,
		date,
		req.TargetDurationMinutes,
		req.VehicleIDs,
	)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, routeResponse(route))
}

// Confirm transitions a suggested route to confirmed.
func (h *RouteHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	routeID, ok := pathID(w, r)
	if !ok {
		return
	}

	route, err := h.Service.ConfirmRoute(r.Context(), routeID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, routeResponse(route))
}

// Start transitions a confirmed route to in progress.
func (h *RouteHandler) Start(w http.ResponseWriter, r *http.Request) {
	routeID, ok := pathID(w, r)
	if !ok {
		return
	}

	route, err := h.Service.StartRoute(r.Context(), routeID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, routeResponse(route))
}

// List returns routes filtered by zone_id, status, or swapper_id (today's
// routes). Exactly one filter is required; an empty result is a valid
// response, not a 404.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		routes []*domain.Route
		err    error
	)

	switch {
	case q.Get("zone_id") != "":
		zoneID, parseErr := strconv.ParseInt(q.Get("zone_id"), 10, 64)
		if parseErr != nil {
			writeError(w, r, http.StatusBadRequest, "zone_id must be an integer")
			return
		}
		routes, err = h.Service.GetRoutesByZone(r.Context(), zoneID)
	case q.Get("status") != "":
		routes, err = h.Service.GetRoutesByStatus(r.Context(), domain.RouteStatus(q.Get("status")))
	case q.Get("swapper_id") != "":
		swapperID, parseErr := strconv.ParseInt(q.Get("swapper_id"), 10, 64)
		if parseErr != nil {
			writeError(w, r, http.StatusBadRequest, "swapper_id must be an integer")
			return
		}
		routes, err = h.Service.GetRoutesForSwapperToday(r.Context(), swapperID)
	default:
		writeError(w, r, http.StatusBadRequest, "one of zone_id, status or swapper_id is required")
		return
	}

	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(routes))}
	for _, route := range routes {
		res.Routes = append(res.Routes, routeResponse(route))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func routeResponse(route *domain.Route) dto.RouteResponse {
	stops := make([]dto.RouteStopResponse, 0, len(route.Stops))
	for _, s := range route.Stops {
		stops = append(stops, dto.RouteStopResponse{
			RouteStopID:             s.RouteStopID,
			VehicleID:               s.VehicleID,
			SequenceOrder:           s.SequenceOrder,
			Status:                  string(s.Status),
			EstimatedArrivalMinutes: int(s.EstimatedArrivalOffset / time.Minute),
			EstimatedServiceMinutes: int(s.EstimatedDuration / time.Minute),
			ActualArrivalTime:       s.ActualArrivalTime,
			ActualDepartureTime:     s.ActualDepartureTime,
		})
	}

	return dto.RouteResponse{
		RouteID:               route.RouteID,
		SwapperID:             route.SwapperID,
		ZoneID:                route.ZoneID,
		Date:                  route.Date.Format(dateLayout),
		TargetDurationMinutes: int(route.TargetDuration / time.Minute),
		Status:                string(route.Status),
		CreatedAt:             route.CreatedAt,
		ConfirmedAt:           route.ConfirmedAt,
		Stops:                 stops,
	}
}

package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/api/dto"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/ports"
)

// VehicleHandler exposes read-only vehicle retrieval endpoints.
type VehicleHandler struct {
	Repo ports.VehicleRepository
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	zoneID, err := strconv.ParseInt(r.URL.Query().Get("zone_id"), 10, 64)
	if err != nil || zoneID <= 0 {
		writeError(w, r, http.StatusBadRequest, "zone_id must be a positive integer")
		return
	}

	vehicles, err := h.Repo.ListByZone(r.Context(), zoneID)
	if err != nil {
		log.Printf("list vehicles failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListVehiclesResponse{
		Vehicles: make([]dto.VehicleResponse, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, dto.VehicleResponse{
			VehicleID:    v.VehicleID,
			ZoneID:       v.ZoneID,
			Lat:          v.Location.Lat,
			Lon:          v.Location.Lon,
			BatteryLevel: v.BatteryLevel,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

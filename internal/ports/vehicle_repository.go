package ports

import (
	"context"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/domain"
)

// Port: a boundary for reading Vehicle entities from the fleet store.
// Vehicles are external to the planning core and read-only here.
type VehicleRepository interface {
	// Return all vehicles currently located in the given zone.
	ListByZone(ctx context.Context, zoneID int64) ([]*domain.Vehicle, error)

	// Return the subset of the given vehicles that belong to the zone,
	// preserving the input order. Unknown or out-of-zone IDs are omitted,
	// not reported as errors.
	FilterInZone(ctx context.Context, vehicleIDs []int64, zoneID int64) ([]*domain.Vehicle, error)
}

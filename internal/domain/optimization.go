package domain

import "time"

// Stop is one optimizer input: a vehicle needing a battery swap at a known
// location. Ephemeral; produced from a vehicle list per optimization call.
type Stop struct {
	VehicleID int64
	Location  Coordinates
}

// OptimizationResult is the outcome of a tour optimization.
//
// When Success is true, OptimalOrder is a permutation of all input stop
// indices and ArrivalOffsets holds, per position in that order, the
// cumulative estimated time from route start to arrival at the stop. When
// Success is false, OptimalOrder is empty and Message carries a
// human-readable reason.
type OptimizationResult struct {
	Success              bool
	Message              string
	OptimalOrder         []int
	ArrivalOffsets       []time.Duration
	TotalDurationMinutes int
	TotalDistanceKm      float64
}

type VisitKind string

const (
	VisitPickup  VisitKind = "pickup"
	VisitDropoff VisitKind = "dropoff"
)

// ParkingRequest asks for a vehicle to be picked up and dropped off at a
// designated parking zone. Pickup must precede dropoff in any valid tour.
type ParkingRequest struct {
	VehicleID int64
	Pickup    Coordinates
	Dropoff   Coordinates
}

// ParkingVisit identifies one visit of a pickup/dropoff tour.
type ParkingVisit struct {
	RequestIndex int
	Kind         VisitKind
}

// ZoneOptimizationResult is the pickup/dropoff counterpart of
// OptimizationResult: the visit order interleaves pickups and dropoffs, with
// every pickup placed before its dropoff.
type ZoneOptimizationResult struct {
	Success              bool
	Message              string
	Visits               []ParkingVisit
	TotalDurationMinutes int
	TotalDistanceKm      float64
}

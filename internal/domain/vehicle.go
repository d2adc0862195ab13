package domain

// Represents a shared e-scooter or e-bike whose battery may need swapping.
// Vehicles are owned by the fleet inventory; this core only reads their
// location and battery snapshot when building routes.
type Vehicle struct {
	VehicleID    int64
	ZoneID       int64
	Location     Coordinates
	BatteryLevel int
}

// A geographic operating area containing vehicles.
// Zone CRUD lives outside this core; only the reference is needed here.
type Zone struct {
	ZoneID int64
	Name   string
}

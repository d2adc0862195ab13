package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createZonesQuery := `
	CREATE TABLE IF NOT EXISTS zones (
		zone_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		vehicle_id INTEGER PRIMARY KEY,
		zone_id INTEGER NOT NULL REFERENCES zones(zone_id),
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		battery_level INTEGER NOT NULL
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		route_id INTEGER PRIMARY KEY AUTOINCREMENT,
		swapper_id INTEGER NOT NULL,
		zone_id INTEGER NOT NULL REFERENCES zones(zone_id),
		date TEXT NOT NULL,
		target_duration_minutes INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		confirmed_at TEXT
	);
	`

	// Routes own their stops: cascade on delete, one sequence slot per route.
	createRouteStopsQuery := `
	CREATE TABLE IF NOT EXISTS route_stops (
		route_stop_id INTEGER PRIMARY KEY AUTOINCREMENT,
		route_id INTEGER NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
		vehicle_id INTEGER NOT NULL REFERENCES vehicles(vehicle_id),
		sequence_order INTEGER NOT NULL,
		status TEXT NOT NULL,
		estimated_arrival_offset_seconds INTEGER NOT NULL,
		estimated_duration_seconds INTEGER NOT NULL,
		actual_arrival_time TEXT,
		actual_departure_time TEXT,
		UNIQUE (route_id, sequence_order)
	);
	`

	statements := []string{
		createZonesQuery,
		createVehiclesQuery,
		createRoutesQuery,
		createRouteStopsQuery,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_zone ON vehicles(zone_id);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_zone ON routes(zone_id);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_status ON routes(status);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_swapper_date ON routes(swapper_id, date);`,
		`CREATE INDEX IF NOT EXISTS idx_route_stops_route ON route_stops(route_id);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ZoneSeed struct {
	ZoneID int64  `json:"zone_id"`
	Name   string `json:"name"`
}

type VehicleSeed struct {
	VehicleID    int64   `json:"vehicle_id"`
	ZoneID       int64   `json:"zone_id"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	BatteryLevel int     `json:"battery_level"`
}

type FleetSeed struct {
	Zones    []ZoneSeed    `json:"zones"`
	Vehicles []VehicleSeed `json:"vehicles"`
}

// Populate the database with zone and vehicle data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed fleet: read %q: %w", jsonPath, err)
	}

	var data FleetSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed fleet: parse json: %w", err)
	}

	for i, z := range data.Zones {
		if z.ZoneID <= 0 {
			return fmt.Errorf("seed fleet: invalid zone_id at index %d: %d", i, z.ZoneID)
		}
	}
	for i, v := range data.Vehicles {
		if v.VehicleID <= 0 {
			return fmt.Errorf("seed fleet: invalid vehicle_id at index %d: %d", i, v.VehicleID)
		}
		if v.BatteryLevel < 0 || v.BatteryLevel > 100 {
			return fmt.Errorf("seed fleet: vehicle_id=%d battery_level out of range: %d", v.VehicleID, v.BatteryLevel)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed fleet: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	zoneStmt, err := tx.Prepare(`INSERT OR REPLACE INTO zones (zone_id, name) VALUES (?, ?);`)
	if err != nil {
		return fmt.Errorf("seed fleet: prepare zone insert: %w", err)
	}
	defer zoneStmt.Close()

	for _, z := range data.Zones {
		if _, err := zoneStmt.Exec(z.ZoneID, z.Name); err != nil {
			return fmt.Errorf("seed fleet: insert zone_id=%d: %w", z.ZoneID, err)
		}
	}

	vehicleStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO vehicles (
		vehicle_id,
		zone_id,
		lat,
		lon,
		battery_level
	)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed fleet: prepare vehicle insert: %w", err)
	}
	defer vehicleStmt.Close()

	for _, v := range data.Vehicles {
		if _, err := vehicleStmt.Exec(v.VehicleID, v.ZoneID, v.Lat, v.Lon, v.BatteryLevel); err != nil {
			return fmt.Errorf("seed fleet: insert vehicle_id=%d: %w", v.VehicleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed fleet: commit tx: %w", err)
	}

	return nil
}

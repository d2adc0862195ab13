package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Initialize the Postgres database schema. Deployments run this through
// dbtool; the local server uses the SQLite variant.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS zones (
			zone_id BIGINT PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			vehicle_id BIGINT PRIMARY KEY,
			zone_id BIGINT NOT NULL REFERENCES zones(zone_id),
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL,
			battery_level INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS routes (
			route_id BIGSERIAL PRIMARY KEY,
			swapper_id BIGINT NOT NULL,
			zone_id BIGINT NOT NULL REFERENCES zones(zone_id),
			date TEXT NOT NULL,
			target_duration_minutes INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			confirmed_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS route_stops (
			route_stop_id BIGSERIAL PRIMARY KEY,
			route_id BIGINT NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
			vehicle_id BIGINT NOT NULL REFERENCES vehicles(vehicle_id),
			sequence_order INTEGER NOT NULL,
			status TEXT NOT NULL,
			estimated_arrival_offset_seconds BIGINT NOT NULL,
			estimated_duration_seconds BIGINT NOT NULL,
			actual_arrival_time TEXT,
			actual_departure_time TEXT,
			UNIQUE (route_id, sequence_order)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_zone ON vehicles(zone_id);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_zone ON routes(zone_id);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_status ON routes(status);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_swapper_date ON routes(swapper_id, date);`,
		`CREATE INDEX IF NOT EXISTS idx_route_stops_route ON route_stops(route_id);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}

// Populate a Postgres database with zone and vehicle data from a JSON file.
func SeedPostgresFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed postgres fleet: read %q: %w", jsonPath, err)
	}

	var data FleetSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed postgres fleet: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed postgres fleet: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, z := range data.Zones {
		_, err := tx.Exec(`
		INSERT INTO zones (zone_id, name)
		VALUES ($1, $2)
		ON CONFLICT (zone_id) DO UPDATE SET name = EXCLUDED.name;
		`, z.ZoneID, z.Name)
		if err != nil {
			return fmt.Errorf("seed postgres fleet: insert zone_id=%d: %w", z.ZoneID, err)
		}
	}

	for _, v := range data.Vehicles {
		_, err := tx.Exec(`
		INSERT INTO vehicles (vehicle_id, zone_id, lat, lon, battery_level)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (vehicle_id) DO UPDATE SET
			zone_id = EXCLUDED.zone_id,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			battery_level = EXCLUDED.battery_level;
		`, v.VehicleID, v.ZoneID, v.Lat, v.Lon, v.BatteryLevel)
		if err != nil {
			return fmt.Errorf("seed postgres fleet: insert vehicle_id=%d: %w", v.VehicleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed postgres fleet: commit tx: %w", err)
	}

	return nil
}

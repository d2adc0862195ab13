package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/domain"
)

// SQLite-backed implementation of the VehicleRepository port.
type SqliteVehicleRepository struct{ DB *sql.DB }

func NewSqliteVehicleRepository(db *sql.DB) *SqliteVehicleRepository {
	return &SqliteVehicleRepository{DB: db}
}

// Return all vehicles currently located in the given zone.
func (s *SqliteVehicleRepository) ListByZone(ctx context.Context, zoneID int64) ([]*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite vehicle repository: DB is nil")
	}

	query := `
	SELECT
		vehicle_id,
		zone_id,
		lat,
		lon,
		battery_level
	FROM vehicles
	WHERE zone_id = ?
	ORDER BY vehicle_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, zoneID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles by zone: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 64)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("list vehicles by zone: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles by zone: row iteration: %w", err)
	}

	return vehicles, nil
}

// Return the subset of the given vehicle IDs that belong to the zone,
// preserving input order. IDs outside the zone are omitted silently.
func (s *SqliteVehicleRepository) FilterInZone(ctx context.Context, vehicleIDs []int64, zoneID int64) ([]*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite vehicle repository: DB is nil")
	}

	if len(vehicleIDs) == 0 {
		return []*domain.Vehicle{}, nil
	}

	seen := map[int64]struct{}{}
	uniq := make([]int64, 0, len(vehicleIDs))
	ph := make([]string, 0, len(vehicleIDs))
	args := make([]any, 0, len(vehicleIDs)+1)
	for _, id := range vehicleIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
		ph = append(ph, "?")
		args = append(args, id)
	}
	args = append(args, zoneID)

	query := fmt.Sprintf(`
	SELECT
		vehicle_id,
		zone_id,
		lat,
		lon,
		battery_level
	FROM vehicles
	WHERE vehicle_id IN (%s) AND zone_id = ?;
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter vehicles in zone: query vehicles table: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*domain.Vehicle, len(uniq))
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("filter vehicles in zone: %w", err)
		}
		byID[v.VehicleID] = v
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("filter vehicles in zone: row iteration: %w", err)
	}

	vehicles := make([]*domain.Vehicle, 0, len(byID))
	for _, id := range uniq {
		if v, ok := byID[id]; ok {
			vehicles = append(vehicles, v)
		}
	}

	return vehicles, nil
}

func scanVehicle(rows *sql.Rows) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := rows.Scan(&v.VehicleID, &v.ZoneID, &v.Location.Lat, &v.Location.Lon, &v.BatteryLevel)
	if err != nil {
		return nil, fmt.Errorf("scan vehicle row: %w", err)
	}
	return &v, nil
}

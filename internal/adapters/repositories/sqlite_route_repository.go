package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/domain"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano
)

// SQLite-backed implementation of the RouteRepository port.
//
// Route creation writes the route row and all stop rows inside one
// transaction, so readers never observe a route without its stops.
type SqliteRouteRepository struct{ DB *sql.DB }

func NewSqliteRouteRepository(db *sql.DB) *SqliteRouteRepository {
	return &SqliteRouteRepository{DB: db}
}

// Persist a route and its stops atomically, assigning generated IDs back
// onto the entities.
func (s *SqliteRouteRepository) CreateRouteWithStops(ctx context.Context, route *domain.Route) error {
	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create route: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO routes (
		swapper_id,
		zone_id,
		date,
		target_duration_minutes,
		status,
		created_at,
		confirmed_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`,
		route.SwapperID,
		route.ZoneID,
		route.Date.Format(dateLayout),
		int(route.TargetDuration/time.Minute),
		string(route.Status),
		route.CreatedAt.Format(timestampLayout),
		formatNullableTime(route.ConfirmedAt),
	)
	if err != nil {
		return fmt.Errorf("create route: insert route: %w", err)
	}

	routeID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create route: route id: %w", err)
	}
	route.RouteID = routeID

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_stops (
		route_id,
		vehicle_id,
		sequence_order,
		status,
		estimated_arrival_offset_seconds,
		estimated_duration_seconds,
		actual_arrival_time,
		actual_departure_time
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("create route: prepare stop insert: %w", err)
	}
	defer stmt.Close()

	for i := range route.Stops {
		stop := &route.Stops[i]
		stop.RouteID = routeID

		res, err := stmt.ExecContext(ctx,
			routeID,
			stop.VehicleID,
			stop.SequenceOrder,
			string(stop.Status),
			int64(stop.EstimatedArrivalOffset/time.Second),
			int64(stop.EstimatedDuration/time.Second),
			formatNullableTime(stop.ActualArrivalTime),
			formatNullableTime(stop.ActualDepartureTime),
		)
		if err != nil {
			return fmt.Errorf("create route: insert stop order=%d: %w", stop.SequenceOrder, err)
		}

		stopID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("create route: stop id: %w", err)
		}
		stop.RouteStopID = stopID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create route: commit tx: %w", err)
	}

	return nil
}

// Load a route with its stops ordered by sequence.
func (s *SqliteRouteRepository) GetRoute(ctx context.Context, routeID int64) (*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT
		route_id,
		swapper_id,
		zone_id,
		date,
		target_duration_minutes,
		status,
		created_at,
		confirmed_at
	FROM routes
	WHERE route_id = ?;
	`, routeID)

	route, err := scanRoute(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}

	if err := s.loadStops(ctx, route); err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}

	return route, nil
}

// Load a single stop.
func (s *SqliteRouteRepository) GetRouteStop(ctx context.Context, routeStopID int64) (*domain.RouteStop, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT
		route_stop_id,
		route_id,
		vehicle_id,
		sequence_order,
		status,
		estimated_arrival_offset_seconds,
		estimated_duration_seconds,
		actual_arrival_time,
		actual_departure_time
	FROM route_stops
	WHERE route_stop_id = ?;
	`, routeStopID)

	stop, err := scanStop(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get route stop: %w", err)
	}

	return stop, nil
}

// Compare-and-swap a route's status. No matching row in the expected status
// yields domain.ErrNotFound.
func (s *SqliteRouteRepository) UpdateRouteStatus(ctx context.Context, routeID int64, expected, next domain.RouteStatus, confirmedAt *time.Time) error {
	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
	UPDATE routes
	SET status = ?, confirmed_at = COALESCE(?, confirmed_at)
	WHERE route_id = ? AND status = ?;
	`, string(next), formatNullableTime(confirmedAt), routeID, string(expected))
	if err != nil {
		return fmt.Errorf("update route status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update route status: rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Persist a stop's mutated status and actual timestamps.
func (s *SqliteRouteRepository) UpdateStop(ctx context.Context, stop *domain.RouteStop) error {
	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
	UPDATE route_stops
	SET status = ?, actual_arrival_time = ?, actual_departure_time = ?
	WHERE route_stop_id = ?;
	`,
		string(stop.Status),
		formatNullableTime(stop.ActualArrivalTime),
		formatNullableTime(stop.ActualDepartureTime),
		stop.RouteStopID,
	)
	if err != nil {
		return fmt.Errorf("update stop: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stop: rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (s *SqliteRouteRepository) ListByZone(ctx context.Context, zoneID int64) ([]*domain.Route, error) {
	return s.listRoutes(ctx, `WHERE zone_id = ?`, zoneID)
}

func (s *SqliteRouteRepository) ListByStatus(ctx context.Context, status domain.RouteStatus) ([]*domain.Route, error) {
	return s.listRoutes(ctx, `WHERE status = ?`, string(status))
}

func (s *SqliteRouteRepository) ListForSwapperOn(ctx context.Context, swapperID int64, date time.Time) ([]*domain.Route, error) {
	return s.listRoutes(ctx, `WHERE swapper_id = ? AND date = ?`, swapperID, date.Format(dateLayout))
}

func (s *SqliteRouteRepository) listRoutes(ctx context.Context, where string, args ...any) ([]*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	query := fmt.Sprintf(`
	SELECT
		route_id,
		swapper_id,
		zone_id,
		date,
		target_duration_minutes,
		status,
		created_at,
		confirmed_at
	FROM routes
	%s
	ORDER BY route_id;
	`, where)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]*domain.Route, 0, 16)
	for rows.Next() {
		route, err := scanRoute(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list routes: %w", err)
		}
		routes = append(routes, route)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	for _, route := range routes {
		if err := s.loadStops(ctx, route); err != nil {
			return nil, fmt.Errorf("list routes: %w", err)
		}
	}

	return routes, nil
}

func (s *SqliteRouteRepository) loadStops(ctx context.Context, route *domain.Route) error {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		route_stop_id,
		route_id,
		vehicle_id,
		sequence_order,
		status,
		estimated_arrival_offset_seconds,
		estimated_duration_seconds,
		actual_arrival_time,
		actual_departure_time
	FROM route_stops
	WHERE route_id = ?
	ORDER BY sequence_order;
	`, route.RouteID)
	if err != nil {
		return fmt.Errorf("load stops: query route_stops table: %w", err)
	}
	defer rows.Close()

	route.Stops = route.Stops[:0]
	for rows.Next() {
		stop, err := scanStop(rows.Scan)
		if err != nil {
			return fmt.Errorf("load stops: %w", err)
		}
		route.Stops = append(route.Stops, *stop)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("load stops: row iteration: %w", err)
	}

	return nil
}

func scanRoute(scan func(...any) error) (*domain.Route, error) {
	var (
		route       domain.Route
		date        string
		targetMin   int
		status      string
		createdAt   string
		confirmedAt sql.NullString
	)

	err := scan(
		&route.RouteID,
		&route.SwapperID,
		&route.ZoneID,
		&date,
		&targetMin,
		&status,
		&createdAt,
		&confirmedAt,
	)
	if err != nil {
		return nil, err
	}

	route.Date, err = time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse route date %q: %w", date, err)
	}
	route.CreatedAt, err = time.Parse(timestampLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse route created_at %q: %w", createdAt, err)
	}
	route.ConfirmedAt, err = parseNullableTime(confirmedAt)
	if err != nil {
		return nil, fmt.Errorf("parse route confirmed_at: %w", err)
	}

	route.TargetDuration = time.Duration(targetMin) * time.Minute
	route.Status = domain.RouteStatus(status)

	return &route, nil
}

func scanStop(scan func(...any) error) (*domain.RouteStop, error) {
	var (
		stop       domain.RouteStop
		status     string
		offsetSec  int64
		serviceSec int64
		arrival    sql.NullString
		departure  sql.NullString
	)

	err := scan(
		&stop.RouteStopID,
		&stop.RouteID,
		&stop.VehicleID,
		&stop.SequenceOrder,
		&status,
		&offsetSec,
		&serviceSec,
		&arrival,
		&departure,
	)
	if err != nil {
		return nil, err
	}

	stop.Status = domain.StopStatus(status)
	stop.EstimatedArrivalOffset = time.Duration(offsetSec) * time.Second
	stop.EstimatedDuration = time.Duration(serviceSec) * time.Second

	stop.ActualArrivalTime, err = parseNullableTime(arrival)
	if err != nil {
		return nil, fmt.Errorf("parse stop actual_arrival_time: %w", err)
	}
	stop.ActualDepartureTime, err = parseNullableTime(departure)
	if err != nil {
		return nil, fmt.Errorf("parse stop actual_departure_time: %w", err)
	}

	return &stop, nil
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timestampLayout)
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(timestampLayout, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/domain"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/geo"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/platform/obs"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/ports"
)

// RouteService owns the route/stop lifecycle: creating a route from a
// vehicle list and an optimized order, and transitioning status on
// confirm/start/complete/skip events. Stateless between calls; all state
// lives behind the repositories.
type RouteService struct {
	routes    ports.RouteRepository
	vehicles  ports.VehicleRepository
	optimizer *TourOptimizer
}

func NewRouteService(routes ports.RouteRepository, vehicles ports.VehicleRepository, optimizer *TourOptimizer) *RouteService {
	return &RouteService{routes: routes, vehicles: vehicles, optimizer: optimizer}
}

// CreateOptimizedRoute builds and persists a Suggested route for the given
// swapper.
//
// Vehicle IDs outside the zone are silently dropped (a policy choice, not a
// validation error). The optimizer determines stop order and ETAs. Route and
// stops are persisted as one atomic unit: on any failure nothing remains
// visible.
func (s *RouteService) CreateOptimizedRoute(
	ctx context.Context,
	swapperID int64,
	zoneID int64,
	date time.Time,
	targetDurationMinutes int,
	vehicleIDs []int64,
) (route *domain.Route, err error) {
	defer obs.Time(ctx, "create optimized route")(&err)

	if err := domain.ValidateTargetDuration(targetDurationMinutes); err != nil {
		return nil, fmt.Errorf("create optimized route: %w", err)
	}

	vehicles, err := s.vehicles.FilterInZone(ctx, vehicleIDs, zoneID)
	if err != nil {
		return nil, fmt.Errorf("create optimized route: filter vehicles in zone %d: %w", zoneID, err)
	}
	if len(vehicles) == 0 {
		return nil, fmt.Errorf("create optimized route: %w: no vehicles found in zone %d", domain.ErrInvalidInput, zoneID)
	}

	stops := make([]domain.Stop, len(vehicles))
	for i, v := range vehicles {
		stops[i] = domain.Stop{VehicleID: v.VehicleID, Location: v.Location}
	}

	result := s.optimizer.Optimize(ctx, stops, targetDurationMinutes)
	if !result.Success {
		return nil, fmt.Errorf("create optimized route: %w: %s", domain.ErrInvalidInput, result.Message)
	}

	route = &domain.Route{
		SwapperID:      swapperID,
		ZoneID:         zoneID,
		Date:           date,
		TargetDuration: time.Duration(targetDurationMinutes) * time.Minute,
		Status:         domain.RouteStatusSuggested,
		CreatedAt:      time.Now().UTC(),
		Stops:          make([]domain.RouteStop, len(result.OptimalOrder)),
	}
	for i, stopIdx := range result.OptimalOrder {
		route.Stops[i] = domain.RouteStop{
			VehicleID:              vehicles[stopIdx].VehicleID,
			SequenceOrder:          i + 1,
			Status:                 domain.StopStatusPending,
			EstimatedArrivalOffset: result.ArrivalOffsets[i],
			EstimatedDuration:      geo.StopServiceTime,
		}
	}

	if err := s.routes.CreateRouteWithStops(ctx, route); err != nil {
		return nil, fmt.Errorf("create optimized route: persist route: %w", err)
	}

	return route, nil
}

// ConfirmRoute transitions a Suggested route to Confirmed, stamping the
// confirmation time. A route in any other status yields domain.ErrNotFound.
func (s *RouteService) ConfirmRoute(ctx context.Context, routeID int64) (*domain.Route, error) {
	route, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("confirm route %d: %w", routeID, err)
	}

	now := time.Now().UTC()
	if err := route.Confirm(now); err != nil {
		return nil, fmt.Errorf("confirm route %d: %w", routeID, err)
	}

	// Status compare-and-swap in the store guards against a concurrent
	// transition between the read above and this write.
	if err := s.routes.UpdateRouteStatus(ctx, routeID, domain.RouteStatusSuggested, domain.RouteStatusConfirmed, &now); err != nil {
		return nil, fmt.Errorf("confirm route %d: %w", routeID, err)
	}

	return route, nil
}

// StartRoute transitions a Confirmed route to InProgress.
func (s *RouteService) StartRoute(ctx context.Context, routeID int64) (*domain.Route, error) {
	route, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("start route %d: %w", routeID, err)
	}

	if err := route.Start(); err != nil {
		return nil, fmt.Errorf("start route %d: %w", routeID, err)
	}

	if err := s.routes.UpdateRouteStatus(ctx, routeID, domain.RouteStatusConfirmed, domain.RouteStatusInProgress, nil); err != nil {
		return nil, fmt.Errorf("start route %d: %w", routeID, err)
	}

	return route, nil
}

// CompleteRouteStop transitions a Pending stop to Completed, stamping actual
// arrival now and departure after the fixed swap service time. Returns false
// when the stop does not exist or is not Pending.
func (s *RouteService) CompleteRouteStop(ctx context.Context, routeStopID int64) (bool, error) {
	stop, err := s.routes.GetRouteStop(ctx, routeStopID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("complete route stop %d: %w", routeStopID, err)
	}

	if !stop.Complete(time.Now().UTC(), geo.StopServiceTime) {
		return false, nil
	}

	if err := s.routes.UpdateStop(ctx, stop); err != nil {
		return false, fmt.Errorf("complete route stop %d: %w", routeStopID, err)
	}

	if err := s.completeRouteIfFinished(ctx, stop.RouteID); err != nil {
		return false, fmt.Errorf("complete route stop %d: %w", routeStopID, err)
	}

	return true, nil
}

// SkipRouteStop transitions a Pending stop to Skipped. Same guard shape as
// CompleteRouteStop.
func (s *RouteService) SkipRouteStop(ctx context.Context, routeStopID int64) (bool, error) {
	stop, err := s.routes.GetRouteStop(ctx, routeStopID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("skip route stop %d: %w", routeStopID, err)
	}

	if !stop.Skip() {
		return false, nil
	}

	if err := s.routes.UpdateStop(ctx, stop); err != nil {
		return false, fmt.Errorf("skip route stop %d: %w", routeStopID, err)
	}

	if err := s.completeRouteIfFinished(ctx, stop.RouteID); err != nil {
		return false, fmt.Errorf("skip route stop %d: %w", routeStopID, err)
	}

	return true, nil
}

// completeRouteIfFinished moves an InProgress route to Completed once every
// stop reached a terminal state.
func (s *RouteService) completeRouteIfFinished(ctx context.Context, routeID int64) error {
	route, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return err
	}

	if route.Status != domain.RouteStatusInProgress || !route.AllStopsTerminal() {
		return nil
	}

	err = s.routes.UpdateRouteStatus(ctx, routeID, domain.RouteStatusInProgress, domain.RouteStatusCompleted, nil)
	if errors.Is(err, domain.ErrNotFound) {
		// Lost a race with another finisher; the route is already done.
		return nil
	}
	return err
}

// GetRoutesByZone returns all routes planned in a zone. Empty is valid.
func (s *RouteService) GetRoutesByZone(ctx context.Context, zoneID int64) ([]*domain.Route, error) {
	routes, err := s.routes.ListByZone(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("get routes by zone %d: %w", zoneID, err)
	}
	return routes, nil
}

// GetRoutesByStatus returns all routes in the given status. Empty is valid.
func (s *RouteService) GetRoutesByStatus(ctx context.Context, status domain.RouteStatus) ([]*domain.Route, error) {
	routes, err := s.routes.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("get routes by status %s: %w", status, err)
	}
	return routes, nil
}

// GetRoutesForSwapperToday returns the swapper's routes dated today (UTC).
func (s *RouteService) GetRoutesForSwapperToday(ctx context.Context, swapperID int64) ([]*domain.Route, error) {
	routes, err := s.routes.ListForSwapperOn(ctx, swapperID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("get routes for swapper %d: %w", swapperID, err)
	}
	return routes, nil
}

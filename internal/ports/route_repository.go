package ports

import (
	"context"
	"time"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/domain"
)

// Port: persistence boundary for routes and their stops.
//
// Implementations must provide "read what you just wrote" consistency inside
// CreateRouteWithStops and atomic multi-row commit/rollback: a route without
// its stops, or stops without their route, must never be observable.
type RouteRepository interface {
	// Persist a route and all of its stops in a single transaction,
	// assigning generated identifiers back onto the entities. On error
	// nothing is persisted.
	CreateRouteWithStops(ctx context.Context, route *domain.Route) error

	// Load a route with its stops ordered by sequence.
	GetRoute(ctx context.Context, routeID int64) (*domain.Route, error)

	// Load a single stop.
	GetRouteStop(ctx context.Context, routeStopID int64) (*domain.RouteStop, error)

	// Transition a route's status only if its current status matches the
	// expected one, persisting the optional confirmation timestamp.
	// Returns domain.ErrNotFound when no such route in the expected status
	// exists.
	UpdateRouteStatus(ctx context.Context, routeID int64, expected, next domain.RouteStatus, confirmedAt *time.Time) error

	// Persist a stop's mutated status and actual timestamps.
	UpdateStop(ctx context.Context, stop *domain.RouteStop) error

	ListByZone(ctx context.Context, zoneID int64) ([]*domain.Route, error)
	ListByStatus(ctx context.Context, status domain.RouteStatus) ([]*domain.Route, error)
	ListForSwapperOn(ctx context.Context, swapperID int64, date time.Time) ([]*domain.Route, error)
}

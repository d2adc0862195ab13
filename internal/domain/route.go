package domain

import (
	"fmt"
	"time"
)

type RouteStatus string

const (
	RouteStatusSuggested  RouteStatus = "suggested"
	RouteStatusConfirmed  RouteStatus = "confirmed"
	RouteStatusInProgress RouteStatus = "in_progress"
	RouteStatusCompleted  RouteStatus = "completed"
)

type StopStatus string

const (
	StopStatusPending   StopStatus = "pending"
	StopStatusCompleted StopStatus = "completed"
	StopStatusSkipped   StopStatus = "skipped"
)

// Bounds on a route's target duration in minutes.
const (
	MinTargetDurationMinutes = 60
	MaxTargetDurationMinutes = 1440
)

// ValidateTargetDuration checks the target duration bound before it reaches
// the optimizer, which trusts the value as-is.
func ValidateTargetDuration(minutes int) error {
	if minutes < MinTargetDurationMinutes || minutes > MaxTargetDurationMinutes {
		return fmt.Errorf(
			"%w: target duration must be between %d and %d minutes, got %d",
			ErrInvalidInput, MinTargetDurationMinutes, MaxTargetDurationMinutes, minutes,
		)
	}
	return nil
}

// Represents one vehicle visit within a route.
// A RouteStop moves from Pending to exactly one of the terminal states
// Completed or Skipped; there is no way back.
type RouteStop struct {
	RouteStopID            int64
	RouteID                int64
	VehicleID              int64
	SequenceOrder          int // 1-based, unique within the route
	Status                 StopStatus
	EstimatedArrivalOffset time.Duration // from route start
	EstimatedDuration      time.Duration // time spent at the stop
	ActualArrivalTime      *time.Time
	ActualDepartureTime    *time.Time
}

// Complete transitions a Pending stop to Completed, stamping actual arrival
// and departure. Returns false without mutating anything when the stop is
// already terminal.
func (s *RouteStop) Complete(arrival time.Time, serviceTime time.Duration) bool {
	if s.Status != StopStatusPending {
		return false
	}

	departure := arrival.Add(serviceTime)
	s.Status = StopStatusCompleted
	s.ActualArrivalTime = &arrival
	s.ActualDepartureTime = &departure
	return true
}

// Skip transitions a Pending stop to Skipped. Returns false without mutating
// anything when the stop is already terminal.
func (s *RouteStop) Skip() bool {
	if s.Status != StopStatusPending {
		return false
	}

	s.Status = StopStatusSkipped
	return true
}

// Represents a planned battery-swap itinerary for a single swapper.
// A Route owns its stops exclusively and is never hard-deleted by the core;
// its lifecycle is modelled entirely through status transitions:
// Suggested -> Confirmed -> InProgress -> Completed, forward only.
type Route struct {
	RouteID        int64
	SwapperID      int64
	ZoneID         int64
	Date           time.Time
	TargetDuration time.Duration
	Status         RouteStatus
	CreatedAt      time.Time
	ConfirmedAt    *time.Time
	Stops          []RouteStop
}

// Confirm transitions a Suggested route to Confirmed, stamping the
// confirmation time. Any other current status yields ErrNotFound: a route
// that cannot be confirmed is indistinguishable, to the caller, from one
// that does not exist.
func (r *Route) Confirm(now time.Time) error {
	if r.Status != RouteStatusSuggested {
		return ErrNotFound
	}

	r.Status = RouteStatusConfirmed
	r.ConfirmedAt = &now
	return nil
}

// Start transitions a Confirmed route to InProgress.
func (r *Route) Start() error {
	if r.Status != RouteStatusConfirmed {
		return ErrNotFound
	}

	r.Status = RouteStatusInProgress
	return nil
}

// AllStopsTerminal reports whether every stop has been completed or skipped.
func (r *Route) AllStopsTerminal() bool {
	for i := range r.Stops {
		if r.Stops[i].Status == StopStatusPending {
			return false
		}
	}
	return true
}

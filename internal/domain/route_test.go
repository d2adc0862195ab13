package domain

import (
	"errors"
	"testing"
	"time"
)

func TestRouteConfirm(t *testing.T) {
	route := &Route{Status: RouteStatusSuggested}
	now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

	if err := route.Confirm(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Status != RouteStatusConfirmed {
		t.Fatalf("status = %s, want %s", route.Status, RouteStatusConfirmed)
	}
	if route.ConfirmedAt == nil || !route.ConfirmedAt.Equal(now) {
		t.Fatalf("ConfirmedAt = %v, want %v", route.ConfirmedAt, now)
	}
}

func TestRouteConfirmWrongStatus(t *testing.T) {
	now := time.Now().UTC()
	for _, status := range []RouteStatus{RouteStatusConfirmed, RouteStatusInProgress, RouteStatusCompleted} {
		route := &Route{Status: status}
		if err := route.Confirm(now); !errors.Is(err, ErrNotFound) {
			t.Errorf("Confirm from %s: error = %v, want ErrNotFound", status, err)
		}
		if route.Status != status {
			t.Errorf("Confirm from %s mutated status to %s", status, route.Status)
		}
		if route.ConfirmedAt != nil {
			t.Errorf("Confirm from %s stamped ConfirmedAt", status)
		}
	}
}

func TestRouteStart(t *testing.T) {
	route := &Route{Status: RouteStatusConfirmed}

	if err := route.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Status != RouteStatusInProgress {
		t.Fatalf("status = %s, want %s", route.Status, RouteStatusInProgress)
	}
}

func TestRouteStartWrongStatus(t *testing.T) {
	for _, status := range []RouteStatus{RouteStatusSuggested, RouteStatusInProgress, RouteStatusCompleted} {
		route := &Route{Status: status}
		if err := route.Start(); !errors.Is(err, ErrNotFound) {
			t.Errorf("Start from %s: error = %v, want ErrNotFound", status, err)
		}
		if route.Status != status {
			t.Errorf("Start from %s mutated status to %s", status, route.Status)
		}
	}
}

func TestRouteAllStopsTerminal(t *testing.T) {
	route := &Route{
		Stops: []RouteStop{
			{Status: StopStatusCompleted},
			{Status: StopStatusPending},
			{Status: StopStatusSkipped},
		},
	}

	if route.AllStopsTerminal() {
		t.Fatal("pending stop should keep the route unfinished")
	}

	route.Stops[1].Status = StopStatusSkipped
	if !route.AllStopsTerminal() {
		t.Fatal("all stops terminal, want true")
	}

	empty := &Route{}
	if !empty.AllStopsTerminal() {
		t.Fatal("route without stops should count as terminal")
	}
}

func TestRouteStopComplete(t *testing.T) {
	stop := &RouteStop{Status: StopStatusPending}
	arrival := time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)

	if !stop.Complete(arrival, 5*time.Minute) {
		t.Fatal("Complete on pending stop returned false")
	}
	if stop.Status != StopStatusCompleted {
		t.Fatalf("status = %s, want %s", stop.Status, StopStatusCompleted)
	}
	if stop.ActualArrivalTime == nil || !stop.ActualArrivalTime.Equal(arrival) {
		t.Fatalf("ActualArrivalTime = %v, want %v", stop.ActualArrivalTime, arrival)
	}
	wantDeparture := arrival.Add(5 * time.Minute)
	if stop.ActualDepartureTime == nil || !stop.ActualDepartureTime.Equal(wantDeparture) {
		t.Fatalf("ActualDepartureTime = %v, want %v", stop.ActualDepartureTime, wantDeparture)
	}
}

func TestRouteStopCompleteTerminal(t *testing.T) {
	for _, status := range []StopStatus{StopStatusCompleted, StopStatusSkipped} {
		stop := &RouteStop{Status: status}
		if stop.Complete(time.Now().UTC(), 5*time.Minute) {
			t.Errorf("Complete on %s stop returned true", status)
		}
		if stop.ActualArrivalTime != nil || stop.ActualDepartureTime != nil {
			t.Errorf("Complete on %s stop stamped timestamps", status)
		}
	}
}

func TestRouteStopSkip(t *testing.T) {
	stop := &RouteStop{Status: StopStatusPending}

	if !stop.Skip() {
		t.Fatal("Skip on pending stop returned false")
	}
	if stop.Status != StopStatusSkipped {
		t.Fatalf("status = %s, want %s", stop.Status, StopStatusSkipped)
	}

	// Terminal now, so a second skip and a late complete must both refuse.
	if stop.Skip() {
		t.Fatal("Skip on skipped stop returned true")
	}
	if stop.Complete(time.Now().UTC(), 5*time.Minute) {
		t.Fatal("Complete on skipped stop returned true")
	}
}

func TestValidateTargetDuration(t *testing.T) {
	for _, minutes := range []int{60, 120, 1440} {
		if err := ValidateTargetDuration(minutes); err != nil {
			t.Errorf("ValidateTargetDuration(%d) = %v, want nil", minutes, err)
		}
	}
	for _, minutes := range []int{0, 59, 1441, -10} {
		err := ValidateTargetDuration(minutes)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ValidateTargetDuration(%d) = %v, want ErrInvalidInput", minutes, err)
		}
	}
}

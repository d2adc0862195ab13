package dto

import "time"

type CreateRouteRequest struct {
	SwapperID             int64   `json:"swapper_id"`
	ZoneID                int64   `json:"zone_id"`
	Date                  string  `json:"date"` // YYYY-MM-DD, empty means today
	TargetDurationMinutes int     `json:"target_duration_minutes"`
	VehicleIDs            []int64 `json:"vehicle_ids"`
}

type RouteStopResponse struct {
	RouteStopID             int64      `json:"route_stop_id"`
	VehicleID               int64      `json:"vehicle_id"`
	SequenceOrder           int        `json:"sequence_order"`
	Status                  string     `json:"status"`
	EstimatedArrivalMinutes int        `json:"estimated_arrival_minutes"`
	EstimatedServiceMinutes int        `json:"estimated_service_minutes"`
	ActualArrivalTime       *time.Time `json:"actual_arrival_time"`
	ActualDepartureTime     *time.Time `json:"actual_departure_time"`
}

type RouteResponse struct {
	RouteID               int64               `json:"route_id"`
	SwapperID             int64               `json:"swapper_id"`
	ZoneID                int64               `json:"zone_id"`
	Date                  string              `json:"date"`
	TargetDurationMinutes int                 `json:"target_duration_minutes"`
	Status                string              `json:"status"`
	CreatedAt             time.Time           `json:"created_at"`
	ConfirmedAt           *time.Time          `json:"confirmed_at"`
	Stops                 []RouteStopResponse `json:"stops"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type StopActionResponse struct {
	Updated bool `json:"updated"`
}

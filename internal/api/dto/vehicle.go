package dto

type VehicleResponse struct {
	VehicleID    int64   `json:"vehicle_id"`
	ZoneID       int64   `json:"zone_id"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	BatteryLevel int     `json:"battery_level"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}

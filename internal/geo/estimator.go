// Package geo estimates travel distance and time between WGS84 points.
//
// Distances are great-circle (haversine); there is no road network. Travel
// time assumes a flat urban average speed and includes the fixed
// battery-swap service allowance at the destination stop, so per-edge costs
// already account for servicing the stop they lead to.
package geo

import (
	"math"
	"time"
)

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0

	// AverageSpeedKmh is the flat urban travel speed assumption.
	AverageSpeedKmh = 30.0

	// StopServiceTime is the fixed time spent swapping a battery at a stop.
	StopServiceTime = 5 * time.Minute
)

// Distance returns the great-circle distance in kilometers between two
// points given in degrees. Pure and total: any finite pair is accepted, and
// equal points yield zero.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	a := sinLat*sinLat + math.Cos(radians(lat1))*math.Cos(radians(lat2))*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// TravelTimeSeconds returns the exact travel-plus-service estimate in
// seconds, without rounding. The cost matrix is built from this so rounding
// happens once, at presentation.
func TravelTimeSeconds(lat1, lon1, lat2, lon2 float64) int64 {
	travel := Distance(lat1, lon1, lat2, lon2) / AverageSpeedKmh * 3600
	return int64(math.Ceil(travel)) + int64(StopServiceTime/time.Second)
}

// TravelTime returns the estimated minutes to travel between two points and
// service the destination stop, rounded up to a whole minute.
func TravelTime(lat1, lon1, lat2, lon2 float64) int {
	return MinutesCeil(TravelTimeSeconds(lat1, lon1, lat2, lon2))
}

// MinutesCeil converts seconds to minutes, rounding up. All seconds-to-
// minutes conversions in the planner go through this one policy.
func MinutesCeil(seconds int64) int {
	if seconds <= 0 {
		return 0
	}
	return int((seconds + 59) / 60)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

package domain

// Immutable geographic coordinates (latitude, longitude) in WGS84 degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Centroid returns the arithmetic mean of a set of coordinates.
// The zero value is returned for an empty input.
func Centroid(points []Coordinates) Coordinates {
	if len(points) == 0 {
		return Coordinates{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	n := float64(len(points))
	return Coordinates{Lat: sumLat / n, Lon: sumLon / n}
}

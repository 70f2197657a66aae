package utils

import "math"

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between two coordinates.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BoundingBox returns the lat/lon bounds of a circle of radiusKM around a
// point, for a coarse index-friendly prefilter before the exact distance test.
func BoundingBox(lat, lon, radiusKM float64) (minLat, maxLat, minLon, maxLon float64) {
	latDelta := radiusKM / 111.0
	lonDelta := latDelta
	if cos := math.Cos(lat * math.Pi / 180); cos > 0.01 {
		lonDelta = radiusKM / (111.0 * cos)
	}
	return lat - latDelta, lat + latDelta, lon - lonDelta, lon + lonDelta
}

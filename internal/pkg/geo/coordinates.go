package geo

import (
	"fmt"
	"math"
)

// EarthRadius is the WGS84 semi-major axis in meters.
const EarthRadius = 6378137.0

// ValidateCoordinates checks if latitude and longitude are within range.
// Latitude must be between -90 and 90
// Longitude must be between -180 and 180
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// HasValidCoordinates additionally treats 0,0 as missing data.
func HasValidCoordinates(lat, lon float64) bool {
	if lat == 0 && lon == 0 {
		return false
	}
	return ValidateCoordinates(lat, lon)
}

// CalculateCenterPoint averages the valid coordinates, returning the
// fallback when none are valid.
func CalculateCenterPoint(coordinates [][2]float64, fallbackLat, fallbackLon float64) (float64, float64) {
	var latSum, lonSum float64
	n := 0
	for _, coord := range coordinates {
		if !HasValidCoordinates(coord[0], coord[1]) {
			continue
		}
		latSum += coord[0]
		lonSum += coord[1]
		n++
	}

	if n == 0 {
		return fallbackLat, fallbackLon
	}
	return latSum / float64(n), lonSum / float64(n)
}

// CalculateBounds returns minLat, maxLat, minLon, maxLon over the valid
// coordinates, or all zeros when there are none.
func CalculateBounds(coordinates [][2]float64) (float64, float64, float64, float64) {
	minLat, maxLat := math.MaxFloat64, -math.MaxFloat64
	minLon, maxLon := math.MaxFloat64, -math.MaxFloat64
	found := false

	for _, coord := range coordinates {
		if !HasValidCoordinates(coord[0], coord[1]) {
			continue
		}
		found = true
		minLat = math.Min(minLat, coord[0])
		maxLat = math.Max(maxLat, coord[0])
		minLon = math.Min(minLon, coord[1])
		maxLon = math.Max(maxLon, coord[1])
	}

	if !found {
		return 0, 0, 0, 0
	}
	return minLat, maxLat, minLon, maxLon
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// HaversineDistance returns the great-circle distance in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := degreesToRadians(lat1)
	phi2 := degreesToRadians(lat2)
	dPhi := degreesToRadians(lat2 - lat1)
	dLambda := degreesToRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}

// FormatCoordinatesDisplay formats coordinates for display.
// Returns "Lat, Lon" or "Location TBD" if invalid
func FormatCoordinatesDisplay(lat, lon float64) string {
	if !HasValidCoordinates(lat, lon) {
		return "Location TBD"
	}
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

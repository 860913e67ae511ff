// Package geo holds the distance and busyness math shared by search and
// enrichment.
package geo

import "math"

// earthRadiusKm is the IUGG mean Earth radius.
const earthRadiusKm = 6371.0088

// Busyness levels derived from recent check-in counts.
const (
	BusyLow      = "Low"
	BusyModerate = "Moderate"
	BusyHigh     = "High"
)

// HaversineKm returns the great-circle distance between two points in
// kilometers. Coordinates are degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLmb := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLmb/2)*math.Sin(dLmb/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BusyBucket classifies a recent check-in count into a busyness level.
// Negative counts are treated as zero.
func BusyBucket(count int) string {
	switch {
	case count >= 7:
		return BusyHigh
	case count >= 3:
		return BusyModerate
	default:
		return BusyLow
	}
}

// BusyRank orders busyness levels for sorting, busiest first.
func BusyRank(level string) int {
	switch level {
	case BusyHigh:
		return 0
	case BusyModerate:
		return 1
	case BusyLow:
		return 2
	}
	return 3
}

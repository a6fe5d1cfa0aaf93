package models

import "fmt"

// Route is the summary of the first route returned by a routing provider.
type Route struct {
	DistanceMeters  float64 // Total distance in meters.
	DurationSeconds float64 // Total driving time in seconds.
	Raw             string  // Raw provider response.
}

// DistanceKm returns the distance in kilometers.
func (r Route) DistanceKm() float64 {
	return r.DistanceMeters / 1000
}

// DurationMinutes returns the driving time in minutes.
func (r Route) DurationMinutes() float64 {
	return r.DurationSeconds / 60
}

// Summary formats distance and duration with two decimals.
func (r Route) Summary() string {
	return fmt.Sprintf("Distance %.2f km, Duration %.2f minutes", r.DistanceKm(), r.DurationMinutes())
}

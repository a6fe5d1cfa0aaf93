package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinates is returned when a latitude or longitude is out of range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates represents a geographical point defined by its latitude and longitude.
// Values are immutable once constructed; pass them by value.
type Coordinates struct {
	Latitude  float64 // Latitude of the geographical point, [-90, 90].
	Longitude float64 // Longitude of the geographical point, [-180, 180].
}

// NewCoordinates builds a validated point.
func NewCoordinates(lat, lon float64) (Coordinates, error) {
	coords := Coordinates{Latitude: lat, Longitude: lon}
	if err := coords.Validate(); err != nil {
		return Coordinates{}, err
	}

	return coords, nil
}

// Validate reports whether both components are within range.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinates, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinates, c.Longitude)
	}

	return nil
}

// LonLat returns the point as [lon, lat], the ordering used by routing providers.
func (c Coordinates) LonLat() []float64 {
	return []float64{c.Longitude, c.Latitude}
}

// String formats the point as "(lat, lon)".
func (c Coordinates) String() string {
	return fmt.Sprintf("(%v, %v)", c.Latitude, c.Longitude)
}

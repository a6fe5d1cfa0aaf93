package models_test

import (
	"math"
	"testing"

	"github.com/UnknownOlympus/sentinel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinates(t *testing.T) {
	t.Run("valid point", func(t *testing.T) {
		coords, err := models.NewCoordinates(11.0168, 76.9558)

		require.NoError(t, err)
		assert.InEpsilon(t, 11.0168, coords.Latitude, 0.0001)
		assert.Equal(t, []float64{76.9558, 11.0168}, coords.LonLat())
		assert.Equal(t, "(11.0168, 76.9558)", coords.String())
	})

	t.Run("latitude out of range", func(t *testing.T) {
		_, err := models.NewCoordinates(91, 0)

		require.ErrorIs(t, err, models.ErrInvalidCoordinates)
		assert.ErrorContains(t, err, "latitude")
	})

	t.Run("longitude out of range", func(t *testing.T) {
		_, err := models.NewCoordinates(0, -180.5)

		require.ErrorIs(t, err, models.ErrInvalidCoordinates)
		assert.ErrorContains(t, err, "longitude")
	})

	t.Run("NaN is rejected", func(t *testing.T) {
		_, err := models.NewCoordinates(math.NaN(), 0)
		require.ErrorIs(t, err, models.ErrInvalidCoordinates)
		assert.ErrorContains(t, err, "latitude")

		err = models.Coordinates{Latitude: 0, Longitude: math.NaN()}.Validate()
		require.ErrorIs(t, err, models.ErrInvalidCoordinates)
		assert.ErrorContains(t, err, "longitude")
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		_, err := models.NewCoordinates(-90, 180)

		assert.NoError(t, err)
	})
}

func TestRoute_Summary(t *testing.T) {
	route := models.Route{DistanceMeters: 12345, DurationSeconds: 987}

	assert.InEpsilon(t, 12.345, route.DistanceKm(), 0.000001)
	assert.InEpsilon(t, 16.45, route.DurationMinutes(), 0.000001)
	assert.Equal(t, "Distance 12.35 km, Duration 16.45 minutes", route.Summary())
}

func TestWeather_Summary(t *testing.T) {
	weather := models.Weather{Temperature: 28, RelativeHumidity: 80, Rain: 15, WindSpeed: 20}

	assert.Equal(t, "28.0°C, 80% humidity, 15.0mm rain, wind 20.0 km/h", weather.Summary())
}

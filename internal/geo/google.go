package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/sentinel/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It computes driving routes with
// the Directions service.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with no routes.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleProvider wraps an initialized Google Maps client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Route asks the Directions API for a driving route and sums the legs of the first result.
func (gp *GoogleProvider) Route(ctx context.Context, start, end models.Coordinates) (*models.Route, error) {
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("invalid start: %w", err)
	}
	if err := end.Validate(); err != nil {
		return nil, fmt.Errorf("invalid destination: %w", err)
	}

	gp.log.DebugContext(ctx, "Routing using Google Maps", "start", start.String(), "end", end.String())

	req := maps.DirectionsRequest{
		Origin:      latLng(start),
		Destination: latLng(end),
		Mode:        maps.TravelModeDriving,
	}
	routes, _, err := gp.client.Directions(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to request directions: %w", err)
	}

	if len(routes) == 0 {
		return nil, ErrEmptyResponse
	}

	var distance, duration float64
	for _, leg := range routes[0].Legs {
		if leg == nil {
			continue
		}
		distance += float64(leg.Distance.Meters)
		duration += leg.Duration.Seconds()
	}

	return &models.Route{
		DistanceMeters:  distance,
		DurationSeconds: duration,
		Raw:             fmt.Sprintf("summary=%q legs=%d", routes[0].Summary, len(routes[0].Legs)),
	}, nil
}

func latLng(c models.Coordinates) string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}

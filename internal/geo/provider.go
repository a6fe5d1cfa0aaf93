package geo

import (
	"context"
	"net/http"
	"time"

	"github.com/UnknownOlympus/sentinel/internal/models"
)

// DefaultTimeout bounds every outbound provider request.
const DefaultTimeout = 10 * time.Second

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WeatherProvider returns the current conditions at a point.
type WeatherProvider interface {
	Current(ctx context.Context, coords models.Coordinates) (*models.Weather, error)
}

// RouteProvider computes a driving route between two points.
type RouteProvider interface {
	Route(ctx context.Context, start, end models.Coordinates) (*models.Route, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{Timeout: timeout}
}

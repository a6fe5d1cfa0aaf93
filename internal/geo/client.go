package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/sentinel/internal/metrics"
	"github.com/UnknownOlympus/sentinel/internal/models"
)

// Text conventions used when a call fails. Callers that only see text rely on these prefixes.
const (
	WeatherErrorPrefix   = "Error fetching weather data: "
	RouteErrorPrefix     = "Error calculating route: "
	MissingRouteKeyError = "Error: ORS_API_KEY environment variable not set."
)

// Tool labels for metrics.
const (
	toolWeather = "weather"
	toolRoute   = "route"
)

// Client exposes weather and routing lookups as request/response calls whose
// failures are reported as data. It holds no state between calls.
type Client struct {
	weather WeatherProvider
	router  RouteProvider
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewClient builds a Client over the given providers.
func NewClient(weather WeatherProvider, router RouteProvider, metrics *metrics.Metrics, log *slog.Logger) *Client {
	return &Client{
		weather: weather,
		router:  router,
		metrics: metrics,
		log:     log,
	}
}

// LookupWeather returns the text rendering of the current conditions along with the
// structured value. On failure the text carries the error and the value is nil.
func (c *Client) LookupWeather(ctx context.Context, coords models.Coordinates) (string, *models.Weather, error) {
	startTime := time.Now()
	weather, err := c.weather.Current(ctx, coords)
	c.record(toolWeather, time.Since(startTime), err)

	if err != nil {
		c.log.ErrorContext(ctx, "Failed to fetch weather", "coords", coords.String(), "error", err)
		return WeatherErrorPrefix + err.Error(), nil, err
	}

	return fmt.Sprintf("Current weather at %s: %s", coords.String(), string(weather.Raw)), weather, nil
}

// FetchWeather returns the current conditions at (lat, lon) as text.
func (c *Client) FetchWeather(ctx context.Context, lat, lon float64) string {
	text, _, _ := c.LookupWeather(ctx, models.Coordinates{Latitude: lat, Longitude: lon})
	return text
}

// LookupRoute returns the text rendering of the route along with the structured value.
// On failure the text carries the error and the value is nil.
func (c *Client) LookupRoute(ctx context.Context, start, end models.Coordinates) (string, *models.Route, error) {
	startTime := time.Now()
	route, err := c.router.Route(ctx, start, end)
	c.record(toolRoute, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, ErrRouteMissingAPIKey) {
			return MissingRouteKeyError, nil, err
		}
		c.log.ErrorContext(ctx, "Failed to calculate route",
			"start", start.String(), "end", end.String(), "error", err)
		return RouteErrorPrefix + err.Error(), nil, err
	}

	text := fmt.Sprintf("Route calculated: %s. Full route details: %s", route.Summary(), route.Raw)
	return text, route, nil
}

// FetchRoute returns the driving route between two points as text.
func (c *Client) FetchRoute(ctx context.Context, startLat, startLon, endLat, endLon float64) string {
	text, _, _ := c.LookupRoute(
		ctx,
		models.Coordinates{Latitude: startLat, Longitude: startLon},
		models.Coordinates{Latitude: endLat, Longitude: endLon},
	)
	return text
}

func (c *Client) record(tool string, elapsed time.Duration, err error) {
	if c.metrics == nil {
		return
	}

	c.metrics.ToolRequestSeconds.WithLabelValues(tool).Observe(elapsed.Seconds())
	if err != nil {
		c.metrics.ToolErrors.WithLabelValues(tool).Inc()
	}
}

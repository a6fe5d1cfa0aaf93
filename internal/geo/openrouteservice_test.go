package geo_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/UnknownOlympus/sentinel/internal/geo"
	"github.com/UnknownOlympus/sentinel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const routeBody = `{"routes":[{"summary":{"distance":12345,"duration":987}}]}`

func TestOpenRouteServiceProvider_Route(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()
	apiKey := "test-api-key"
	defaultRL := rate.NewLimiter(rate.Inf, 0)
	start := models.Coordinates{Latitude: 11.0168, Longitude: 76.9558}
	end := models.Coordinates{Latitude: 11.05, Longitude: 77.0}

	t.Run("successful routing", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				// Verify request parameters
				assert.Equal(t, http.MethodPost, req.Method)
				assert.Equal(t, geo.OpenRouteServiceBaseURL+"/v2/directions/driving-car", req.URL.String())
				assert.Equal(t, apiKey, req.Header.Get("Authorization"))
				assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

				raw, err := io.ReadAll(req.Body)
				require.NoError(t, err)
				var body struct {
					Coordinates [][]float64 `json:"coordinates"`
				}
				require.NoError(t, json.Unmarshal(raw, &body))
				assert.Equal(t, [][]float64{{76.9558, 11.0168}, {77.0, 11.05}}, body.Coordinates)

				return jsonResponse(http.StatusOK, routeBody), nil
			},
		}

		provider := geo.NewOpenRouteServiceProviderWithClient(mockClient, apiKey, "", defaultRL, logger)
		route, err := provider.Route(ctx, start, end)

		require.NoError(t, err)
		require.NotNil(t, route)
		assert.InEpsilon(t, 12345.0, route.DistanceMeters, 0.0001)
		assert.InEpsilon(t, 987.0, route.DurationSeconds, 0.0001)
		assert.Equal(t, routeBody, route.Raw)
	})

	t.Run("missing API key makes no request", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("HTTP client should not be called without an API key")
				return nil, nil
			},
		}

		provider := geo.NewOpenRouteServiceProviderWithClient(mockClient, "", "", defaultRL, logger)
		route, err := provider.Route(ctx, start, end)

		assert.Nil(t, route)
		require.ErrorIs(t, err, geo.ErrRouteMissingAPIKey)
		assert.Equal(t, 0, mockClient.calls)
	})

	t.Run("empty routes", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"routes":[]}`), nil
			},
		}

		provider := geo.NewOpenRouteServiceProviderWithClient(mockClient, apiKey, "", defaultRL, logger)
		route, err := provider.Route(ctx, start, end)

		assert.Nil(t, route)
		assert.ErrorIs(t, err, geo.ErrRouteEmptyResponse)
	})

	t.Run("unauthorized", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusForbidden, `{"error":"Access to this API has been disallowed"}`), nil
			},
		}

		provider := geo.NewOpenRouteServiceProviderWithClient(mockClient, apiKey, "", defaultRL, logger)
		route, err := provider.Route(ctx, start, end)

		assert.Nil(t, route)
		assert.ErrorIs(t, err, geo.ErrRouteUnauthorized)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusNotFound, `{"error":{"code":2010,"message":"no routable point"}}`), nil
			},
		}

		provider := geo.NewOpenRouteServiceProviderWithClient(mockClient, apiKey, "", defaultRL, logger)
		route, err := provider.Route(ctx, start, end)

		assert.Nil(t, route)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "openrouteservice API returned status 404")
	})

	t.Run("malformed summary", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"routes":[{"summary":{"distance":"far"}}]}`), nil
			},
		}

		provider := geo.NewOpenRouteServiceProviderWithClient(mockClient, apiKey, "", defaultRL, logger)
		route, err := provider.Route(ctx, start, end)

		assert.Nil(t, route)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode openrouteservice response")
	})

	t.Run("route without summary values", func(t *testing.T) {
		for _, body := range []string{
			`{"routes":[{}]}`,
			`{"routes":[{"summary":{}}]}`,
			`{"routes":[{"summary":{"distance":12345}}]}`,
			`{"routes":[{"summary":{"duration":987}}]}`,
		} {
			mockClient := &mockHTTPClient{
				doFunc: func(_ *http.Request) (*http.Response, error) {
					return jsonResponse(http.StatusOK, body), nil
				},
			}

			provider := geo.NewOpenRouteServiceProviderWithClient(mockClient, apiKey, "", defaultRL, logger)
			route, err := provider.Route(ctx, start, end)

			assert.Nil(t, route, body)
			assert.ErrorIs(t, err, geo.ErrRouteMissingSummary, body)
		}
	})

	t.Run("invalid destination", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("HTTP client should not be called for invalid coordinates")
				return nil, nil
			},
		}

		provider := geo.NewOpenRouteServiceProviderWithClient(mockClient, apiKey, "", defaultRL, logger)
		route, err := provider.Route(ctx, start, models.Coordinates{Latitude: 0, Longitude: 200})

		assert.Nil(t, route)
		require.ErrorIs(t, err, models.ErrInvalidCoordinates)
		assert.Contains(t, err.Error(), "invalid destination")
	})

	t.Run("rate limit exceeded", func(t *testing.T) {
		rateCtx, cancel := context.WithCancel(context.Background())
		cancel() // cancel immediately
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("HTTP client should not be called when rate limit blocks")
				return nil, nil
			},
		}

		limiter := rate.NewLimiter(rate.Every(time.Second), 1)

		provider := geo.NewOpenRouteServiceProviderWithClient(mockClient, apiKey, "", limiter, logger)
		route, err := provider.Route(rateCtx, start, end)

		assert.Nil(t, route)
		assert.ErrorContains(t, err, "rate limit exceeded")
	})
}

func start() models.Coordinates {
	return models.Coordinates{Latitude: 11.0168, Longitude: 76.9558}
}

func destination() models.Coordinates {
	return models.Coordinates{Latitude: 11.05, Longitude: 77.0}
}

package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/UnknownOlympus/sentinel/internal/models"
	"golang.org/x/time/rate"
)

// OpenRouteServiceBaseURL -- OpenRouteService API base URL.
const OpenRouteServiceBaseURL = "https://api.openrouteservice.org"

// DefaultORSRequestsPerMinute matches the free-tier directions quota.
const DefaultORSRequestsPerMinute = 40

// Common errors for OpenRouteService provider.
var (
	ErrRouteMissingAPIKey  = errors.New("ORS_API_KEY environment variable not set")
	ErrRouteEmptyResponse  = errors.New("openrouteservice API returned no routes")
	ErrRouteUnauthorized   = errors.New("openrouteservice API unauthorized (invalid API key)")
	ErrRouteMissingSummary = errors.New("openrouteservice route has no distance or duration")
)

// OpenRouteServiceProvider implements RouteProvider using the ORS directions API.
type OpenRouteServiceProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the ORS API
	apiKey  string        // API key sent in the Authorization header
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

type orsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type orsResponse struct {
	Routes []struct {
		Summary *struct {
			Distance *float64 `json:"distance"` // meters
			Duration *float64 `json:"duration"` // seconds
		} `json:"summary"`
	} `json:"routes"`
}

// NewOpenRouteServiceProvider creates a new ORS routing provider.
func NewOpenRouteServiceProvider(
	apiKey, baseURL string,
	perMinute int,
	timeout time.Duration,
	log *slog.Logger,
) *OpenRouteServiceProvider {
	if perMinute <= 0 {
		perMinute = DefaultORSRequestsPerMinute
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)

	return NewOpenRouteServiceProviderWithClient(newHTTPClient(timeout), apiKey, baseURL, limiter, log)
}

// NewOpenRouteServiceProviderWithClient allows injecting custom HTTP client.
func NewOpenRouteServiceProviderWithClient(
	client HTTPClient,
	apiKey, baseURL string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *OpenRouteServiceProvider {
	if baseURL == "" {
		baseURL = OpenRouteServiceBaseURL
	}

	return &OpenRouteServiceProvider{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		log:     log,
		limiter: limiter,
	}
}

// Route requests a driving-car route and returns the first route's summary.
func (rp *OpenRouteServiceProvider) Route(
	ctx context.Context,
	start, end models.Coordinates,
) (*models.Route, error) {
	if rp.apiKey == "" {
		return nil, ErrRouteMissingAPIKey
	}
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("invalid start: %w", err)
	}
	if err := end.Validate(); err != nil {
		return nil, fmt.Errorf("invalid destination: %w", err)
	}

	if err := rp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	payload, err := json.Marshal(orsRequest{Coordinates: [][]float64{start.LonLat(), end.LonLat()}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	rp.log.DebugContext(ctx, "Routing using OpenRouteService", "start", start.String(), "end", end.String())

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		rp.baseURL+"/v2/directions/driving-car",
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Headers
	req.Header.Set("Authorization", rp.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := rp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute routing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrRouteUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		rp.log.ErrorContext(ctx, "OpenRouteService API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("openrouteservice API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result orsResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode openrouteservice response: %w", err)
	}

	if len(result.Routes) == 0 {
		return nil, ErrRouteEmptyResponse
	}

	summary := result.Routes[0].Summary
	if summary == nil || summary.Distance == nil || summary.Duration == nil {
		return nil, ErrRouteMissingSummary
	}
	rp.log.InfoContext(ctx, "OpenRouteService found route",
		"distance_m", *summary.Distance, "duration_s", *summary.Duration)

	return &models.Route{
		DistanceMeters:  *summary.Distance,
		DurationSeconds: *summary.Duration,
		Raw:             string(body),
	}, nil
}

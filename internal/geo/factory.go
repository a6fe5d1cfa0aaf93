package geo

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of routing provider.
type ProviderType string

const (
	// ProviderTypeOpenRouteService represents the OpenRouteService directions API.
	ProviderTypeOpenRouteService ProviderType = "openrouteservice"
	// ProviderTypeGoogle represents the Google Maps Directions API.
	ProviderTypeGoogle ProviderType = "google"
)

// ProviderConfig holds configuration for creating a routing provider.
type ProviderConfig struct {
	Type      ProviderType  // Type of provider to create
	APIKey    string        // API key for the provider
	BaseURL   string        // Base URL override (used by OpenRouteService provider)
	RateLimit int           // Requests per minute (OpenRouteService) or per second (Google)
	Timeout   time.Duration // HTTP timeout for a single request
	Logger    *slog.Logger  // Logger for the provider
}

// NewRouteProvider creates a routing provider based on the provided configuration.
//
// Supported provider types:
// - "openrouteservice": OpenRouteService directions (a missing key is reported per call)
// - "google": Google Maps Directions API (requires API key)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewRouteProvider(config ProviderConfig) (RouteProvider, error) {
	switch config.Type {
	case ProviderTypeOpenRouteService, "":
		return newOpenRouteServiceProvider(config), nil
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	default:
		return nil, fmt.Errorf("unsupported routing provider type: %s", config.Type)
	}
}

// newOpenRouteServiceProvider creates an ORS provider. An empty key is not fatal:
// every Route call then fails with ErrRouteMissingAPIKey without touching the network.
func newOpenRouteServiceProvider(config ProviderConfig) *OpenRouteServiceProvider {
	if config.APIKey == "" {
		config.Logger.Warn("ORS_API_KEY is not set, route planning will report an error")
	}

	return NewOpenRouteServiceProvider(config.APIKey, config.BaseURL, config.RateLimit, config.Timeout, config.Logger)
}

// newGoogleProvider creates a Google Maps directions provider.
func newGoogleProvider(config ProviderConfig) (RouteProvider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
		maps.WithHTTPClient(newHTTPClient(config.Timeout)),
	}

	// Apply rate limiting if specified
	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/sentinel/internal/models"
)

// OpenMeteoBaseURL -- Open-Meteo API base URL.
const OpenMeteoBaseURL = "https://api.open-meteo.com"

// CurrentFields are the current-condition variables requested from Open-Meteo.
var CurrentFields = []string{"temperature_2m", "relative_humidity_2m", "rain", "wind_speed_10m"}

// Common errors for Open-Meteo provider.
var (
	ErrWeatherMissingCurrent = errors.New("open-meteo response has no current conditions")
	ErrWeatherMissingField   = errors.New("open-meteo response is missing a current field")
)

// OpenMeteoProvider implements WeatherProvider using the Open-Meteo forecast API.
type OpenMeteoProvider struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL for the Open-Meteo API
	log     *slog.Logger // Logger for logging operations
}

type openMeteoResponse struct {
	Current json.RawMessage `json:"current"`
}

type openMeteoCurrent struct {
	Time             string   `json:"time"`
	Temperature      *float64 `json:"temperature_2m"`
	RelativeHumidity *float64 `json:"relative_humidity_2m"`
	Rain             *float64 `json:"rain"`
	WindSpeed        *float64 `json:"wind_speed_10m"`
}

// NewOpenMeteoProvider creates an Open-Meteo provider with a bounded HTTP client.
func NewOpenMeteoProvider(baseURL string, timeout time.Duration, log *slog.Logger) *OpenMeteoProvider {
	return NewOpenMeteoProviderWithClient(newHTTPClient(timeout), baseURL, log)
}

// NewOpenMeteoProviderWithClient allows injecting custom HTTP client.
func NewOpenMeteoProviderWithClient(client HTTPClient, baseURL string, log *slog.Logger) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = OpenMeteoBaseURL
	}

	return &OpenMeteoProvider{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     log,
	}
}

// Current fetches current temperature, humidity, rain and wind speed for the point.
func (op *OpenMeteoProvider) Current(ctx context.Context, coords models.Coordinates) (*models.Weather, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}

	reqURL, err := url.Parse(op.baseURL + "/v1/forecast")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("current", strings.Join(CurrentFields, ","))
	query.Set("timezone", "auto")
	reqURL.RawQuery = query.Encode()

	op.log.DebugContext(ctx, "Open-Meteo request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := op.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		op.log.ErrorContext(ctx, "Open-Meteo API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("open-meteo API returned status %d: %s", resp.StatusCode, string(body))
	}

	op.log.DebugContext(ctx, "Open-Meteo raw response", "body", string(body))

	var result openMeteoResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode open-meteo response: %w", err)
	}

	if len(result.Current) == 0 || string(result.Current) == "null" {
		return nil, ErrWeatherMissingCurrent
	}

	var current openMeteoCurrent
	if err = json.Unmarshal(result.Current, &current); err != nil {
		return nil, fmt.Errorf("failed to decode open-meteo current conditions: %w", err)
	}

	fields := []struct {
		name  string
		value *float64
	}{
		{"temperature_2m", current.Temperature},
		{"relative_humidity_2m", current.RelativeHumidity},
		{"rain", current.Rain},
		{"wind_speed_10m", current.WindSpeed},
	}
	for _, field := range fields {
		if field.value == nil {
			return nil, fmt.Errorf("%w: %s", ErrWeatherMissingField, field.name)
		}
	}

	return &models.Weather{
		Time:             current.Time,
		Temperature:      *current.Temperature,
		RelativeHumidity: *current.RelativeHumidity,
		Rain:             *current.Rain,
		WindSpeed:        *current.WindSpeed,
		Raw:              result.Current,
	}, nil
}

package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/UnknownOlympus/sentinel/internal/models"
	"github.com/UnknownOlympus/sentinel/internal/risk"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// InterpreterRules selects the rules interpreter instead of a language model.
const InterpreterRules = "rules"

// ErrMissingInterpreterKey is returned when a language model provider is selected without a credential.
var ErrMissingInterpreterKey = errors.New("GROQ_API_KEY or SENTINEL_INTERPRETER_KEY must be set")

// Config holds the configuration settings for one alert run.
//
// Fields:
// - Env: The current environment (local, development, production).
// - HTTPTimeout: Timeout applied to every outbound request.
// - WeatherURL: Open-Meteo base URL override.
// - Routing: Routing provider selection and credential.
// - Interpreter: Language model provider selection and credential.
// - User, Safe: The user's location and the evacuation target.
// - Risk: Thresholds and combination mode of the risk policy.
// - MetricsFile: Optional path for a Prometheus textfile written after the run.
type Config struct {
	Env         string
	HTTPTimeout time.Duration
	WeatherURL  string
	Routing     RoutingConfig
	Interpreter InterpreterConfig
	User        models.Coordinates
	Safe        models.Coordinates
	Risk        RiskConfig
	MetricsFile string
}

// RoutingConfig selects the directions backend.
type RoutingConfig struct {
	Provider string // openrouteservice or google
	APIKey   string // ORS_API_KEY for openrouteservice, SENTINEL_ROUTING_KEY for google
	BaseURL  string // OpenRouteService base URL override
}

// InterpreterConfig selects the language model backend.
type InterpreterConfig struct {
	Provider string // openai, anthropic, google or rules
	APIKey   string
	BaseURL  string // provider default when empty
	Model    string // provider default when empty
}

// RiskConfig holds the risk policy settings as configured.
type RiskConfig struct {
	Mode             string
	RainThresholdMM  float64
	WindThresholdKMH float64
}

// MustLoad reads the configuration from the environment (and a .env file, if present).
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SENTINEL_ENV", "production")
	v.SetDefault("SENTINEL_HTTP_TIMEOUT", "10s")
	v.SetDefault("SENTINEL_ROUTING_PROVIDER", "openrouteservice")
	v.SetDefault("SENTINEL_INTERPRETER_PROVIDER", "openai")
	v.SetDefault("SENTINEL_USER_LAT", "11.0168")
	v.SetDefault("SENTINEL_USER_LON", "76.9558")
	v.SetDefault("SENTINEL_SAFE_LAT", "11.05")
	v.SetDefault("SENTINEL_SAFE_LON", "77.0")
	v.SetDefault("SENTINEL_RISK_MODE", string(risk.ModeAll))
	v.SetDefault("SENTINEL_RAIN_THRESHOLD_MM", "10")
	v.SetDefault("SENTINEL_WIND_THRESHOLD_KMH", "40")

	timeout, err := time.ParseDuration(v.GetString("SENTINEL_HTTP_TIMEOUT"))
	if err != nil {
		panic("failed to parse HTTP timeout from configuration")
	}

	user := models.Coordinates{
		Latitude:  mustFloat(v, "SENTINEL_USER_LAT", "failed to parse user location from configuration"),
		Longitude: mustFloat(v, "SENTINEL_USER_LON", "failed to parse user location from configuration"),
	}
	safe := models.Coordinates{
		Latitude:  mustFloat(v, "SENTINEL_SAFE_LAT", "failed to parse safe point from configuration"),
		Longitude: mustFloat(v, "SENTINEL_SAFE_LON", "failed to parse safe point from configuration"),
	}

	routing := RoutingConfig{
		Provider: v.GetString("SENTINEL_ROUTING_PROVIDER"),
		APIKey:   v.GetString("ORS_API_KEY"),
		BaseURL:  v.GetString("SENTINEL_ROUTING_URL"),
	}
	if routing.Provider == "google" {
		routing.APIKey = v.GetString("SENTINEL_ROUTING_KEY")
	}

	interpreterKey := v.GetString("SENTINEL_INTERPRETER_KEY")
	if interpreterKey == "" {
		interpreterKey = v.GetString("GROQ_API_KEY")
	}

	return &Config{
		Env:         v.GetString("SENTINEL_ENV"),
		HTTPTimeout: timeout,
		WeatherURL:  v.GetString("SENTINEL_WEATHER_URL"),
		Routing:     routing,
		Interpreter: InterpreterConfig{
			Provider: v.GetString("SENTINEL_INTERPRETER_PROVIDER"),
			APIKey:   interpreterKey,
			BaseURL:  v.GetString("SENTINEL_INTERPRETER_BASE_URL"),
			Model:    v.GetString("SENTINEL_INTERPRETER_MODEL"),
		},
		User: user,
		Safe: safe,
		Risk: RiskConfig{
			Mode:             v.GetString("SENTINEL_RISK_MODE"),
			RainThresholdMM:  mustFloat(v, "SENTINEL_RAIN_THRESHOLD_MM", "failed to parse rain threshold from configuration"),
			WindThresholdKMH: mustFloat(v, "SENTINEL_WIND_THRESHOLD_KMH", "failed to parse wind threshold from configuration"),
		},
		MetricsFile: v.GetString("SENTINEL_METRICS_FILE"),
	}
}

// Validate reports configuration that parses but cannot be used.
func (c *Config) Validate() error {
	if c.Interpreter.Provider != InterpreterRules && c.Interpreter.APIKey == "" {
		return ErrMissingInterpreterKey
	}
	if err := c.User.Validate(); err != nil {
		return fmt.Errorf("invalid user location: %w", err)
	}
	if err := c.Safe.Validate(); err != nil {
		return fmt.Errorf("invalid safe point: %w", err)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}

	return nil
}

// Policy builds the risk policy from the configured thresholds and mode.
func (c *Config) Policy() (risk.Policy, error) {
	mode, err := risk.ParseMode(c.Risk.Mode)
	if err != nil {
		return risk.Policy{}, fmt.Errorf("failed to parse risk mode: %w", err)
	}
	if c.Risk.RainThresholdMM <= 0 || c.Risk.WindThresholdKMH <= 0 {
		return risk.Policy{}, errors.New("risk thresholds must be positive")
	}

	return risk.Policy{
		RainThresholdMM:  c.Risk.RainThresholdMM,
		WindThresholdKMH: c.Risk.WindThresholdKMH,
		Mode:             mode,
	}, nil
}

func mustFloat(v *viper.Viper, key, message string) float64 {
	value, err := strconv.ParseFloat(v.GetString(key), 64)
	if err != nil {
		panic(message)
	}

	return value
}

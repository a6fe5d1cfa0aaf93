// Package orchestrator wires the weather, risk, route and notification stages
// into one pipeline and runs it.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/sentinel/internal/models"
	"github.com/UnknownOlympus/sentinel/internal/pipeline"
	"github.com/UnknownOlympus/sentinel/internal/risk"
)

// Stage IDs of the alert pipeline.
const (
	StageCollectWeather      = "collect_weather"
	StageAssessRisk          = "assess_risk"
	StagePlanRoute           = "plan_route"
	StageComposeNotification = "compose_notification"
)

// NotificationTemplate is the shape of the final alert: risk, weather, route.
const NotificationTemplate = "Risk: %s. Weather: %s. Evacuation Route: %s."

// GeoClient is the subset of geo.Client used by the tool stages.
type GeoClient interface {
	LookupWeather(ctx context.Context, coords models.Coordinates) (string, *models.Weather, error)
	LookupRoute(ctx context.Context, start, end models.Coordinates) (string, *models.Route, error)
}

// Config describes one alert: where the user is, where safety is, and how risk is judged.
type Config struct {
	User   models.Coordinates
	Safe   models.Coordinates
	Policy risk.Policy
}

// Sentinel runs the alert pipeline.
type Sentinel struct {
	pipeline *pipeline.Pipeline
	log      *slog.Logger
}

// New builds the four stages and validates the resulting pipeline.
func New(
	geo GeoClient,
	interpreter pipeline.Interpreter,
	cfg Config,
	log *slog.Logger,
	opts ...pipeline.Option,
) (*Sentinel, error) {
	if err := cfg.User.Validate(); err != nil {
		return nil, fmt.Errorf("invalid user location: %w", err)
	}
	if err := cfg.Safe.Validate(); err != nil {
		return nil, fmt.Errorf("invalid safe point: %w", err)
	}

	opts = append([]pipeline.Option{pipeline.WithInterpreter(interpreter), pipeline.WithLogger(log)}, opts...)
	p, err := pipeline.New(Stages(geo, cfg), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	return &Sentinel{pipeline: p, log: log}, nil
}

// Stages returns the alert stages in declaration order.
func Stages(geo GeoClient, cfg Config) []pipeline.Stage {
	return []pipeline.Stage{
		{
			ID: StageCollectWeather,
			Description: fmt.Sprintf("Fetch current weather for latitude %v and longitude %v.",
				cfg.User.Latitude, cfg.User.Longitude),
			ExpectedOutput: "A JSON string of the current weather data.",
			Tool:           weatherTool(geo, cfg.User),
		},
		{
			ID: StageAssessRisk,
			Description: "Analyze the provided weather data. Determine a risk level " +
				`(e.g., "High Flood Risk", "Low Risk"). ` + cfg.Policy.Guidance(),
			ExpectedOutput: "A simple string stating the risk level and the reason " +
				`(e.g., "High Flood Risk due to 15mm rain").`,
			Dependencies: []string{StageCollectWeather},
		},
		{
			ID: StagePlanRoute,
			Description: fmt.Sprintf(
				"Calculate the safest evacuation route from the user at %s to the safe point at %s.",
				cfg.User.String(), cfg.Safe.String()),
			ExpectedOutput: "A string summarizing the route distance and duration.",
			Tool:           routeTool(geo, cfg.User, cfg.Safe),
			Dependencies:   []string{StageAssessRisk},
		},
		{
			ID: StageComposeNotification,
			Description: "Create a final, human-readable notification for the user. " +
				"Use the information from all previous steps: the current weather data, " +
				"the official risk analysis and the evacuation route summary. " +
				"Combine them into a single, simple message of the form " +
				`"Risk: [Risk Level]. Weather: [Weather Summary]. Evacuation Route: [Route Summary]."`,
			ExpectedOutput: "A single, concise string containing the final alert message for the user.",
			Dependencies:   []string{StageCollectWeather, StageAssessRisk, StagePlanRoute},
		},
	}
}

// Execute runs the pipeline once and returns every stage result.
func (s *Sentinel) Execute(ctx context.Context) (*pipeline.Run, error) {
	return s.pipeline.Run(ctx)
}

// Run runs the pipeline once and returns the notification text.
func (s *Sentinel) Run(ctx context.Context) (string, error) {
	run, err := s.Execute(ctx)
	if err != nil {
		return "", err
	}

	final := run.Final()
	s.log.DebugContext(ctx, "Notification composed", "run_id", run.ID, "failed", final.Failed())

	return final.Text, nil
}

func weatherTool(geo GeoClient, at models.Coordinates) pipeline.ToolFunc {
	return func(ctx context.Context) (pipeline.Output, error) {
		text, weather, err := geo.LookupWeather(ctx, at)
		if err != nil {
			return pipeline.Output{Text: text}, err
		}

		return pipeline.Output{Text: text, Value: weather}, nil
	}
}

func routeTool(geo GeoClient, start, end models.Coordinates) pipeline.ToolFunc {
	return func(ctx context.Context) (pipeline.Output, error) {
		text, route, err := geo.LookupRoute(ctx, start, end)
		if err != nil {
			return pipeline.Output{Text: text}, err
		}

		return pipeline.Output{Text: text, Value: route}, nil
	}
}

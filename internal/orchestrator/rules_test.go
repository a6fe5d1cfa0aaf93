package orchestrator_test

import (
	"errors"
	"testing"

	"github.com/UnknownOlympus/sentinel/internal/models"
	"github.com/UnknownOlympus/sentinel/internal/orchestrator"
	"github.com/UnknownOlympus/sentinel/internal/pipeline"
	"github.com/UnknownOlympus/sentinel/internal/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesInterpreter_Interpret(t *testing.T) {
	ctx := t.Context()
	rules := orchestrator.NewRulesInterpreter(risk.DefaultPolicy())

	weather := pipeline.Result{
		StageID: orchestrator.StageCollectWeather,
		Text:    "Current weather at (11.0168, 76.9558): {...}",
		Value:   &models.Weather{Temperature: 28, RelativeHumidity: 80, Rain: 15, WindSpeed: 20},
	}
	route := pipeline.Result{
		StageID: orchestrator.StagePlanRoute,
		Text:    "Route calculated: ...",
		Value:   &models.Route{DistanceMeters: 12345, DurationSeconds: 987},
	}

	t.Run("assess risk from weather value", func(t *testing.T) {
		text, err := rules.Interpret(ctx, pipeline.Prompt{
			StageID: orchestrator.StageAssessRisk,
			Context: []pipeline.Result{weather},
		})
		require.NoError(t, err)
		assert.Equal(t, "High Flood Risk due to 15.0mm rain", text)
	})

	t.Run("assess risk after failed weather", func(t *testing.T) {
		failed := pipeline.Result{
			StageID: orchestrator.StageCollectWeather,
			Text:    "Error fetching weather data: connection refused",
			Err:     errors.New("connection refused"),
		}

		text, err := rules.Interpret(ctx, pipeline.Prompt{
			StageID: orchestrator.StageAssessRisk,
			Context: []pipeline.Result{failed},
		})
		require.NoError(t, err)
		assert.Equal(t,
			"Cannot determine risk: weather data is unavailable "+
				"(Error fetching weather data: connection refused).",
			text)
	})

	t.Run("assess risk without context", func(t *testing.T) {
		text, err := rules.Interpret(ctx, pipeline.Prompt{StageID: orchestrator.StageAssessRisk})
		require.NoError(t, err)
		assert.Equal(t, "Cannot determine risk: no weather data was provided.", text)
	})

	t.Run("compose notification", func(t *testing.T) {
		text, err := rules.Interpret(ctx, pipeline.Prompt{
			StageID: orchestrator.StageComposeNotification,
			Context: []pipeline.Result{
				weather,
				{StageID: orchestrator.StageAssessRisk, Text: "High Flood Risk due to 15.0mm rain"},
				route,
			},
		})
		require.NoError(t, err)
		assert.Equal(t,
			"Risk: High Flood Risk due to 15.0mm rain. "+
				"Weather: 28.0°C, 80% humidity, 15.0mm rain, wind 20.0 km/h. "+
				"Evacuation Route: Distance 12.35 km, Duration 16.45 minutes.",
			text)
	})

	t.Run("compose notification from text only", func(t *testing.T) {
		text, err := rules.Interpret(ctx, pipeline.Prompt{
			StageID: orchestrator.StageComposeNotification,
			Context: []pipeline.Result{
				{StageID: orchestrator.StageCollectWeather, Text: "Error fetching weather data: timeout"},
				{StageID: orchestrator.StageAssessRisk, Text: "Cannot determine risk."},
				{StageID: orchestrator.StagePlanRoute, Text: "Error: ORS_API_KEY environment variable not set."},
			},
		})
		require.NoError(t, err)
		assert.Equal(t,
			"Risk: Cannot determine risk. Weather: Error fetching weather data: timeout. "+
				"Evacuation Route: Error: ORS_API_KEY environment variable not set.",
			text)
	})

	t.Run("unknown stage", func(t *testing.T) {
		_, err := rules.Interpret(ctx, pipeline.Prompt{StageID: "translate"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"translate"`)
	})
}

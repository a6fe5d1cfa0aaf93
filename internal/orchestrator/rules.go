package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/sentinel/internal/models"
	"github.com/UnknownOlympus/sentinel/internal/pipeline"
	"github.com/UnknownOlympus/sentinel/internal/risk"
)

// RulesInterpreter answers the two interpreted stages deterministically,
// without a language model.
type RulesInterpreter struct {
	policy risk.Policy
}

// NewRulesInterpreter returns an interpreter applying the given risk policy.
func NewRulesInterpreter(policy risk.Policy) *RulesInterpreter {
	return &RulesInterpreter{policy: policy}
}

// Interpret implements pipeline.Interpreter.
func (r *RulesInterpreter) Interpret(_ context.Context, prompt pipeline.Prompt) (string, error) {
	switch prompt.StageID {
	case StageAssessRisk:
		return r.assess(prompt), nil
	case StageComposeNotification:
		return r.compose(prompt), nil
	default:
		return "", fmt.Errorf("rules interpreter cannot answer stage %q", prompt.StageID)
	}
}

func (r *RulesInterpreter) assess(prompt pipeline.Prompt) string {
	upstream, ok := find(prompt.Context, StageCollectWeather)
	if !ok {
		return "Cannot determine risk: no weather data was provided."
	}

	weather, ok := upstream.Value.(*models.Weather)
	if upstream.Failed() || !ok || weather == nil {
		return "Cannot determine risk: weather data is unavailable (" + trimPeriod(upstream.Text) + ")."
	}

	return r.policy.Classify(*weather).String()
}

func (r *RulesInterpreter) compose(prompt pipeline.Prompt) string {
	riskText := "unknown"
	if assessed, ok := find(prompt.Context, StageAssessRisk); ok {
		riskText = assessed.Text
	}

	weatherText := "unavailable"
	if upstream, ok := find(prompt.Context, StageCollectWeather); ok {
		weatherText = upstream.Text
		if weather, isWeather := upstream.Value.(*models.Weather); isWeather && weather != nil {
			weatherText = weather.Summary()
		}
	}

	routeText := "unavailable"
	if upstream, ok := find(prompt.Context, StagePlanRoute); ok {
		routeText = upstream.Text
		if route, isRoute := upstream.Value.(*models.Route); isRoute && route != nil {
			routeText = route.Summary()
		}
	}

	return fmt.Sprintf(NotificationTemplate, trimPeriod(riskText), trimPeriod(weatherText), trimPeriod(routeText))
}

func find(results []pipeline.Result, stageID string) (pipeline.Result, bool) {
	for _, result := range results {
		if result.StageID == stageID {
			return result, true
		}
	}

	return pipeline.Result{}, false
}

func trimPeriod(text string) string {
	return strings.TrimSuffix(strings.TrimSpace(text), ".")
}

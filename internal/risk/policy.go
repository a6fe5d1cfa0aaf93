// Package risk classifies disaster risk from current weather conditions.
package risk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/sentinel/internal/models"
)

// Level is a risk label reported to users.
type Level string

const (
	LevelLow         Level = "Low Risk"
	LevelHighFlood   Level = "High Flood Risk"
	LevelHighCyclone Level = "High Cyclone Risk"
)

// Mode decides how simultaneously triggered risks are reported.
type Mode string

const (
	// ModeAll reports every triggered risk, flood first.
	ModeAll Mode = "all"
	// ModeHighest reports only the trigger that exceeds its threshold by the largest ratio.
	ModeHighest Mode = "highest"
)

// Default thresholds. Triggers are strict: a value equal to the threshold does not trigger.
const (
	DefaultRainThresholdMM  = 10.0
	DefaultWindThresholdKMH = 40.0
)

// ErrUnknownMode is returned by ParseMode for unsupported values.
var ErrUnknownMode = errors.New("unknown risk combination mode")

// ParseMode converts a configuration value into a Mode. Empty selects ModeAll.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeAll, "":
		return ModeAll, nil
	case ModeHighest:
		return ModeHighest, nil
	default:
		return "", fmt.Errorf("%w: %q (available: all, highest)", ErrUnknownMode, value)
	}
}

// Policy holds the classification thresholds and the combination mode.
type Policy struct {
	RainThresholdMM  float64
	WindThresholdKMH float64
	Mode             Mode
}

// DefaultPolicy returns the thresholds used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		RainThresholdMM:  DefaultRainThresholdMM,
		WindThresholdKMH: DefaultWindThresholdKMH,
		Mode:             ModeAll,
	}
}

// Trigger is one threshold that was exceeded.
type Trigger struct {
	Level  Level
	Reason string
	ratio  float64
}

// Assessment is the outcome of classifying one observation.
type Assessment struct {
	Triggers []Trigger
	Weather  models.Weather
}

// Levels returns the reported labels, or LevelLow when nothing triggered.
func (a Assessment) Levels() []Level {
	if len(a.Triggers) == 0 {
		return []Level{LevelLow}
	}

	levels := make([]Level, 0, len(a.Triggers))
	for _, trigger := range a.Triggers {
		levels = append(levels, trigger.Level)
	}

	return levels
}

// String renders the assessment, e.g. "High Flood Risk due to 15.0mm rain".
func (a Assessment) String() string {
	if len(a.Triggers) == 0 {
		return fmt.Sprintf("%s: %.1fmm rain and wind %.1f km/h are below thresholds",
			LevelLow, a.Weather.Rain, a.Weather.WindSpeed)
	}

	labels := make([]string, 0, len(a.Triggers))
	reasons := make([]string, 0, len(a.Triggers))
	for _, trigger := range a.Triggers {
		labels = append(labels, string(trigger.Level))
		reasons = append(reasons, trigger.Reason)
	}

	return strings.Join(labels, " and ") + " due to " + strings.Join(reasons, " and ")
}

// Classify applies the policy to the observation.
func (p Policy) Classify(weather models.Weather) Assessment {
	var triggers []Trigger

	if weather.Rain > p.RainThresholdMM {
		triggers = append(triggers, Trigger{
			Level:  LevelHighFlood,
			Reason: fmt.Sprintf("%.1fmm rain", weather.Rain),
			ratio:  ratio(weather.Rain, p.RainThresholdMM),
		})
	}
	if weather.WindSpeed > p.WindThresholdKMH {
		triggers = append(triggers, Trigger{
			Level:  LevelHighCyclone,
			Reason: fmt.Sprintf("%.1f km/h wind", weather.WindSpeed),
			ratio:  ratio(weather.WindSpeed, p.WindThresholdKMH),
		})
	}

	if p.Mode == ModeHighest && len(triggers) > 1 {
		top := triggers[0]
		for _, trigger := range triggers[1:] {
			// strict comparison keeps flood on ties
			if trigger.ratio > top.ratio {
				top = trigger
			}
		}
		triggers = []Trigger{top}
	}

	return Assessment{Triggers: triggers, Weather: weather}
}

// Guidance renders the policy as instructions for a language model.
func (p Policy) Guidance() string {
	var combine string
	switch p.Mode {
	case ModeHighest:
		combine = "If both conditions hold, report only the one that exceeds its threshold by the larger " +
			"proportion (flood on a tie)."
	default:
		combine = fmt.Sprintf("If both conditions hold, report both as '%s and %s'.", LevelHighFlood, LevelHighCyclone)
	}

	return fmt.Sprintf(
		"Rain above %gmm means '%s'. Wind speed above %g km/h means '%s'. "+
			"If neither holds, the risk is '%s'. %s",
		p.RainThresholdMM, LevelHighFlood, p.WindThresholdKMH, LevelHighCyclone, LevelLow, combine,
	)
}

func ratio(value, threshold float64) float64 {
	if threshold <= 0 {
		return value
	}

	return value / threshold
}

package models

import (
	"encoding/json"
	"fmt"
)

// Weather holds the current conditions returned by the weather provider.
type Weather struct {
	Time             string          // Observation time in the location's timezone.
	Temperature      float64         // Air temperature at 2m, °C.
	RelativeHumidity float64         // Relative humidity at 2m, %.
	Rain             float64         // Rain over the preceding interval, mm.
	WindSpeed        float64         // Wind speed at 10m, km/h.
	Raw              json.RawMessage // Raw "current" object as received.
}

// Summary renders the conditions in a compact human-readable form.
func (w Weather) Summary() string {
	return fmt.Sprintf(
		"%.1f°C, %.0f%% humidity, %.1fmm rain, wind %.1f km/h",
		w.Temperature, w.RelativeHumidity, w.Rain, w.WindSpeed,
	)
}

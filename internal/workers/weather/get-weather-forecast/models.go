// internal/workers/weather/get-weather-forecast/models.go
package getweatherforecast

import (
	"kisan-sathi/internal/common/validation"
	"kisan-sathi/internal/models"
	"kisan-sathi/internal/weather"
)

type Input struct {
	Location string       `json:"location"`
	Language string       `json:"language,omitempty"`
	User     *models.User `json:"user,omitempty"`
}

// Output carries either a forecast or, when the weather service could not
// be used, a farmer-facing Error.
type Output struct {
	Location string                  `json:"location"`
	Summary  string                  `json:"summary,omitempty"`
	Forecast []weather.DailyForecast `json:"forecast,omitempty"`
	Alert    string                  `json:"alert,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

type analysis struct {
	Summary string `json:"summary"`
	Alert   string `json:"alert,omitempty"`
}

func analysisSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"summary"},
		Properties: map[string]validation.Property{
			"summary": {Type: "string", MinLength: validation.IntPtr(1), Description: "One-sentence summary of the next days"},
			"alert":   {Type: "string", Description: "Most important weather alert, empty when none"},
		},
	}
}

// internal/workers/dashboard/load-dashboard/models.go
package loaddashboard

import (
	"kisan-sathi/internal/models"
	getmarketprices "kisan-sathi/internal/workers/market/get-market-prices"
	getweatherforecast "kisan-sathi/internal/workers/weather/get-weather-forecast"
)

type Input struct {
	Language string       `json:"language,omitempty"`
	User     *models.User `json:"user,omitempty"`
}

type Output struct {
	Weather *getweatherforecast.Output `json:"weather"`
	Market  *getmarketprices.Output    `json:"market"`
}

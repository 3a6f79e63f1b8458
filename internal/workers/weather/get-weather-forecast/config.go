// internal/workers/weather/get-weather-forecast/config.go
package getweatherforecast

import (
	"time"

	"kisan-sathi/internal/common/config"
)

const DefaultLocation = "Rampur"

type Config struct {
	Enabled         bool
	MaxJobsActive   int
	Timeout         time.Duration
	MaxRetries      int
	CacheTTL        time.Duration
	DefaultLocation string
}

func NewConfig(app *config.Config) *Config {
	wc := config.GetWorkerConfig(app, TaskType)
	return &Config{
		Enabled:         wc.Enabled,
		MaxJobsActive:   wc.MaxJobsActive,
		Timeout:         config.GetDuration(wc.Timeout),
		MaxRetries:      wc.MaxRetries,
		CacheTTL:        time.Duration(app.Cache.WeatherTTL) * time.Second,
		DefaultLocation: DefaultLocation,
	}
}

// internal/workers/market/get-market-prices/config.go
package getmarketprices

import (
	"time"

	"kisan-sathi/internal/common/config"
)

// DefaultLocation is used when neither the job nor the user names a village.
const DefaultLocation = "Rampur"

type Config struct {
	Enabled         bool
	MaxJobsActive   int
	Timeout         time.Duration
	MaxRetries      int
	DefaultLocation string
}

func NewConfig(app *config.Config) *Config {
	wc := config.GetWorkerConfig(app, TaskType)
	return &Config{
		Enabled:         wc.Enabled,
		MaxJobsActive:   wc.MaxJobsActive,
		Timeout:         config.GetDuration(wc.Timeout),
		MaxRetries:      wc.MaxRetries,
		DefaultLocation: DefaultLocation,
	}
}

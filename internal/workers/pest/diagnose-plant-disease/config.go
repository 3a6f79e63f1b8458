// internal/workers/pest/diagnose-plant-disease/config.go
package diagnoseplantdisease

import (
	"time"

	"kisan-sathi/internal/common/config"
)

// DefaultMaxImageBytes caps decoded photos; larger uploads are rejected.
const DefaultMaxImageBytes = 7 << 20

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	MaxRetries    int
	MaxImageBytes int
}

func NewConfig(app *config.Config) *Config {
	wc := config.GetWorkerConfig(app, TaskType)
	return &Config{
		Enabled:       wc.Enabled,
		MaxJobsActive: wc.MaxJobsActive,
		Timeout:       config.GetDuration(wc.Timeout),
		MaxRetries:    wc.MaxRetries,
		MaxImageBytes: DefaultMaxImageBytes,
	}
}

// internal/workers/communication/send-weather-alert/config.go
package sendweatheralert

import (
	"time"

	"kisan-sathi/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	MaxRetries    int
	SMSEnabled    bool
	EmailEnabled  bool
}

func NewConfig(app *config.Config) *Config {
	wc := config.GetWorkerConfig(app, TaskType)
	return &Config{
		Enabled:       wc.Enabled,
		MaxJobsActive: wc.MaxJobsActive,
		Timeout:       config.GetDuration(wc.Timeout),
		MaxRetries:    wc.MaxRetries,
		SMSEnabled:    app.Integrations.AWS.SNS.Enabled,
		EmailEnabled:  app.Integrations.AWS.SES.Enabled,
	}
}

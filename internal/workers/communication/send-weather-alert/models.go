// internal/workers/communication/send-weather-alert/models.go
package sendweatheralert

import "kisan-sathi/internal/models"

type Input struct {
	FarmerID string `json:"farmerId"`
	Alert    string `json:"alert"`
	Summary  string `json:"summary,omitempty"`
	Location string `json:"location,omitempty"`
}

type Output struct {
	Status        string                `json:"status"` // "sent", "partial", "skipped"
	Notifications []models.Notification `json:"notifications"`
}

const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

const (
	StatusSent    = "sent"
	StatusPartial = "partial"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// internal/workers/engagement/record-feedback/models.go
package recordfeedback

import (
	"kisan-sathi/internal/common/validation"
	"kisan-sathi/internal/models"
)

// Features that show the "Was this helpful?" prompt.
var Features = []string{
	"answer-farmer-question",
	"crop-advisory",
	"soil-advisory",
	"diagnose-plant-disease",
	"get-plant-remedies",
	"get-weather-forecast",
	"get-market-prices",
}

type Input struct {
	Feature string       `json:"feature"`
	Helpful *bool        `json:"helpful"`
	Comment string       `json:"comment,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

type Output struct {
	FeedbackID string `json:"feedbackId"`
	CreatedAt  string `json:"createdAt"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"feature", "helpful"},
		Properties: map[string]validation.Property{
			"feature": {Type: "string", Enum: Features},
			"helpful": {Type: "boolean"},
			"comment": {Type: "string", MaxLength: validation.IntPtr(1000)},
		},
	}
}

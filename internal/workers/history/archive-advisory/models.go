// internal/workers/history/archive-advisory/models.go
package archiveadvisory

import (
	"kisan-sathi/internal/common/validation"
	"kisan-sathi/internal/models"
)

type Input struct {
	Feature  string       `json:"feature"`
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Crop     string       `json:"crop,omitempty"`
	Language string       `json:"language,omitempty"`
	User     *models.User `json:"user,omitempty"`
}

type Output struct {
	AdvisoryID string `json:"advisoryId"`
	Index      string `json:"index"`
}

func GetInputSchema() validation.JSONSchema {
	text := validation.Property{Type: "string", MinLength: validation.IntPtr(1)}
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"feature", "question", "answer"},
		Properties: map[string]validation.Property{
			"feature":  text,
			"question": text,
			"answer":   text,
		},
	}
}

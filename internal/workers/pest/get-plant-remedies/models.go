// internal/workers/pest/get-plant-remedies/models.go
package getplantremedies

import (
	"kisan-sathi/internal/common/validation"
	"kisan-sathi/internal/models"
)

type Input struct {
	Disease     string       `json:"disease"`
	Description string       `json:"description,omitempty"`
	Language    string       `json:"language,omitempty"`
	User        *models.User `json:"user,omitempty"`
}

// Output holds hyphen bullet lists, one remedy per line.
type Output struct {
	Chemical string `json:"chemical"`
	Organic  string `json:"organic"`
}

func responseSchema() validation.JSONSchema {
	list := validation.Property{Type: "string", MinLength: validation.IntPtr(1)}
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"chemical", "organic"},
		Properties: map[string]validation.Property{
			"chemical": list,
			"organic":  list,
		},
	}
}

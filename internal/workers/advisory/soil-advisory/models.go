// internal/workers/advisory/soil-advisory/models.go
package soiladvisory

import (
	"kisan-sathi/internal/common/validation"
	"kisan-sathi/internal/models"
)

type Input struct {
	SoilType string       `json:"soilType"`
	Crop     string       `json:"crop"`
	Question string       `json:"question"`
	Language string       `json:"language,omitempty"`
	User     *models.User `json:"user,omitempty"`
}

type Output struct {
	Advice string `json:"advice"`
}

func GetInputSchema() validation.JSONSchema {
	text := func(max int) validation.Property {
		return validation.Property{Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(max)}
	}
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"soilType", "crop", "question"},
		Properties: map[string]validation.Property{
			"soilType": text(50),
			"crop":     text(100),
			"question": text(2000),
		},
	}
}

func responseSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"advice"},
		Properties: map[string]validation.Property{
			"advice": {
				Type:        "string",
				Description: "Soil and fertilizer advice in markdown with headings and lists",
				MinLength:   validation.IntPtr(1),
			},
		},
	}
}

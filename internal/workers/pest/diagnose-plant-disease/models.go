// internal/workers/pest/diagnose-plant-disease/models.go
package diagnoseplantdisease

import (
	"kisan-sathi/internal/common/validation"
	"kisan-sathi/internal/models"
)

type Input struct {
	PhotoDataURI string       `json:"photoDataUri"`
	Description  string       `json:"description,omitempty"`
	Language     string       `json:"language,omitempty"`
	User         *models.User `json:"user,omitempty"`
}

type Output struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
}

func responseSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"disease", "confidence"},
		Properties: map[string]validation.Property{
			"disease":    {Type: "string", MinLength: validation.IntPtr(1), Description: "Most likely disease"},
			"confidence": {Type: "number", Minimum: validation.FloatPtr(0), Maximum: validation.FloatPtr(100)},
		},
	}
}

// internal/workers/advisory/crop-advisory/models.go
package cropadvisory

import (
	"kisan-sathi/internal/common/validation"
	"kisan-sathi/internal/models"
)

// Input carries soil test values: nutrients in kg/ha, rainfall in mm per
// year. Numbers are pointers so a missing value fails validation instead
// of reading as zero.
type Input struct {
	CropName    string       `json:"cropName"`
	Nitrogen    *float64     `json:"nitrogen"`
	Phosphorous *float64     `json:"phosphorous"`
	Potassium   *float64     `json:"potassium"`
	PH          *float64     `json:"ph"`
	Rainfall    *float64     `json:"rainfall"`
	Description string       `json:"description,omitempty"`
	Language    string       `json:"language,omitempty"`
	User        *models.User `json:"user,omitempty"`
}

type Output struct {
	Advice   string   `json:"advice"`
	Sections Sections `json:"sections"`
}

type Sections struct {
	FertilizerRecommendations string `json:"fertilizerRecommendations"`
	SoilAmendments            string `json:"soilAmendments"`
	WaterManagement           string `json:"waterManagement"`
	PotentialIssues           string `json:"potentialIssues"`
}

func GetInputSchema() validation.JSONSchema {
	nonNegative := validation.Property{Type: "number", Minimum: validation.FloatPtr(0)}
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"cropName", "nitrogen", "phosphorous", "potassium", "ph", "rainfall"},
		Properties: map[string]validation.Property{
			"cropName":    {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(100)},
			"nitrogen":    nonNegative,
			"phosphorous": nonNegative,
			"potassium":   nonNegative,
			"ph":          {Type: "number", Minimum: validation.FloatPtr(0), Maximum: validation.FloatPtr(14)},
			"rainfall":    nonNegative,
			"description": {Type: "string", MaxLength: validation.IntPtr(2000)},
		},
	}
}

func responseSchema() validation.JSONSchema {
	section := validation.Property{Type: "string", MinLength: validation.IntPtr(1)}
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"fertilizerRecommendations", "soilAmendments", "waterManagement", "potentialIssues"},
		Properties: map[string]validation.Property{
			"fertilizerRecommendations": section,
			"soilAmendments":            section,
			"waterManagement":           section,
			"potentialIssues":           section,
		},
	}
}

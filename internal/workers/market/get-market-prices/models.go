// internal/workers/market/get-market-prices/models.go
package getmarketprices

import (
	"kisan-sathi/internal/common/validation"
	"kisan-sathi/internal/market"
	"kisan-sathi/internal/models"
)

type Input struct {
	Location string       `json:"location"`
	Crop     string       `json:"crop,omitempty"`
	Language string       `json:"language,omitempty"`
	User     *models.User `json:"user,omitempty"`
}

type Output struct {
	Prices  []market.RankedPriceRecord `json:"prices"`
	Summary string                     `json:"summary"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func summarySchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"summary"},
		Properties: map[string]validation.Property{
			"summary": {Type: "string", Description: "One-sentence summary of the prices"},
		},
	}
}

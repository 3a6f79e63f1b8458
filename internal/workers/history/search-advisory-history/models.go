// internal/workers/history/search-advisory-history/models.go
package searchadvisoryhistory

import "kisan-sathi/internal/models"

type Input struct {
	Query      string       `json:"query,omitempty"`
	Village    string       `json:"village,omitempty"`
	Crop       string       `json:"crop,omitempty"`
	Feature    string       `json:"feature,omitempty"`
	Pagination Pagination   `json:"pagination"`
	User       *models.User `json:"user,omitempty"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Advisories []models.AdvisoryRecord `json:"advisories"`
	TotalHits  int64                   `json:"totalHits"`
	MaxScore   float64                 `json:"maxScore"`
}

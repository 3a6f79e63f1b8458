// internal/workers/advisory/answer-farmer-question/models.go
package answerfarmerquestion

import "kisan-sathi/internal/models"

type Input struct {
	Question string       `json:"question"`
	Language string       `json:"language,omitempty"`
	User     *models.User `json:"user,omitempty"`
}

type Output struct {
	Answer   string `json:"answer"`
	Language string `json:"language"`
}

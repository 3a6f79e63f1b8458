package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/validation"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// ExtractJSON pulls the JSON object out of a model response. Models
// often wrap it in a markdown fence or add prose around it; malformed
// output is repaired where possible.
func ExtractJSON(text string) (string, error) {
	s := strings.TrimSpace(text)
	if start := strings.Index(s, "```"); start >= 0 {
		body := s[start+3:]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		}
		if end := strings.LastIndex(body, "```"); end >= 0 {
			body = body[:end]
		}
		s = strings.TrimSpace(body)
	}
	if first, last := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}'); first >= 0 && last > first {
		s = s[first : last+1]
	}

	if json.Valid([]byte(s)) {
		return s, nil
	}
	repaired, err := jsonrepair.RepairJSON(s)
	if err != nil {
		return "", fmt.Errorf("repair json: %w", err)
	}
	if !json.Valid([]byte(repaired)) {
		return "", fmt.Errorf("response is not JSON")
	}
	return repaired, nil
}

// GenerateJSON asks gen for a JSON object, checks it against schema and
// decodes it into dst. Failures come back as classified StandardErrors.
func GenerateJSON(ctx context.Context, gen Generator, req Request, schema validation.JSONSchema, dst interface{}) error {
	req.JSON = true
	text, err := gen.Generate(ctx, req)
	if err != nil {
		return Classify(err)
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return apperrors.NewAIResponseInvalidError(err.Error())
	}

	result, err := validation.ValidateJSON([]byte(raw), schema)
	if err != nil {
		return apperrors.NewAIResponseInvalidError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewAIResponseInvalidError(result.Error())
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return apperrors.NewAIResponseInvalidError(err.Error())
	}
	return nil
}

// GenerateText returns the trimmed free-text response.
func GenerateText(ctx context.Context, gen Generator, req Request) (string, error) {
	text, err := gen.Generate(ctx, req)
	if err != nil {
		return "", Classify(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.NewAIResponseInvalidError("empty response")
	}
	return text, nil
}

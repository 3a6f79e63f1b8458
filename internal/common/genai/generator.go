// Package genai talks to the hosted generative AI model behind one
// Generator interface. Gemini, OpenAI-compatible endpoints and a plain
// HTTP gateway are supported.
package genai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"kisan-sathi/internal/common/config"
)

var ErrInvalidDataURI = errors.New("invalid data URI")

// Image is an inline image sent alongside the prompt.
type Image struct {
	MIMEType string
	Data     []byte
}

// Request is one prompt. JSON asks the provider for a JSON object
// response where it supports that.
type Request struct {
	Prompt string
	Images []Image
	JSON   bool
}

// Generator produces the model's text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg config.GenAIConfig) (Generator, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGemini(ctx, cfg)
	case "openai":
		return NewOpenAI(cfg), nil
	case "gateway":
		return NewGateway(cfg), nil
	default:
		return nil, fmt.Errorf("unknown genai provider %q", cfg.Provider)
	}
}

func timeoutOf(cfg config.GenAIConfig) time.Duration {
	if cfg.Timeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(cfg.Timeout) * time.Millisecond
}

// ParseDataURI decodes "data:<mime>;base64,<data>".
func ParseDataURI(uri string) (Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing payload", ErrInvalidDataURI)
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok || mime == "" {
		return Image{}, fmt.Errorf("%w: expected <mime>;base64", ErrInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty image", ErrInvalidDataURI)
	}
	return Image{MIMEType: mime, Data: data}, nil
}

// DataURI is the inverse of ParseDataURI.
func (i Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// WithLanguage appends the response-language instruction used by every
// advisory prompt. An empty language leaves the prompt unchanged.
func WithLanguage(prompt, language string) string {
	if strings.TrimSpace(language) == "" {
		return prompt
	}
	return prompt + "\n\nIMPORTANT: Your entire response must be in the following language: " + language + "."
}

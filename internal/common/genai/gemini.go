package genai

import (
	"context"
	"errors"
	"fmt"

	"kisan-sathi/internal/common/config"

	gemini "google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type Gemini struct {
	client *gemini.Client
	model  string
	cfg    config.GenAIConfig
}

// NewGemini connects to the Gemini API. cfg.BaseURL overrides the
// endpoint, which tests point at an httptest server.
func NewGemini(ctx context.Context, cfg config.GenAIConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	cc := &gemini.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: gemini.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = gemini.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := gemini.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{client: client, model: model, cfg: cfg}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	parts := make([]*gemini.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, gemini.NewPartFromBytes(img.Data, img.MIMEType))
	}
	parts = append(parts, gemini.NewPartFromText(req.Prompt))
	contents := []*gemini.Content{gemini.NewContentFromParts(parts, gemini.RoleUser)}

	genCfg := &gemini.GenerateContentConfig{
		Temperature: gemini.Ptr[float32](g.cfg.Temperature),
	}
	if g.cfg.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(g.cfg.MaxTokens)
	}
	if req.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, genCfg)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

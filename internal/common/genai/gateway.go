package genai

import (
	"context"
	"errors"
	"strings"

	"kisan-sathi/internal/common/config"
	httpclient "kisan-sathi/internal/common/http"
)

// Gateway posts prompts to an internal AI gateway at
// {base_url}/api/ai/generate.
type Gateway struct {
	client  *httpclient.Client
	baseURL string
	cfg     config.GenAIConfig
}

type gatewayRequest struct {
	Prompt      string   `json:"prompt"`
	Model       string   `json:"model,omitempty"`
	Images      []string `json:"images,omitempty"`
	Format      string   `json:"format,omitempty"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature float32  `json:"temperature"`
}

type gatewayResponse struct {
	Text string `json:"text"`
}

func NewGateway(cfg config.GenAIConfig) *Gateway {
	return &Gateway{
		client:  httpclient.NewClient(timeoutOf(cfg)),
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		cfg:     cfg,
	}
}

func (g *Gateway) Name() string { return "gateway" }

func (g *Gateway) Generate(ctx context.Context, req Request) (string, error) {
	body := gatewayRequest{
		Prompt:      req.Prompt,
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}
	for _, img := range req.Images {
		body.Images = append(body.Images, img.DataURI())
	}
	if req.JSON {
		body.Format = "json"
	}

	headers := map[string]string{}
	if g.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + g.cfg.APIKey
	}

	var resp gatewayResponse
	if err := g.client.PostJSON(ctx, g.baseURL+"/api/ai/generate", headers, body, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", errors.New("gateway: empty response")
	}
	return resp.Text, nil
}

package genai

import (
	"context"
	"errors"
	"strings"

	"kisan-sathi/internal/common/config"

	goopenai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = goopenai.GPT4oMini

// OpenAI talks to api.openai.com or any OpenAI-compatible server when
// BaseURL is set.
type OpenAI struct {
	client *goopenai.Client
	model  string
	cfg    config.GenAIConfig
}

func NewOpenAI(cfg config.GenAIConfig) *OpenAI {
	oc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = defaultOpenAIModel
	}
	return &OpenAI{client: goopenai.NewClientWithConfig(oc), model: model, cfg: cfg}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	msg := goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser}
	if len(req.Images) == 0 {
		msg.Content = req.Prompt
	} else {
		msg.MultiContent = append(msg.MultiContent, goopenai.ChatMessagePart{
			Type: goopenai.ChatMessagePartTypeText,
			Text: req.Prompt,
		})
		for _, img := range req.Images {
			msg.MultiContent = append(msg.MultiContent, goopenai.ChatMessagePart{
				Type:     goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{URL: img.DataURI()},
			})
		}
	}

	chatReq := goopenai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    []goopenai.ChatCompletionMessage{msg},
		Temperature: o.cfg.Temperature,
	}
	if o.cfg.MaxTokens > 0 {
		chatReq.MaxTokens = o.cfg.MaxTokens
	}
	if req.JSON {
		chatReq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices found")
	}
	return resp.Choices[0].Message.Content, nil
}

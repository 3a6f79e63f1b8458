// internal/workers/advisory/soil-advisory/handler.go
package soiladvisory

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"kisan-sathi/internal/common/camunda"
	"kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/genai"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/observability"
	"kisan-sathi/internal/common/validation"
	"kisan-sathi/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "soil-advisory"

type Handler struct {
	config    *Config
	generator genai.Generator
	runner    *camunda.JobRunner
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, gen genai.Generator, log logger.Logger, obs *observability.Observability) *Handler {
	runner := camunda.NewJobRunner(TaskType, config.Timeout, config.MaxRetries, log, obs)
	return &Handler{config: config, generator: gen, runner: runner, obs: obs, logger: runner.Logger}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Crop == "" && input.User != nil {
		input.Crop = input.User.Crop
	}
	result, err := validation.Validate(input, GetInputSchema())
	if err != nil {
		return nil, errors.NewInvalidInputError(err)
	}
	if !result.Valid {
		return nil, errors.NewInvalidInputError(stderrors.New(result.Error()))
	}

	var user models.User
	if input.User != nil {
		user = *input.User
	}
	rc := models.NewRequestContext(user, input.Language)

	var resp Output
	req := genai.Request{Prompt: buildPrompt(input, rc.Language.String())}
	if err := genai.GenerateJSON(ctx, h.generator, req, responseSchema(), &resp); err != nil {
		return nil, err
	}

	h.obs.RecordAdvisory(ctx, TaskType, rc.Language.String())
	return &Output{Advice: strings.TrimSpace(resp.Advice)}, nil
}

func buildPrompt(in *Input, language string) string {
	var b strings.Builder
	b.WriteString("You are an expert agricultural soil scientist. Please provide soil and fertilizer advisory information based on the following data. Give actionable, clear advice.\n\n")
	fmt.Fprintf(&b, "Soil Type: %s\n", in.SoilType)
	fmt.Fprintf(&b, "Crop: %s\n", in.Crop)
	fmt.Fprintf(&b, "Farmer's Question/Observation: %s\n\n", strings.TrimSpace(in.Question))
	b.WriteString(`Based on this, provide detailed advice. Structure your response with clear headings for each topic (e.g., "### Fertilizer Recommendations"). Use markdown for formatting.
Respond with a JSON object with a single string field "advice".`)
	return genai.WithLanguage(b.String(), language)
}

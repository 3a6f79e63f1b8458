// internal/workers/advisory/crop-advisory/handler.go
package cropadvisory

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

const TaskType = "crop-advisory"

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

	var sections Sections
	req := genai.Request{Prompt: buildPrompt(input, rc.Language.String())}
	if err := genai.GenerateJSON(ctx, h.generator, req, responseSchema(), &sections); err != nil {
		return nil, err
	}

	h.logger.Info("crop advisory generated", map[string]interface{}{
		"crop":     input.CropName,
		"language": rc.Language.String(),
	})
	h.obs.RecordAdvisory(ctx, TaskType, rc.Language.String())

	return &Output{Advice: FormatAdvice(sections), Sections: sections}, nil
}

// FormatAdvice renders the four sections as markdown.
func FormatAdvice(s Sections) string {
	parts := []struct{ title, body string }{
		{"Fertilizer Recommendations", s.FertilizerRecommendations},
		{"Soil Amendments", s.SoilAmendments},
		{"Water Management", s.WaterManagement},
		{"Potential Issues", s.PotentialIssues},
	}
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "### %s\n%s", p.title, strings.TrimSpace(p.body))
	}
	return b.String()
}

func buildPrompt(in *Input, language string) string {
	var b strings.Builder
	b.WriteString("You are an expert agricultural advisor. Provide a crop advisory for a farmer based on the following data.\n\n")
	fmt.Fprintf(&b, "Crop: %s\n\n", in.CropName)
	b.WriteString("Soil Conditions:\n")
	fmt.Fprintf(&b, "- Nitrogen (N): %g kg/ha\n", *in.Nitrogen)
	fmt.Fprintf(&b, "- Phosphorous (P): %g kg/ha\n", *in.Phosphorous)
	fmt.Fprintf(&b, "- Potassium (K): %g kg/ha\n", *in.Potassium)
	fmt.Fprintf(&b, "- pH: %g\n\n", *in.PH)
	b.WriteString("Environmental Conditions:\n")
	fmt.Fprintf(&b, "- Annual Rainfall: %g mm\n", *in.Rainfall)
	if d := strings.TrimSpace(in.Description); d != "" {
		fmt.Fprintf(&b, "\nAdditional Farmer's Description:\n%s\n", d)
	}
	b.WriteString(`
Based on all this data, provide clear, actionable advice covering:
1. Fertilizer Recommendations: Suggest specific types and quantities of fertilizers.
2. Soil Amendments: Recommend actions to balance pH or improve soil structure.
3. Water Management: Advise on irrigation strategies based on the rainfall.
4. Potential Issues: Warn about any potential nutrient deficiencies or toxicities based on both the structured data and the farmer's description.

Respond with a JSON object with the string fields fertilizerRecommendations, soilAmendments, waterManagement and potentialIssues. Do not add any extra formatting.`)
	return genai.WithLanguage(b.String(), language)
}

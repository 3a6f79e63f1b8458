// internal/workers/pest/diagnose-plant-disease/handler.go
package diagnoseplantdisease

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
	"kisan-sathi/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "diagnose-plant-disease"

var (
	ErrNotAnImage    = stderrors.New("photo must be an image")
	ErrImageTooLarge = stderrors.New("photo is too large")
)

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

// Execute diagnoses the disease in a photo. It never suggests remedies;
// get-plant-remedies does that with the diagnosed name.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	img, err := genai.ParseDataURI(strings.TrimSpace(input.PhotoDataURI))
	if err != nil {
		return nil, errors.NewInvalidInputError(err)
	}
	if !strings.HasPrefix(img.MIMEType, "image/") {
		return nil, errors.NewInvalidInputError(fmt.Errorf("%w: got %s", ErrNotAnImage, img.MIMEType))
	}
	if h.config.MaxImageBytes > 0 && len(img.Data) > h.config.MaxImageBytes {
		return nil, errors.NewInvalidInputError(fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(img.Data)))
	}

	var user models.User
	if input.User != nil {
		user = *input.User
	}
	rc := models.NewRequestContext(user, input.Language)

	var out Output
	req := genai.Request{
		Prompt: buildPrompt(input.Description, rc.Language.String()),
		Images: []genai.Image{img},
	}
	if err := genai.GenerateJSON(ctx, h.generator, req, responseSchema(), &out); err != nil {
		return nil, err
	}
	out.Disease = strings.TrimSpace(out.Disease)

	h.logger.Info("plant disease diagnosed", map[string]interface{}{
		"disease":    out.Disease,
		"confidence": out.Confidence,
		"mimeType":   img.MIMEType,
		"imageBytes": len(img.Data),
	})
	h.obs.RecordAdvisory(ctx, TaskType, rc.Language.String())
	return &out, nil
}

func buildPrompt(description, language string) string {
	var b strings.Builder
	b.WriteString("You are an expert plant pathologist. Analyze the provided image and description to diagnose plant diseases.\n")
	b.WriteString("Your advice should be practical for a farmer. Assume the issue could be affecting the entire field, not just one plant.\n")
	if language != "" {
		fmt.Fprintf(&b, "\nIMPORTANT: Your entire response, including the disease name, must be in the following language: %s.\n", language)
	}
	if d := strings.TrimSpace(description); d != "" {
		fmt.Fprintf(&b, "\nFarmer's Description: %s\n", d)
	}
	b.WriteString(`
Your diagnosis must include ONLY:
1. disease: The most likely disease.
2. confidence: Your confidence percentage in this diagnosis, as a number from 0 to 100.
Do NOT provide remedies or any other information. Respond with a JSON object with the fields disease and confidence.`)
	return b.String()
}

// internal/workers/pest/get-plant-remedies/handler.go
package getplantremedies

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

const TaskType = "get-plant-remedies"

var ErrMissingDisease = stderrors.New("disease is required")

type Handler struct {
	config    *Config
	generator genai.Generator
	runner    *camunda.JobRunner
	obs       *observability.Observability
}

func NewHandler(config *Config, gen genai.Generator, log logger.Logger, obs *observability.Observability) *Handler {
	return &Handler{
		config:    config,
		generator: gen,
		runner:    camunda.NewJobRunner(TaskType, config.Timeout, config.MaxRetries, log, obs),
		obs:       obs,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	disease := strings.TrimSpace(input.Disease)
	if disease == "" {
		return nil, errors.NewInvalidInputError(ErrMissingDisease)
	}

	var user models.User
	if input.User != nil {
		user = *input.User
	}
	rc := models.NewRequestContext(user, input.Language)

	var out Output
	req := genai.Request{Prompt: buildPrompt(disease, input.Description, rc.Language.String())}
	if err := genai.GenerateJSON(ctx, h.generator, req, responseSchema(), &out); err != nil {
		return nil, err
	}

	h.obs.RecordAdvisory(ctx, TaskType, rc.Language.String())
	return &Output{Chemical: NormalizeBullets(out.Chemical), Organic: NormalizeBullets(out.Organic)}, nil
}

// NormalizeBullets rewrites "*", "•" and numbered list markers to "- " and
// drops blank lines, so every remedy is one hyphen bullet.
func NormalizeBullets(list string) string {
	var lines []string
	for _, line := range strings.Split(list, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "-*•· \t")
		line = stripNumberMarker(line)
		if line == "" {
			continue
		}
		lines = append(lines, "- "+line)
	}
	return strings.Join(lines, "\n")
}

// stripNumberMarker drops a leading "1." or "2)" list marker. The marker
// must be followed by whitespace or end the line, so "2.5 kg" is a dose.
func stripNumberMarker(line string) string {
	i := strings.IndexAny(line, ".)")
	if i <= 0 || i > 3 || !isDigits(line[:i]) {
		return line
	}
	rest := line[i+1:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return line
	}
	return strings.TrimSpace(rest)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func buildPrompt(disease, description, language string) string {
	var b strings.Builder
	b.WriteString("You are an expert plant pathologist. For the given disease, provide practical remedies for a farmer.\n")
	b.WriteString("Assume the issue could be affecting the entire field, not just one plant.\n\n")
	fmt.Fprintf(&b, "Disease: %s\n", disease)
	if d := strings.TrimSpace(description); d != "" {
		fmt.Fprintf(&b, "Farmer's Description: %s\n", d)
	}
	b.WriteString(`
Your response must include:
1. chemical: A bulleted list of chemical remedies. For each remedy, specify:
   - The exact quantity or dosage to use (e.g., "Mix 5ml of [Product] per liter of water").
   - The ideal climate conditions for application (e.g., "Apply in the early morning or late evening to avoid leaf burn").
   Each bullet point must be on a new line and start with a hyphen.
2. organic: A bulleted list of organic remedies, following the same quantity and climate condition guidelines.
   Each bullet point must be on a new line and start with a hyphen.
Respond with a JSON object with the string fields chemical and organic.`)
	return genai.WithLanguage(b.String(), language)
}

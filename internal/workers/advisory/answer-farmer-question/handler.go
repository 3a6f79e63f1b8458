// internal/workers/advisory/answer-farmer-question/handler.go
package answerfarmerquestion

import (
	"context"
	stderrors "errors"
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

const TaskType = "answer-farmer-question"

var ErrEmptyQuestion = stderrors.New("question is required")

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
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, errors.NewInvalidInputError(ErrEmptyQuestion)
	}

	var user models.User
	if input.User != nil {
		user = *input.User
	}
	rc := models.NewRequestContext(user, input.Language)

	answer, err := genai.GenerateText(ctx, h.generator, genai.Request{Prompt: buildPrompt(question, rc)})
	if err != nil {
		return nil, err
	}

	h.obs.RecordAdvisory(ctx, TaskType, rc.Language.String())
	return &Output{Answer: answer, Language: rc.Language.String()}, nil
}

func buildPrompt(question string, rc models.RequestContext) string {
	prompt := "You are a helpful AI assistant for farmers. Answer the following question to the best of your ability."
	crop, village := strings.TrimSpace(rc.User.Crop), strings.TrimSpace(rc.User.Village)
	switch {
	case crop != "" && village != "":
		prompt += "\nThe farmer grows " + crop + " near " + village + "."
	case crop != "":
		prompt += "\nThe farmer grows " + crop + "."
	case village != "":
		prompt += "\nThe farmer lives near " + village + "."
	}
	return genai.WithLanguage(prompt, rc.Language.String()) + "\n\nQuestion: " + question
}

// internal/workers/engagement/list-helplines/handler.go
package listhelplines

import (
	"context"

	"kisan-sathi/internal/common/camunda"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/observability"
	"kisan-sathi/internal/helpline"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "list-helplines"

type Handler struct {
	config *Config
	runner *camunda.JobRunner
}

func NewHandler(config *Config, log logger.Logger, obs *observability.Observability) *Handler {
	return &Handler{
		config: config,
		runner: camunda.NewJobRunner(TaskType, config.Timeout, config.MaxRetries, log, obs),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	found := helpline.Search(input.Query)
	out := &Output{Helplines: make([]Entry, 0, len(found))}
	for _, hl := range found {
		out.Helplines = append(out.Helplines, Entry{
			Name:          hl.Name,
			Number:        hl.Number,
			NumberDisplay: hl.NumberDisplay,
			TelURI:        hl.TelURI(),
		})
	}
	return out, nil
}

// internal/workers/history/search-advisory-history/handler.go
package searchadvisoryhistory

import (
	"context"
	"strings"

	"kisan-sathi/internal/common/camunda"
	"kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/observability"
	"kisan-sathi/internal/history"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "search-advisory-history"

type Searcher interface {
	Search(ctx context.Context, q history.Query) (*history.Result, error)
	Index() string
}

type Handler struct {
	config *Config
	store  Searcher
	runner *camunda.JobRunner
}

func NewHandler(config *Config, store Searcher, log logger.Logger, obs *observability.Observability) *Handler {
	return &Handler{
		config: config,
		store:  store,
		runner: camunda.NewJobRunner(TaskType, config.Timeout, config.MaxRetries, log, obs),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

// Execute searches past advisories. Village and crop default to the
// user's profile so a farmer sees advice given around them.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	q := history.Query{
		Text:    input.Query,
		Village: input.Village,
		Crop:    input.Crop,
		Feature: input.Feature,
		From:    input.Pagination.From,
		Size:    input.Pagination.Size,
	}
	if input.User != nil {
		if strings.TrimSpace(q.Village) == "" {
			q.Village = input.User.Village
		}
		if strings.TrimSpace(q.Crop) == "" {
			q.Crop = input.User.Crop
		}
	}

	res, err := h.store.Search(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewElasticsearchConnectionFailedError(err)
		}
		return nil, errors.NewSearchQueryFailedError(h.store.Index(), err)
	}
	return &Output{Advisories: res.Records, TotalHits: res.TotalHits, MaxScore: res.MaxScore}, nil
}

// internal/workers/history/archive-advisory/handler.go
package archiveadvisory

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"kisan-sathi/internal/common/camunda"
	"kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/observability"
	"kisan-sathi/internal/common/validation"
	"kisan-sathi/internal/history"
	"kisan-sathi/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "archive-advisory"

type Archiver interface {
	Archive(ctx context.Context, rec models.AdvisoryRecord) error
	Index() string
}

type Handler struct {
	config *Config
	store  Archiver
	runner *camunda.JobRunner
	logger logger.Logger
}

func NewHandler(config *Config, store Archiver, log logger.Logger, obs *observability.Observability) *Handler {
	runner := camunda.NewJobRunner(TaskType, config.Timeout, config.MaxRetries, log, obs)
	return &Handler{config: config, store: store, runner: runner, logger: runner.Logger}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	doc := map[string]interface{}{
		"feature":  strings.TrimSpace(input.Feature),
		"question": strings.TrimSpace(input.Question),
		"answer":   strings.TrimSpace(input.Answer),
	}
	if res := validation.ValidateInput(doc, GetInputSchema()); !res.Valid {
		return nil, errors.NewInvalidInputError(fmt.Errorf("%s", res.Error()))
	}

	var user models.User
	if input.User != nil {
		user = *input.User
	}
	rc := models.NewRequestContext(user, input.Language)

	crop := strings.TrimSpace(input.Crop)
	if crop == "" {
		crop = strings.TrimSpace(user.Crop)
	}

	rec := models.AdvisoryRecord{
		AdvisoryID: uuid.New().String(),
		Feature:    strings.TrimSpace(input.Feature),
		UserName:   strings.TrimSpace(user.Name),
		Village:    strings.TrimSpace(user.Village),
		Crop:       crop,
		Language:   rc.Language.String(),
		Question:   strings.TrimSpace(input.Question),
		Answer:     strings.TrimSpace(input.Answer),
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.store.Archive(ctx, rec); err != nil {
		if stderrors.Is(err, history.ErrMissingIndex) {
			return nil, errors.NewElasticsearchConnectionFailedError(err)
		}
		return nil, errors.NewIndexingFailedError(h.store.Index(), err)
	}

	h.logger.Info("advisory archived", map[string]interface{}{
		"advisoryId": rec.AdvisoryID,
		"feature":    rec.Feature,
		"village":    rec.Village,
	})
	return &Output{AdvisoryID: rec.AdvisoryID, Index: h.store.Index()}, nil
}

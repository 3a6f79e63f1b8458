// internal/workers/engagement/record-feedback/handler.go
package recordfeedback

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"kisan-sathi/internal/common/camunda"
	"kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/observability"
	"kisan-sathi/internal/common/validation"
	"kisan-sathi/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "record-feedback"

// AnonymousUser is stored when the job carries no user profile.
const AnonymousUser = "anonymous"

type Handler struct {
	config *Config
	db     *sql.DB
	runner *camunda.JobRunner
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger, obs *observability.Observability) *Handler {
	runner := camunda.NewJobRunner(TaskType, config.Timeout, config.MaxRetries, log, obs)
	return &Handler{
		config: config,
		db:     db,
		runner: runner,
		logger: runner.Logger,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	doc := map[string]interface{}{"feature": input.Feature, "comment": input.Comment}
	if input.Helpful != nil {
		doc["helpful"] = *input.Helpful
	}
	if res := validation.ValidateInput(doc, GetInputSchema()); !res.Valid {
		return nil, errors.NewInvalidInputError(fmt.Errorf("%s", res.Error()))
	}

	fb := models.Feedback{
		FeedbackID: uuid.New().String(),
		UserName:   AnonymousUser,
		Feature:    input.Feature,
		Helpful:    *input.Helpful,
		Comment:    strings.TrimSpace(input.Comment),
		CreatedAt:  time.Now().UTC(),
	}
	if input.User != nil && strings.TrimSpace(input.User.Name) != "" {
		fb.UserName = strings.TrimSpace(input.User.Name)
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT INTO feedback (feedback_id, user_name, feature, helpful, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		fb.FeedbackID, fb.UserName, fb.Feature, fb.Helpful, fb.Comment, fb.CreatedAt,
	)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	h.logger.Info("feedback recorded", map[string]interface{}{
		"feedbackId": fb.FeedbackID,
		"feature":    fb.Feature,
		"helpful":    fb.Helpful,
	})
	return &Output{FeedbackID: fb.FeedbackID, CreatedAt: fb.CreatedAt.Format(time.RFC3339)}, nil
}

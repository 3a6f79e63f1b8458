// internal/workers/communication/send-weather-alert/handler.go
package sendweatheralert

import (
	"context"
	"database/sql"
	stderrors "errors"
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

const TaskType = "send-weather-alert"

var (
	ErrMissingFarmerID = stderrors.New("farmerId is required")
	ErrMissingAlert    = stderrors.New("alert is required")
)

// SMSSender is satisfied by *aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

// EmailSender is satisfied by *aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text, html string) (string, error)
}

type Handler struct {
	config *Config
	db     *sql.DB
	sms    SMSSender
	email  EmailSender
	runner *camunda.JobRunner
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, sms SMSSender, email EmailSender, log logger.Logger, obs *observability.Observability) *Handler {
	runner := camunda.NewJobRunner(TaskType, config.Timeout, config.MaxRetries, log, obs)
	return &Handler{
		config: config,
		db:     db,
		sms:    sms,
		email:  email,
		runner: runner,
		logger: runner.Logger,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

// Execute sends the alert on every channel the farmer has a valid contact
// for. The job fails only when every attempted channel failed.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.FarmerID) == "" {
		return nil, errors.NewInvalidInputError(ErrMissingFarmerID)
	}
	if strings.TrimSpace(input.Alert) == "" {
		return nil, errors.NewInvalidInputError(ErrMissingAlert)
	}

	farmer, err := h.getFarmer(ctx, input.FarmerID)
	if err != nil {
		return nil, err
	}

	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = farmer.Village
	}
	msg := buildMessage(*farmer, location, input)

	notifications := []models.Notification{
		h.sendSMS(ctx, farmer, msg),
		h.sendEmail(ctx, farmer, msg),
	}

	sent, failed := 0, 0
	var lastErr error
	var lastChannel string
	for _, n := range notifications {
		switch n.Status {
		case StatusSent:
			sent++
		case StatusFailed:
			failed++
			lastErr = stderrors.New(n.Error)
			lastChannel = n.Channel
		}
	}

	h.logger.Info("weather alert processed", map[string]interface{}{
		"farmerId": farmer.ID,
		"sent":     sent,
		"failed":   failed,
	})

	switch {
	case sent == 0 && failed > 0:
		return nil, errors.NewNotificationSendFailedError(lastChannel, lastErr)
	case sent > 0 && failed > 0:
		return &Output{Status: StatusPartial, Notifications: notifications}, nil
	case sent > 0:
		return &Output{Status: StatusSent, Notifications: notifications}, nil
	default:
		return &Output{Status: StatusSkipped, Notifications: notifications}, nil
	}
}

func (h *Handler) getFarmer(ctx context.Context, id string) (*models.Farmer, error) {
	var f models.Farmer
	var language string
	err := h.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, village, language
		FROM farmers
		WHERE id = $1`, id,
	).Scan(&f.ID, &f.Name, &f.Phone, &f.Email, &f.Village, &language)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewFarmerNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("farmer_contact", err)
	}
	f.Language = models.ParseLanguage(language)
	return &f, nil
}

func (h *Handler) sendSMS(ctx context.Context, farmer *models.Farmer, msg message) models.Notification {
	n := models.Notification{ID: uuid.New().String(), FarmerID: farmer.ID, Channel: ChannelSMS}
	switch {
	case !h.config.SMSEnabled || h.sms == nil:
		return skipped(n, "sms disabled")
	case farmer.Phone == "":
		return skipped(n, "no phone number")
	case !validation.ValidatePhone(farmer.Phone):
		return skipped(n, fmt.Sprintf("invalid phone number %q", farmer.Phone))
	}

	id, err := h.sms.SendSMS(ctx, farmer.Phone, msg.SMS)
	return h.result(n, id, err)
}

func (h *Handler) sendEmail(ctx context.Context, farmer *models.Farmer, msg message) models.Notification {
	n := models.Notification{ID: uuid.New().String(), FarmerID: farmer.ID, Channel: ChannelEmail}
	switch {
	case !h.config.EmailEnabled || h.email == nil:
		return skipped(n, "email disabled")
	case farmer.Email == "":
		return skipped(n, "no email address")
	case !validation.ValidateEmail(farmer.Email):
		return skipped(n, fmt.Sprintf("invalid email address %q", farmer.Email))
	}

	html, err := renderHTML(msg.Markdown)
	if err != nil {
		return h.result(n, "", err)
	}
	id, err := h.email.SendEmail(ctx, farmer.Email, msg.Subject, msg.Markdown, html)
	return h.result(n, id, err)
}

func (h *Handler) result(n models.Notification, messageID string, err error) models.Notification {
	if err != nil {
		h.logger.Error("alert send failed", map[string]interface{}{
			"channel":  n.Channel,
			"farmerId": n.FarmerID,
			"error":    err.Error(),
		})
		n.Status = StatusFailed
		n.Error = err.Error()
		return n
	}
	n.Status = StatusSent
	n.MessageID = messageID
	n.SentAt = time.Now().UTC().Format(time.RFC3339)
	return n
}

func skipped(n models.Notification, reason string) models.Notification {
	n.Status = StatusSkipped
	n.Error = reason
	return n
}

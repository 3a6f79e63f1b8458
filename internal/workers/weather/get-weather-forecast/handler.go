// internal/workers/weather/get-weather-forecast/handler.go
package getweatherforecast

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"kisan-sathi/internal/common/camunda"
	"kisan-sathi/internal/common/database"
	"kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/genai"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/observability"
	"kisan-sathi/internal/models"
	"kisan-sathi/internal/weather"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "get-weather-forecast"

// SummaryFailedMessage is returned in Output.Error when the model reply is unusable.
const SummaryFailedMessage = "Failed to generate weather summary from AI."

// Forecaster is satisfied by *weather.Client.
type Forecaster interface {
	Forecast(ctx context.Context, location string) (*weather.Forecast, error)
}

type Handler struct {
	config    *Config
	forecasts Forecaster
	icons     *weather.IconTable
	cache     *database.RedisClient
	generator genai.Generator
	runner    *camunda.JobRunner
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, forecasts Forecaster, cache *database.RedisClient, gen genai.Generator, log logger.Logger, obs *observability.Observability) *Handler {
	runner := camunda.NewJobRunner(TaskType, config.Timeout, config.MaxRetries, log, obs)
	return &Handler{
		config:    config,
		forecasts: forecasts,
		icons:     weather.DefaultIcons,
		cache:     cache,
		generator: gen,
		runner:    runner,
		obs:       obs,
		logger:    runner.Logger,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

// Execute returns the cached forecast for the location or fetches a new one.
// Weather service failures are reported in Output.Error; only AI provider
// failures fail the job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var user models.User
	if input.User != nil {
		user = *input.User
	}
	rc := models.NewRequestContext(user, input.Language)

	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = user.VillageOr(h.config.DefaultLocation)
	}

	key := cacheKey(location, rc.Language)
	if out, ok := h.cached(ctx, key); ok {
		return out, nil
	}

	f, err := h.forecasts.Forecast(ctx, location)
	if err != nil {
		h.logger.Warn("weather forecast unavailable", map[string]interface{}{
			"location": location,
			"error":    err.Error(),
		})
		return &Output{Location: location, Error: weather.UserMessage(err)}, nil
	}

	var resp analysis
	req := genai.Request{Prompt: buildPrompt(location, f, rc.Language.String())}
	if err := genai.GenerateJSON(ctx, h.generator, req, analysisSchema(), &resp); err != nil {
		if stdErr, ok := errors.AsStandardError(err); ok && stdErr.Code == errors.ErrCodeAIResponseInvalid {
			return &Output{Location: location, Error: SummaryFailedMessage}, nil
		}
		return nil, err
	}

	out := &Output{
		Location: location,
		Summary:  strings.TrimSpace(resp.Summary),
		Forecast: weather.Daily(f, h.icons),
		Alert:    strings.TrimSpace(resp.Alert),
	}
	h.store(ctx, key, out)
	h.obs.RecordAdvisory(ctx, TaskType, rc.Language.String())
	return out, nil
}

func cacheKey(location string, language models.Language) string {
	return "weather:" + strings.ToLower(location) + ":" + language.Locale()
}

func (h *Handler) cached(ctx context.Context, key string) (*Output, bool) {
	if h.cache == nil || h.config.CacheTTL <= 0 {
		return nil, false
	}
	var out Output
	err := h.cache.GetJSON(ctx, key, &out)
	if err == nil {
		return &out, true
	}
	if !stderrors.Is(err, database.ErrCacheMiss) {
		h.logger.Warn("weather cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return nil, false
}

func (h *Handler) store(ctx context.Context, key string, out *Output) {
	if h.cache == nil || h.config.CacheTTL <= 0 {
		return
	}
	if err := h.cache.SetJSON(ctx, key, out, h.config.CacheTTL); err != nil {
		h.logger.Warn("weather cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func buildPrompt(location string, f *weather.Forecast, language string) string {
	data, err := json.Marshal(f.Forecast)
	if err != nil {
		data = []byte("{}")
	}
	prompt := fmt.Sprintf(`You are a helpful weather assistant. Analyze the following weather data for the user's location and provide a short, friendly summary and an optional alert.

Location: %s
Weather Data (JSON):
%s

Provide a one-sentence summary of the overall weather for the next %d days. Mention the location.
Also, identify any single most important weather alert (like storms, heavy rain, or high winds) and provide a brief alert message. If there are no major alerts, leave alert empty.
Respond with a JSON object of the form {"summary": "...", "alert": "..."}.`, location, data, len(f.Forecast.ForecastDay))
	return genai.WithLanguage(prompt, language)
}

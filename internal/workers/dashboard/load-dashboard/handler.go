// internal/workers/dashboard/load-dashboard/handler.go
package loaddashboard

import (
	"context"
	"fmt"

	"kisan-sathi/internal/common/camunda"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/observability"
	getmarketprices "kisan-sathi/internal/workers/market/get-market-prices"
	getweatherforecast "kisan-sathi/internal/workers/weather/get-weather-forecast"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/sync/errgroup"
)

const TaskType = "load-dashboard"

type WeatherLoader interface {
	Execute(ctx context.Context, input *getweatherforecast.Input) (*getweatherforecast.Output, error)
}

type PriceLoader interface {
	Execute(ctx context.Context, input *getmarketprices.Input) (*getmarketprices.Output, error)
}

type Handler struct {
	config  *Config
	weather WeatherLoader
	prices  PriceLoader
	runner  *camunda.JobRunner
}

func NewHandler(config *Config, weather WeatherLoader, prices PriceLoader, log logger.Logger, obs *observability.Observability) *Handler {
	return &Handler{
		config:  config,
		weather: weather,
		prices:  prices,
		runner:  camunda.NewJobRunner(TaskType, config.Timeout, config.MaxRetries, log, obs),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

// Execute loads the weather card and the market prices for the user's
// village and crop concurrently. The first failure cancels the other load.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var out Output
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		w, err := h.weather.Execute(gctx, &getweatherforecast.Input{
			Language: input.Language,
			User:     input.User,
		})
		if err != nil {
			return fmt.Errorf("weather: %w", err)
		}
		out.Weather = w
		return nil
	})

	g.Go(func() error {
		p, err := h.prices.Execute(gctx, &getmarketprices.Input{
			Language: input.Language,
			User:     input.User,
		})
		if err != nil {
			return fmt.Errorf("market prices: %w", err)
		}
		out.Market = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// internal/workers/market/get-market-prices/handler.go
package getmarketprices

import (
	"context"
	"fmt"
	"strings"

	"kisan-sathi/internal/common/camunda"
	"kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/genai"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/metrics"
	"kisan-sathi/internal/common/observability"
	"kisan-sathi/internal/market"
	"kisan-sathi/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "get-market-prices"

// FallbackSummary is returned when the model gives no summary.
const FallbackSummary = "Could not generate summary."

type Handler struct {
	config    *Config
	catalog   *market.Catalog
	generator genai.Generator
	runner    *camunda.JobRunner
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, catalog *market.Catalog, gen genai.Generator, log logger.Logger, obs *observability.Observability) *Handler {
	runner := camunda.NewJobRunner(TaskType, config.Timeout, config.MaxRetries, log, obs)
	return &Handler{
		config:    config,
		catalog:   catalog,
		generator: gen,
		runner:    runner,
		obs:       obs,
		logger:    runner.Logger,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

// Execute selects the prices for the farmer's village and crop and asks
// the model for a one-sentence summary.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.catalog == nil || h.catalog.Len() == 0 {
		return nil, errors.NewCatalogLoadFailedError(market.ErrEmptyCatalog)
	}

	var user models.User
	if input.User != nil {
		user = *input.User
	}
	rc := models.NewRequestContext(user, input.Language)

	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = user.VillageOr(h.config.DefaultLocation)
	}
	crop := strings.TrimSpace(input.Crop)
	if crop == "" {
		crop = strings.TrimSpace(user.Crop)
	}

	prices := h.catalog.Select(location, crop)
	crop = catalogSpelling(crop, prices)
	metrics.MarketSelections.Observe(float64(len(prices)))

	h.logger.Info("market prices selected", map[string]interface{}{
		"location": location,
		"crop":     crop,
		"count":    len(prices),
	})

	var resp summaryResponse
	req := genai.Request{Prompt: buildPrompt(crop, prices, rc.Language.String())}
	if err := genai.GenerateJSON(ctx, h.generator, req, summarySchema(), &resp); err != nil {
		return nil, err
	}

	summary := strings.TrimSpace(resp.Summary)
	if summary == "" {
		summary = FallbackSummary
	}
	h.obs.RecordAdvisory(ctx, TaskType, rc.Language.String())

	return &Output{Prices: prices, Summary: summary}, nil
}

// catalogSpelling returns crop as the catalog writes it when a selected
// record matches it, so the prompt names the crop the way the prices do.
func catalogSpelling(crop string, prices []market.RankedPriceRecord) string {
	for _, p := range prices {
		if strings.EqualFold(p.Crop, crop) {
			return p.Crop
		}
	}
	return crop
}

func buildPrompt(crop string, prices []market.RankedPriceRecord, language string) string {
	var b strings.Builder
	b.WriteString("You are an agricultural market analyst. Analyze the following crop prices.\n")
	if crop != "" {
		fmt.Fprintf(&b, "The user's primary crop is %s: identify the market with the best price for that crop.\n", crop)
	}
	b.WriteString("Provide a short, one-sentence summary of the findings.\n")
	b.WriteString("Respond with a JSON object of the form {\"summary\": \"...\"}.\n\nPrices:\n")
	for _, p := range prices {
		fmt.Fprintf(&b, "- %s in %s: %s per %s\n", p.Crop, p.Market, formatPrice(p.Price), p.Unit)
	}
	return genai.WithLanguage(b.String(), language)
}

func formatPrice(price float64) string {
	if price == float64(int64(price)) {
		return fmt.Sprintf("%d", int64(price))
	}
	return fmt.Sprintf("%.2f", price)
}

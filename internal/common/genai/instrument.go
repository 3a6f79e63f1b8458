package genai

import (
	"context"
	"time"

	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/metrics"
)

type instrumented struct {
	next   Generator
	logger logger.Logger
}

// Instrument records call counts and latency for gen.
func Instrument(gen Generator, log logger.Logger) Generator {
	return &instrumented{next: gen, logger: log.With(map[string]interface{}{"provider": gen.Name()})}
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	text, err := i.next.Generate(ctx, req)
	elapsed := time.Since(start)
	metrics.GenAIDuration.WithLabelValues(i.next.Name()).Observe(elapsed.Seconds())

	outcome := "ok"
	switch {
	case err == nil:
	case IsBusy(err):
		outcome = "busy"
	default:
		outcome = "failed"
	}
	metrics.GenAIRequests.WithLabelValues(i.next.Name(), outcome).Inc()

	if err != nil {
		i.logger.Warn("genai call failed", map[string]interface{}{
			"outcome":    outcome,
			"durationMs": elapsed.Milliseconds(),
			"error":      err,
		})
		return "", err
	}
	i.logger.Debug("genai call completed", map[string]interface{}{
		"durationMs": elapsed.Milliseconds(),
		"images":     len(req.Images),
		"chars":      len(text),
	})
	return text, nil
}

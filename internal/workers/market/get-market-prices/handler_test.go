// internal/workers/market/get-market-prices/handler_test.go
package getmarketprices

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/genai"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/observability"
	"kisan-sathi/internal/market"
	"kisan-sathi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Name() string { return "mock" }

func (m *mockGenerator) Generate(ctx context.Context, req genai.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func createTestConfig() *Config {
	return &Config{
		Enabled:         true,
		MaxJobsActive:   5,
		Timeout:         5 * time.Second,
		DefaultLocation: DefaultLocation,
	}
}

func createTestHandler(t *testing.T, gen genai.Generator) *Handler {
	catalog, err := market.LoadEmbedded()
	require.NoError(t, err)
	return NewHandler(createTestConfig(), catalog, gen, logger.NewTestLogger(t), observability.NewNoop())
}

func TestHandler_Execute(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req genai.Request) bool {
		return req.JSON &&
			assert.Contains(t, req.Prompt, "- Wheat in Rampur Mandi: 2350 per Quintal") &&
			assert.Contains(t, req.Prompt, "primary crop is Wheat") &&
			assert.Contains(t, req.Prompt, "following language: हिंदी.")
	})).Return(`{"summary":"Rampur Mandi pays the best price for wheat."}`, nil).Once()

	h := createTestHandler(t, gen)
	out, err := h.Execute(context.Background(), &Input{Location: "rampur", Crop: "wheat", Language: "हिंदी"})
	require.NoError(t, err)

	assert.Equal(t, "Rampur Mandi pays the best price for wheat.", out.Summary)
	require.NotEmpty(t, out.Prices)
	best, ok := market.Best(out.Prices)
	require.True(t, ok)
	assert.Equal(t, "Rampur Mandi", best.Market)
	assert.Equal(t, 2350.0, best.Price)
	gen.AssertExpectations(t)
}

func TestCatalogSpelling(t *testing.T) {
	prices := []market.RankedPriceRecord{
		{PriceRecord: market.PriceRecord{Crop: "Rice"}},
		{PriceRecord: market.PriceRecord{Crop: "Wheat"}},
	}
	assert.Equal(t, "Wheat", catalogSpelling("wheat", prices))
	assert.Equal(t, "Millet", catalogSpelling("Millet", prices))
	assert.Equal(t, "", catalogSpelling("", prices))
}

func TestHandler_Execute_UserDefaults(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		wantFirst string
	}{
		{
			name:      "village from user profile",
			input:     &Input{User: &models.User{Name: "Gurpreet", Village: "Ludhiana", Crop: "Maize", Language: "ਪੰਜਾਬੀ"}},
			wantFirst: "Ludhiana Mandi",
		},
		{
			name:      "default village",
			input:     &Input{},
			wantFirst: "Rampur Mandi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{}
			gen.On("Generate", mock.Anything, mock.Anything).Return(`{"summary":"ok"}`, nil)

			out, err := createTestHandler(t, gen).Execute(context.Background(), tt.input)
			require.NoError(t, err)
			require.NotEmpty(t, out.Prices)
			assert.Equal(t, tt.wantFirst, out.Prices[0].Market)
		})
	}
}

func TestHandler_Execute_EmptySummary(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(`{"summary":"   "}`, nil)

	out, err := createTestHandler(t, gen).Execute(context.Background(), &Input{Location: "Unknown Village"})
	require.NoError(t, err)
	assert.Equal(t, FallbackSummary, out.Summary)
	assert.Len(t, out.Prices, 4)
	for _, p := range out.Prices {
		assert.False(t, p.IsBest)
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("provider busy", func(t *testing.T) {
		gen := &mockGenerator{}
		gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("googleapi: Error 503: UNAVAILABLE"))

		_, err := createTestHandler(t, gen).Execute(context.Background(), &Input{Location: "Rampur"})
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeAIServiceBusy, stdErr.Code)
		assert.Equal(t, apperrors.AIServiceBusyMessage, stdErr.Message)
	})

	t.Run("missing summary field", func(t *testing.T) {
		gen := &mockGenerator{}
		gen.On("Generate", mock.Anything, mock.Anything).Return(`{"text":"hello"}`, nil)

		_, err := createTestHandler(t, gen).Execute(context.Background(), &Input{Location: "Rampur"})
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeAIResponseInvalid, stdErr.Code)
	})

	t.Run("no catalog", func(t *testing.T) {
		h := NewHandler(createTestConfig(), &market.Catalog{}, &mockGenerator{}, logger.NewNoOpLogger(), nil)
		_, err := h.Execute(context.Background(), &Input{Location: "Rampur"})
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeCatalogLoadFailed, stdErr.Code)
	})
}

func TestBuildPrompt(t *testing.T) {
	prices := []market.RankedPriceRecord{
		{PriceRecord: market.PriceRecord{Crop: "Rice", Market: "Sita Pur Mandi", Price: 3550.5, Unit: "Quintal"}},
	}
	prompt := buildPrompt("", prices, "")
	assert.Contains(t, prompt, "- Rice in Sita Pur Mandi: 3550.50 per Quintal")
	assert.NotContains(t, prompt, "primary crop")
	assert.NotContains(t, prompt, "IMPORTANT")
}

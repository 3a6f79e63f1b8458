// internal/workers/advisory/soil-advisory/handler_test.go
package soiladvisory

import (
	"context"
	"testing"

	apperrors "kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/genai"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Generate(ctx context.Context, req genai.Request) (string, error) {
	s.prompt = req.Prompt
	return s.text, s.err
}

func TestHandler_Execute(t *testing.T) {
	gen := &stubGenerator{text: "```json\n{\"advice\": \"### Fertilizer Recommendations\\n- Apply 25 kg/ha zinc sulphate\"}\n```"}
	h := NewHandler(&Config{}, gen, logger.NewTestLogger(t), nil)

	out, err := h.Execute(context.Background(), &Input{
		SoilType: "Black",
		Question: "Cracks appear in summer and the cotton plants wilt.",
		User:     &models.User{Name: "Sunita", Crop: "Cotton", Language: "mr-IN"},
	})
	require.NoError(t, err)
	assert.Equal(t, "### Fertilizer Recommendations\n- Apply 25 kg/ha zinc sulphate", out.Advice)
	assert.Contains(t, gen.prompt, "Soil Type: Black\nCrop: Cotton\n")
	assert.Contains(t, gen.prompt, "following language: मराठी.")
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		gen      *stubGenerator
		input    *Input
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "missing question",
			gen:      &stubGenerator{},
			input:    &Input{SoilType: "Red", Crop: "Groundnut"},
			wantCode: apperrors.ErrCodeInvalidInput,
		},
		{
			name:     "missing crop",
			gen:      &stubGenerator{},
			input:    &Input{SoilType: "Red", Question: "?"},
			wantCode: apperrors.ErrCodeInvalidInput,
		},
		{
			name:     "not json",
			gen:      &stubGenerator{text: "I cannot help with that."},
			input:    &Input{SoilType: "Red", Crop: "Groundnut", Question: "Low yield"},
			wantCode: apperrors.ErrCodeAIResponseInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHandler(&Config{}, tt.gen, logger.NewNoOpLogger(), nil).Execute(context.Background(), tt.input)
			stdErr, ok := apperrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

// internal/workers/history/archive-advisory/handler_test.go
package archiveadvisory

import (
	"context"
	"errors"
	"testing"

	apperrors "kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockArchiver struct {
	mock.Mock
}

func (m *mockArchiver) Archive(ctx context.Context, rec models.AdvisoryRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockArchiver) Index() string { return "kisan-advisories" }

func TestHandler_Execute(t *testing.T) {
	store := new(mockArchiver)
	store.On("Archive", mock.Anything, mock.MatchedBy(func(rec models.AdvisoryRecord) bool {
		return rec.Feature == "answer-farmer-question" &&
			rec.Village == "Rampur" &&
			rec.Crop == "Wheat" &&
			rec.Language == "हिंदी" &&
			rec.Question == "When should I sow wheat?" &&
			rec.AdvisoryID != "" &&
			!rec.CreatedAt.IsZero()
	})).Return(nil).Once()

	h := NewHandler(&Config{}, store, logger.NewTestLogger(t), nil)
	out, err := h.Execute(context.Background(), &Input{
		Feature:  "answer-farmer-question",
		Question: " When should I sow wheat? ",
		Answer:   "Early November.",
		Language: "Hindi",
		User:     &models.User{Name: "Ramesh", Village: "Rampur", Crop: "Wheat"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AdvisoryID)
	assert.Equal(t, "kisan-advisories", out.Index)
	store.AssertExpectations(t)
}

func TestHandler_Execute_Errors(t *testing.T) {
	h := NewHandler(&Config{}, new(mockArchiver), logger.NewNoOpLogger(), nil)
	_, err := h.Execute(context.Background(), &Input{Feature: "soil-advisory", Question: "  "})
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)

	store := new(mockArchiver)
	store.On("Archive", mock.Anything, mock.Anything).Return(errors.New("es unavailable"))
	h = NewHandler(&Config{}, store, logger.NewNoOpLogger(), nil)
	_, err = h.Execute(context.Background(), &Input{Feature: "soil-advisory", Question: "q", Answer: "a"})
	stdErr, ok = apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeIndexingFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

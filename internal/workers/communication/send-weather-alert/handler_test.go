// internal/workers/communication/send-weather-alert/handler_test.go
package sendweatheralert

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSMS struct {
	mock.Mock
}

func (m *mockSMS) SendSMS(ctx context.Context, phone, message string) (string, error) {
	args := m.Called(ctx, phone, message)
	return args.String(0), args.Error(1)
}

type mockEmail struct {
	mock.Mock
}

func (m *mockEmail) SendEmail(ctx context.Context, to, subject, text, html string) (string, error) {
	args := m.Called(ctx, to, subject, text, html)
	return args.String(0), args.Error(1)
}

var farmerColumns = []string{"id", "name", "phone", "email", "village", "language"}

func expectFarmer(mock sqlmock.Sqlmock, phone, email string) {
	mock.ExpectQuery(`SELECT id, name, phone, email, village, language FROM farmers WHERE id = \$1`).
		WithArgs("farmer-42").
		WillReturnRows(sqlmock.NewRows(farmerColumns).AddRow("farmer-42", "Gurpreet", phone, email, "Ludhiana", "ਪੰਜਾਬੀ"))
}

func enabledConfig() *Config {
	return &Config{Enabled: true, SMSEnabled: true, EmailEnabled: true}
}

func TestHandler_Execute_BothChannels(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectFarmer(dbMock, "+919812345678", "gurpreet@example.in")

	sms := new(mockSMS)
	sms.On("SendSMS", mock.Anything, "+919812345678", "Kisan Sathi weather alert for Ludhiana: Hailstorm expected tonight, cover nursery beds.").
		Return("sns-1", nil)

	email := new(mockEmail)
	email.On("SendEmail", mock.Anything, "gurpreet@example.in", "Weather alert for Ludhiana",
		mock.MatchedBy(func(text string) bool { return strings.Contains(text, "**Hailstorm expected tonight") }),
		mock.MatchedBy(func(html string) bool {
			return strings.Contains(html, "<h2>Weather alert for Ludhiana</h2>") &&
				strings.Contains(html, `<a href="tel:18001801551">1800-180-1551</a>`)
		}),
	).Return("ses-1", nil)

	h := NewHandler(enabledConfig(), db, sms, email, logger.NewTestLogger(t), nil)
	out, err := h.Execute(context.Background(), &Input{
		FarmerID: "farmer-42",
		Alert:    "Hailstorm expected tonight, cover nursery beds.",
		Summary:  "Cold and stormy for the next 3 days.",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, out.Status)
	require.Len(t, out.Notifications, 2)
	assert.Equal(t, "sns-1", out.Notifications[0].MessageID)
	assert.Equal(t, "ses-1", out.Notifications[1].MessageID)
	sms.AssertExpectations(t)
	email.AssertExpectations(t)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestHandler_Execute_PartialAndSkipped(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectFarmer(dbMock, "+919812345678", "")

	sms := new(mockSMS)
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return("sns-2", nil)

	h := NewHandler(enabledConfig(), db, sms, new(mockEmail), logger.NewNoOpLogger(), nil)
	out, err := h.Execute(context.Background(), &Input{FarmerID: "farmer-42", Alert: "Heavy rain", Location: "Khanna"})
	require.NoError(t, err)
	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, StatusSkipped, out.Notifications[1].Status)
	assert.Equal(t, "no email address", out.Notifications[1].Error)

	db2, dbMock2, err := sqlmock.New()
	require.NoError(t, err)
	defer db2.Close()
	expectFarmer(dbMock2, "+919812345678", "gurpreet@example.in")

	email := new(mockEmail)
	email.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("MessageRejected"))

	h = NewHandler(enabledConfig(), db2, sms, email, logger.NewNoOpLogger(), nil)
	out, err = h.Execute(context.Background(), &Input{FarmerID: "farmer-42", Alert: "Heavy rain"})
	require.NoError(t, err)
	assert.Equal(t, StatusPartial, out.Status)
	assert.Equal(t, StatusFailed, out.Notifications[1].Status)
}

func TestHandler_Execute_NothingToSend(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectFarmer(dbMock, "98123 45678", "")

	h := NewHandler(&Config{SMSEnabled: true}, db, new(mockSMS), nil, logger.NewNoOpLogger(), nil)
	out, err := h.Execute(context.Background(), &Input{FarmerID: "farmer-42", Alert: "Frost"})
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, out.Status)
	assert.Contains(t, out.Notifications[0].Error, "invalid phone number")
	assert.Equal(t, "email disabled", out.Notifications[1].Error)
}

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("farmer not found", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		dbMock.ExpectQuery(`SELECT id, name, phone, email, village, language FROM farmers`).
			WithArgs("farmer-42").
			WillReturnRows(sqlmock.NewRows(farmerColumns))

		_, err = NewHandler(enabledConfig(), db, nil, nil, logger.NewNoOpLogger(), nil).
			Execute(context.Background(), &Input{FarmerID: "farmer-42", Alert: "Frost"})
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeFarmerNotFound, stdErr.Code)
	})

	t.Run("all channels fail", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		expectFarmer(dbMock, "+919812345678", "")

		sms := new(mockSMS)
		sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("throttled"))

		_, err = NewHandler(enabledConfig(), db, sms, nil, logger.NewNoOpLogger(), nil).
			Execute(context.Background(), &Input{FarmerID: "farmer-42", Alert: "Frost"})
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotificationSendFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := NewHandler(enabledConfig(), nil, nil, nil, logger.NewNoOpLogger(), nil).
			Execute(context.Background(), &Input{FarmerID: "farmer-42"})
		assert.ErrorIs(t, err, ErrMissingAlert)
	})
}

func TestBuildMessage_TruncatesSMS(t *testing.T) {
	msg := buildMessage(farmerFixture(), "Ludhiana", &Input{Alert: strings.Repeat("बारिश ", 100)})
	assert.Len(t, []rune(msg.SMS), smsLimit)
	assert.True(t, strings.HasSuffix(msg.SMS, "..."))
}

func farmerFixture() models.Farmer {
	return models.Farmer{ID: "farmer-42", Name: "Gurpreet", Village: "Ludhiana"}
}

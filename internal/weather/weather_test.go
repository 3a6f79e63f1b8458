package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kisan-sathi/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastJSON = `{
  "location": {"name": "Rampur", "region": "Uttar Pradesh", "country": "India"},
  "forecast": {"forecastday": [
    {"date": "2024-06-10", "day": {"maxtemp_c": 38.6, "mintemp_c": 27.1, "condition": {"text": "Sunny", "code": 1000}}},
    {"date": "2024-06-11", "day": {"maxtemp_c": 35.2, "mintemp_c": 26.0, "condition": {"text": "Patchy rain possible", "code": 1063}}},
    {"date": "2024-06-12", "day": {"maxtemp_c": 31.5, "mintemp_c": 24.9, "condition": {"text": "Something new", "code": 9999}}}
  ]}
}`

func TestIconTable(t *testing.T) {
	assert.Equal(t, Cloudy, DefaultIcons.Fallback())
	assert.Equal(t, Sunny, DefaultIcons.Lookup(1000))
	assert.Equal(t, Stormy, DefaultIcons.Lookup(1276))
	assert.Equal(t, Mist, DefaultIcons.Lookup(1135))
	assert.Equal(t, Cloudy, DefaultIcons.Lookup(42))

	_, err := NewIconTable(map[int]Icon{1000: Sunny}, Icon("Snowy"))
	assert.Error(t, err)
	_, err = NewIconTable(map[int]Icon{1000: Icon("Hazy")}, Cloudy)
	assert.Error(t, err)
}

func TestClient_Forecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast.json", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "Sita Pur", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("days"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastJSON))
	}))
	defer server.Close()

	c := NewClient(config.WeatherAPIConfig{BaseURL: server.URL + "/", APIKey: "secret"})
	f, err := c.Forecast(context.Background(), "Sita Pur")
	require.NoError(t, err)
	assert.Equal(t, "Rampur", f.Location.Name)

	days := Daily(f, nil)
	assert.Equal(t, []DailyForecast{
		{Day: "Today", Temp: "39°C", Condition: "Sunny", Icon: Sunny},
		{Day: "Tomorrow", Temp: "35°C", Condition: "Patchy rain possible", Icon: Rainy},
		{Day: "Wednesday", Temp: "32°C", Condition: "Something new", Icon: Cloudy},
	}, days)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		apiKey  string
		wantIs  error
		wantMsg string
	}{
		{name: "missing key", wantIs: ErrMissingAPIKey, wantMsg: "WEATHER_API_KEY"},
		{name: "unauthorized", apiKey: "bad", status: http.StatusUnauthorized, body: `{"error":{}}`, wantIs: ErrUnauthorized, wantMsg: "invalid or unauthorized"},
		{name: "server error", apiKey: "k", status: http.StatusInternalServerError, body: `{}`, wantMsg: "Status: 500 Internal Server Error"},
		{name: "bad payload", apiKey: "k", status: http.StatusOK, body: `{"forecast":{"forecastday":[{"date":"2024-06-10"}]}}`, wantIs: ErrInvalidPayload, wantMsg: "unexpected response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(config.WeatherAPIConfig{BaseURL: server.URL, APIKey: tt.apiKey}).Forecast(context.Background(), "Rampur")
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.True(t, errors.Is(err, tt.wantIs), err.Error())
			}
			assert.Contains(t, UserMessage(err), tt.wantMsg)
		})
	}
}

func TestUserMessage_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(config.WeatherAPIConfig{BaseURL: url, APIKey: "k"}).Forecast(context.Background(), "Rampur")
	require.Error(t, err)
	assert.Contains(t, UserMessage(err), "Failed to connect to weather service")
}

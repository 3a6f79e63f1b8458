// Package weather fetches forecasts from WeatherAPI.com and shapes them
// into the daily cards shown to farmers.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kisan-sathi/internal/common/config"
	httpclient "kisan-sathi/internal/common/http"
	"kisan-sathi/internal/common/validation"
)

var (
	ErrMissingAPIKey  = errors.New("weather api key is not configured")
	ErrUnauthorized   = errors.New("weather api key is invalid or unauthorized")
	ErrInvalidPayload = errors.New("unexpected weather api response")
)

type Condition struct {
	Text string `json:"text"`
	Code int    `json:"code"`
}

type Hour struct {
	Time         string    `json:"time"`
	TempC        float64   `json:"temp_c"`
	Condition    Condition `json:"condition"`
	WillItRain   int       `json:"will_it_rain"`
	ChanceOfRain int       `json:"chance_of_rain"`
}

type ForecastDay struct {
	Date string `json:"date"`
	Day  struct {
		MaxTempC  float64   `json:"maxtemp_c"`
		MinTempC  float64   `json:"mintemp_c"`
		Condition Condition `json:"condition"`
	} `json:"day"`
	Hour []Hour `json:"hour,omitempty"`
}

// Forecast is the subset of the forecast.json response the app uses.
type Forecast struct {
	Location struct {
		Name    string `json:"name"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []ForecastDay `json:"forecastday"`
	} `json:"forecast"`
}

type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
	days    int
}

func NewClient(cfg config.WeatherAPIConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	days := cfg.Days
	if days <= 0 {
		days = 3
	}
	return &Client{
		http:    httpclient.NewClient(timeout),
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		days:    days,
	}
}

// Forecast fetches the daily forecast for location.
func (c *Client) Forecast(ctx context.Context, location string) (*Forecast, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", location)
	q.Set("days", fmt.Sprint(c.days))
	endpoint := c.baseURL + "/v1/forecast.json?" + q.Encode()

	var raw json.RawMessage
	if err := c.http.GetJSON(ctx, endpoint, &raw); err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}

	result, err := validation.ValidateJSON(raw, responseSchema())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, result.Error())
	}

	var f Forecast
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &f, nil
}

func responseSchema() validation.JSONSchema {
	condition := validation.Property{
		Type:     "object",
		Required: []string{"text", "code"},
		Properties: map[string]validation.Property{
			"text": {Type: "string"},
			"code": {Type: "integer"},
		},
	}
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"forecast"},
		Properties: map[string]validation.Property{
			"forecast": {
				Type:     "object",
				Required: []string{"forecastday"},
				Properties: map[string]validation.Property{
					"forecastday": {
						Type: "array",
						Items: &validation.Property{
							Type:     "object",
							Required: []string{"date", "day"},
							Properties: map[string]validation.Property{
								"date": {Type: "string"},
								"day": {
									Type:     "object",
									Required: []string{"maxtemp_c", "mintemp_c", "condition"},
									Properties: map[string]validation.Property{
										"maxtemp_c": {Type: "number"},
										"mintemp_c": {Type: "number"},
										"condition": condition,
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

// UserMessage turns a Forecast error into the text shown to the farmer.
func UserMessage(err error) string {
	var statusErr *httpclient.StatusError
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return "The Weather API key is not configured. Please set WEATHER_API_KEY."
	case errors.Is(err, ErrUnauthorized):
		return "Weather API key is invalid or unauthorized. Please check the configured key."
	case errors.Is(err, ErrInvalidPayload):
		return "The weather service returned an unexpected response."
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Failed to fetch weather data. Status: %d %s", statusErr.StatusCode, http.StatusText(statusErr.StatusCode))
	default:
		return fmt.Sprintf("Failed to connect to weather service: %v", err)
	}
}

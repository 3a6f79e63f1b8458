package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kisan-sathi/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMux_Ready(t *testing.T) {
	checks := map[string]func(context.Context) error{
		"zeebe": func(context.Context) error { return nil },
	}
	mux := newMux(checks)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	checks["redis"] = func(context.Context) error { return errors.New("connection refused") }
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Failed map[string]string `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body.Status)
	assert.Equal(t, map[string]string{"redis": "connection refused"}, body.Failed)
}

func TestMux_HealthAndMetrics(t *testing.T) {
	mux := newMux(nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRetryWithBackoff(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, 0, nopLogger(t), "test op")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	err = retryWithBackoff(func() error { return errors.New("down") }, 2, 0, nopLogger(t), "redis")
	assert.EqualError(t, err, "redis failed after 2 attempts: down")
}

func nopLogger(t *testing.T) logger.Logger {
	return logger.NewTestLogger(t)
}

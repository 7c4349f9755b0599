package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brett-phillips/ELO/app/shared/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantBody   healthResponse
	}{
		{
			name: "all healthy",
			checks: map[string]HealthCheck{
				"postgres": func(context.Context) error { return nil },
				"nats":     func(context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
			wantBody:   healthResponse{Status: "ok", Checks: map[string]string{"postgres": "ok", "nats": "ok"}},
		},
		{
			name: "one failing",
			checks: map[string]HealthCheck{
				"postgres": func(context.Context) error { return nil },
				"nats":     func(context.Context) error { return errors.New("nats connection is not connected") },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody: healthResponse{Status: "unavailable", Checks: map[string]string{
				"postgres": "ok",
				"nats":     "nats connection is not connected",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(NewHTTPHandler(observability.NoOpLogger, nil, tt.checks))
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/healthz")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var got healthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "elo_test_total", Help: "test counter"})
	reg.MustRegister(counter)
	counter.Inc()

	rec := httptest.NewRecorder()
	NewHTTPHandler(observability.NoOpLogger, reg, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "elo_test_total 1")
}

func TestMetricsDisabledWithoutRegistry(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHTTPHandler(observability.NoOpLogger, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

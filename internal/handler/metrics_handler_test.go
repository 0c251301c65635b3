package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wellbeing-api/internal/service"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestMetricsHandlerReady(t *testing.T) {
	handler := NewMetricsHandler(nil, map[string]Pinger{"store": fakePinger{}, "cache": fakePinger{}})
	c, rec := newTestContext(http.MethodGet, "/ready", nil, nil)

	handler.Ready(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsHandlerNotReady(t *testing.T) {
	handler := NewMetricsHandler(nil, map[string]Pinger{"store": fakePinger{err: errors.New("connection refused")}})
	c, rec := newTestContext(http.MethodGet, "/ready", nil, nil)

	handler.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "connection refused", body.Checks["store"])
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordSuppression("snapshot", "cohort")
	handler := NewMetricsHandler(metrics, nil)
	c, rec := newTestContext(http.MethodGet, "/metrics", nil, nil)

	handler.Prometheus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wellbeing_suppressed_metrics_total")
}

func TestMetricsHandlerPrometheusWithoutService(t *testing.T) {
	handler := NewMetricsHandler(nil, nil)
	c, rec := newTestContext(http.MethodGet, "/metrics", nil, nil)

	handler.Prometheus(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, c.IsAborted())
	assert.Empty(t, rec.Body.String())
}

func TestMetricsHandlerSummary(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordClassificationWriteFailure()
	handler := NewMetricsHandler(metrics, nil)
	c, rec := newTestContext(http.MethodGet, "/metrics/summary", nil, nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, float64(1), envelope.Data["classification_write_failures"])
}

package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/health"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
)

func TestNewEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry("test_service", registry, zap.NewNop())

	failing := health.Check{Name: "database", Fn: func(ctx context.Context) error { return errors.New("down") }}
	r := NewEngine(EngineConfig{
		Name:     "test-service",
		Logger:   zap.NewNop(),
		Metrics:  m,
		Gatherer: registry,
		Checks:   []health.Check{failing},
	})
	r.GET("/license/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/license/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "test_service_http_requests_total"), "metrics body: %s", body)
	assert.True(t, strings.Contains(body, `endpoint="/license/:id"`))
}

package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/medicity-console/internal/config"
)

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "verbose"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "DEBUG"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/admin", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/admin", "GET", 200, 5*time.Millisecond)
	m.RecordError("/login", "POST", "INVALID_CREDENTIALS")
	m.RecordGuardDecision("redirect", "/login")
	m.RecordSessionEvent("session.logged_out")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/admin", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/login", "POST", "INVALID_CREDENTIALS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.guardDecisions.WithLabelValues("redirect", "/login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionEvents.WithLabelValues("session.logged_out")))

	var nilMetrics *Metrics
	nilMetrics.RecordRequest("/", "GET", 200, time.Millisecond)
	nilMetrics.RecordGuardDecision("render", "")
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics, func(*fiber.Ctx) string { return "client-9" }))
	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/login", fiber.StatusFound) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "client-9", fields["client_id"])
	assert.Equal(t, "/login", fields["redirect"])
	assert.Equal(t, int64(fiber.StatusFound), fields["status"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("/", "GET", "302")))
}

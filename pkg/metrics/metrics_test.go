package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreRegistered(t *testing.T) {
	QuestionsHandled.WithLabelValues("answered").Inc()
	RequestsExpired.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(QuestionsHandled.WithLabelValues("answered")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(RequestsExpired), float64(1))
}

func TestMetricsHandlerServes(t *testing.T) {
	SweepRuns.Inc()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	MetricsHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "frontdesk_sweep_runs_total")
}

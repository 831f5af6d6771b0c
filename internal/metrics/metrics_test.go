package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetricsIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		RegisterMetrics()
		RegisterMetrics()
	})
}

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(admissions.WithLabelValues("git_status", "rejected"))
	RecordAdmission("git_status", false)
	RecordAdmission("git_status", true)
	assert.Equal(t, before+1, testutil.ToFloat64(admissions.WithLabelValues("git_status", "rejected")))

	before = testutil.ToFloat64(outcomes.WithLabelValues("git_log", "cancelled"))
	RecordOutcome("git_log", "cancelled", 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(outcomes.WithLabelValues("git_log", "cancelled")))

	before = testutil.ToFloat64(deliveries.WithLabelValues("post-git-log-result", "unreachable"))
	RecordDelivery("post-git-log-result", false)
	assert.Equal(t, before+1, testutil.ToFloat64(deliveries.WithLabelValues("post-git-log-result", "unreachable")))

	RecordCancel("git_log")
	RecordHTTPRequest("GET", "/healthz", http.StatusOK, time.Millisecond)
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordAdmission("git_fetch", true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gitdesk_task_admissions_total")
}

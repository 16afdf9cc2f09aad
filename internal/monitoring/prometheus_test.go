package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/platformbuilds/evitalab-core/internal/metrics"
)

func TestSetupPrometheusMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupPrometheusMetrics(r, "/custom-metrics")
	// registering twice must not panic
	SetupPrometheusMetrics(gin.New(), "")

	metrics.QueryExecutionsTotal.WithLabelValues("evitaql", "success").Inc()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/custom-metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "evitalab_core_build_info")
	assert.Contains(t, w.Body.String(), "evitalab_core_query_executions_total")
}

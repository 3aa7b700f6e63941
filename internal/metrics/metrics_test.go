package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HandlerExposesCounters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	m.Submissions.WithLabelValues("accepted").Inc()
	m.Submissions.WithLabelValues("accepted").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues("accepted")))

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `intake_submissions_total{outcome="accepted"} 2`))
}

package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// MetricsTestSuite covers the collectors behind the observer interfaces
type MetricsTestSuite struct {
	suite.Suite
	metrics *Metrics
}

func (suite *MetricsTestSuite) SetupTest() {
	suite.metrics = NewMetrics("recipebox", zap.NewNop())
}

func (suite *MetricsTestSuite) TestObservers() {
	suite.Run("ParseAndFallback_ShouldCountByLabel", func() {
		// Act
		suite.metrics.ObserveParse("rule", "ok")
		suite.metrics.ObserveParse("rule", "ok")
		suite.metrics.ObserveParse("ai", "fallback")
		suite.metrics.ObserveAIFallback("no json")

		// Assert
		assert.Equal(suite.T(), 2.0, testutil.ToFloat64(suite.metrics.parsesTotal.WithLabelValues("rule", "ok")))
		assert.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.parsesTotal.WithLabelValues("ai", "fallback")))
		assert.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.aiFallbacksTotal.WithLabelValues("no json")))
	})

	suite.Run("CacheHitsAndMisses_ShouldCount", func() {
		// Act
		suite.metrics.CacheHit("local")
		suite.metrics.CacheHit("shared")
		suite.metrics.CacheMiss()

		// Assert
		assert.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.cacheHitsTotal.WithLabelValues("local")))
		assert.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.cacheHitsTotal.WithLabelValues("shared")))
		assert.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.cacheMissesTotal))
	})
}

func (suite *MetricsTestSuite) TestHandler_ShouldExposeRecordedRequests() {
	// Arrange
	suite.metrics.ObserveRequest(http.MethodGet, "/api/v1/recipes/{id}", http.StatusOK, 15*time.Millisecond)
	rec := httptest.NewRecorder()

	// Act
	suite.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(suite.T(), strings.Contains(body, `recipebox_http_requests_total{method="GET",route="/api/v1/recipes/{id}",status_code="200"} 1`))
	assert.Contains(suite.T(), body, "recipebox_http_request_duration_seconds_bucket")
	assert.Contains(suite.T(), body, "go_goroutines")
}

func TestMetricsTestSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

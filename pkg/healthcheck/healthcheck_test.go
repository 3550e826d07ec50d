package healthcheck

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type staticChecker struct {
	status Status
	calls  int
}

func (s *staticChecker) Check(context.Context) Check {
	s.calls++
	return Check{Status: s.status}
}

// HealthCheckTestSuite covers check aggregation and the HTTP handlers
type HealthCheckTestSuite struct {
	suite.Suite
	hc *HealthCheck
}

func (suite *HealthCheckTestSuite) SetupTest() {
	suite.hc = New("1.2.3", zap.NewNop())
	suite.hc.SetCacheTTL(0)
}

func (suite *HealthCheckTestSuite) TestCheck() {
	suite.Run("NoCheckers_ShouldBeHealthy", func() {
		// Act
		response := suite.hc.Check(context.Background())

		// Assert
		assert.Equal(suite.T(), StatusHealthy, response.Status)
		assert.Equal(suite.T(), "1.2.3", response.Version)
		assert.Empty(suite.T(), response.Checks)
	})

	suite.Run("DegradedChecker_ShouldDegrade", func() {
		// Arrange
		suite.hc.Register("db", &staticChecker{status: StatusHealthy})
		suite.hc.Register("cache", &staticChecker{status: StatusDegraded})

		// Act
		response := suite.hc.Check(context.Background())

		// Assert
		assert.Equal(suite.T(), StatusDegraded, response.Status)
		require.Len(suite.T(), response.Checks, 2)
		assert.Equal(suite.T(), "cache", response.Checks[0].Name)
		assert.Equal(suite.T(), "db", response.Checks[1].Name)
	})

	suite.Run("FailingPing_ShouldBeUnhealthy", func() {
		// Arrange
		suite.hc.Register("ai", CheckFunc(func(context.Context) error {
			return stderrors.New("connection refused")
		}))

		// Act
		response := suite.hc.Check(context.Background())

		// Assert
		assert.Equal(suite.T(), StatusUnhealthy, response.Status)
		assert.Equal(suite.T(), "connection refused", response.Checks[0].Message)
	})
}

func (suite *HealthCheckTestSuite) TestCheck_ShouldReuseCachedResponse() {
	// Arrange
	checker := &staticChecker{status: StatusHealthy}
	suite.hc.Register("db", checker)
	suite.hc.SetCacheTTL(time.Minute)

	// Act
	suite.hc.Check(context.Background())
	suite.hc.Check(context.Background())

	// Assert
	assert.Equal(suite.T(), 1, checker.calls)
}

func (suite *HealthCheckTestSuite) TestHandler() {
	suite.Run("Unhealthy_ShouldReturn503", func() {
		// Arrange
		suite.hc.Register("db", &staticChecker{status: StatusUnhealthy})
		rec := httptest.NewRecorder()

		// Act
		suite.hc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		assert.Equal(suite.T(), http.StatusServiceUnavailable, rec.Code)
		var body map[string]interface{}
		require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(suite.T(), "unhealthy", body["status"])
		assert.Contains(suite.T(), body, "total_duration_ms")
	})

	suite.Run("Liveness_ShouldAlwaysBeAlive", func() {
		// Arrange
		rec := httptest.NewRecorder()

		// Act
		suite.hc.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

		// Assert
		assert.Equal(suite.T(), http.StatusOK, rec.Code)
		assert.Contains(suite.T(), rec.Body.String(), `"status":"alive"`)
	})
}

func (suite *HealthCheckTestSuite) TestDatabaseChecker_ShouldPingSQLite() {
	// Arrange
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(suite.T(), err)

	// Act
	check := NewDatabaseChecker(db).Check(context.Background())

	// Assert
	assert.Equal(suite.T(), StatusHealthy, check.Status)
	assert.Contains(suite.T(), check.Metadata, "open_conns")
}

func (suite *HealthCheckTestSuite) TestRedisChecker_UnreachableServer_ShouldBeUnhealthy() {
	// Arrange
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	// Act
	check := NewRedisChecker(client).Check(context.Background())

	// Assert
	assert.Equal(suite.T(), StatusUnhealthy, check.Status)
	assert.NotEmpty(suite.T(), check.Message)
}

func TestHealthCheckTestSuite(t *testing.T) {
	suite.Run(t, new(HealthCheckTestSuite))
}

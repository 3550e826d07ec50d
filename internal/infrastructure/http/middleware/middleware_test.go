package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/security"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeObserver struct {
	requests []recordedRequest
}

func (f *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: status})
}

// MiddlewareTestSuite covers the API middleware chain
type MiddlewareTestSuite struct {
	suite.Suite
	tokens *security.TokenService
	ok     http.Handler
}

func (suite *MiddlewareTestSuite) SetupTest() {
	suite.tokens = security.NewTokenService(config.AuthConfig{
		JWTSecret:         "middleware-test-secret",
		JWTExpiration:     time.Hour,
		RefreshExpiration: 24 * time.Hour,
	}, zap.NewNop())
	suite.ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func (suite *MiddlewareTestSuite) serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func (suite *MiddlewareTestSuite) TestSecurity_ShouldSetHeaders() {
	// Act
	rec := suite.serve(Security()(suite.ok), httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	assert.Equal(suite.T(), "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(suite.T(), "DENY", rec.Header().Get("X-Frame-Options"))
}

func (suite *MiddlewareTestSuite) TestCORS() {
	suite.Run("AllowedOrigin_ShouldEchoOrigin", func() {
		// Arrange
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")

		// Act
		rec := suite.serve(CORS([]string{"https://app.example.com"})(suite.ok), req)

		// Assert
		assert.Equal(suite.T(), "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(suite.T(), http.StatusOK, rec.Code)
	})

	suite.Run("UnknownOrigin_ShouldNotSetHeader", func() {
		// Arrange
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")

		// Act
		rec := suite.serve(CORS([]string{"https://app.example.com"})(suite.ok), req)

		// Assert
		assert.Empty(suite.T(), rec.Header().Get("Access-Control-Allow-Origin"))
	})

	suite.Run("Preflight_ShouldShortCircuit", func() {
		// Arrange
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/recipes", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		// Act
		rec := suite.serve(CORS([]string{"*"})(suite.ok), req)

		// Assert
		assert.Equal(suite.T(), http.StatusNoContent, rec.Code)
		assert.Equal(suite.T(), "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func (suite *MiddlewareTestSuite) TestAuthenticate() {
	userID := uuid.New()
	var seen uuid.UUID
	var seenEmail string
	protected := Authenticate(suite.tokens, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		seenEmail, _ = UserEmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	suite.Run("ValidToken_ShouldInjectUser", func() {
		// Arrange
		pair, err := suite.tokens.IssueTokens(userID, "cook@example.com")
		require.NoError(suite.T(), err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)

		// Act
		rec := suite.serve(protected, req)

		// Assert
		assert.Equal(suite.T(), http.StatusOK, rec.Code)
		assert.Equal(suite.T(), userID, seen)
		assert.Equal(suite.T(), "cook@example.com", seenEmail)
	})

	suite.Run("MissingHeader_ShouldReturn401", func() {
		// Act
		rec := suite.serve(protected, httptest.NewRequest(http.MethodGet, "/", nil))

		// Assert
		assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
		assert.Contains(suite.T(), rec.Body.String(), `"code":"UNAUTHORIZED"`)
	})

	suite.Run("RefreshToken_ShouldReturn401", func() {
		// Arrange
		pair, err := suite.tokens.IssueTokens(userID, "cook@example.com")
		require.NoError(suite.T(), err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)

		// Act
		rec := suite.serve(protected, req)

		// Assert
		assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	})

	suite.Run("MalformedHeader_ShouldReturn401", func() {
		// Arrange
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")

		// Act
		rec := suite.serve(protected, req)

		// Assert
		assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	})
}

func (suite *MiddlewareTestSuite) TestRateLimiter() {
	suite.Run("OverBurst_ShouldReturn429", func() {
		// Arrange
		limiter := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 60, BurstSize: 2}, zap.NewNop())
		h := limiter.Handler(suite.ok)
		req := func(addr string) *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = addr
			return r
		}

		// Act
		first := suite.serve(h, req("10.0.0.1:1111"))
		second := suite.serve(h, req("10.0.0.1:2222"))
		third := suite.serve(h, req("10.0.0.1:3333"))
		other := suite.serve(h, req("10.0.0.2:1111"))

		// Assert
		assert.Equal(suite.T(), http.StatusOK, first.Code)
		assert.Equal(suite.T(), http.StatusOK, second.Code)
		assert.Equal(suite.T(), http.StatusTooManyRequests, third.Code)
		assert.Equal(suite.T(), "1", third.Header().Get("Retry-After"))
		assert.Equal(suite.T(), http.StatusOK, other.Code)
	})

	suite.Run("Cleanup_ShouldDropIdleVisitors", func() {
		// Arrange
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 60, BurstSize: 1, CleanupInterval: time.Minute}, zap.NewNop())
		limiter.now = func() time.Time { return now }
		limiter.Allow("10.0.0.1")
		now = now.Add(30 * time.Second)
		limiter.Allow("10.0.0.2")
		now = now.Add(45 * time.Second)

		// Act
		removed := limiter.Cleanup()

		// Assert
		assert.Equal(suite.T(), 1, removed)
		assert.Len(suite.T(), limiter.visitors, 1)
	})
}

func (suite *MiddlewareTestSuite) TestMetrics_ShouldReportRoutePattern() {
	// Arrange
	observer := &fakeObserver{}
	r := chi.NewRouter()
	r.Use(Metrics(observer))
	r.Get("/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	// Act
	suite.serve(r, httptest.NewRequest(http.MethodGet, "/recipes/42", nil))
	suite.serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	// Assert
	require.Len(suite.T(), observer.requests, 2)
	assert.Equal(suite.T(), recordedRequest{method: http.MethodGet, route: "/recipes/{id}", status: http.StatusTeapot}, observer.requests[0])
	assert.Equal(suite.T(), unmatchedRoute, observer.requests[1].route)
	assert.Equal(suite.T(), http.StatusNotFound, observer.requests[1].status)
}

func (suite *MiddlewareTestSuite) TestTracing_ShouldNameSpanAfterRoute() {
	// Arrange
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(previous)

	r := chi.NewRouter()
	r.Use(Tracing("recipebox-test"))
	r.Get("/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Act
	suite.serve(r, httptest.NewRequest(http.MethodGet, "/recipes/7", nil))

	// Assert
	spans := recorder.Ended()
	require.Len(suite.T(), spans, 1)
	assert.Equal(suite.T(), "GET /recipes/{id}", spans[0].Name())
}

func (suite *MiddlewareTestSuite) TestMaxBody_ShouldRejectLargeBodies() {
	// Arrange
	var readErr error
	h := MaxBody(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 16)
		_, readErr = r.Body.Read(buf)
		for readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
	}))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("more than four bytes"))

	// Act
	suite.serve(h, req)

	// Assert
	var maxErr *http.MaxBytesError
	assert.ErrorAs(suite.T(), readErr, &maxErr)
}

func TestMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareTestSuite))
}

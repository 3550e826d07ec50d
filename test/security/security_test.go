// Package security exercises the API's authentication and request hardening
package security

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	catalogapp "github.com/alchemorsel/recipebox/internal/application/catalog"
	collectionapp "github.com/alchemorsel/recipebox/internal/application/collection"
	"github.com/alchemorsel/recipebox/internal/application/matching"
	pantryapp "github.com/alchemorsel/recipebox/internal/application/pantry"
	recipeapp "github.com/alchemorsel/recipebox/internal/application/recipe"
	userapp "github.com/alchemorsel/recipebox/internal/application/user"
	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/apiserver"
	"github.com/alchemorsel/recipebox/internal/infrastructure/security"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/alchemorsel/recipebox/test/testutils"
)

const trustedOrigin = "https://trusted.example.com"

// SecurityTestSuite runs attack-style requests against the in-process API
type SecurityTestSuite struct {
	suite.Suite
	config *config.Config
	tokens *security.TokenService
	users  *testutils.UserStore
	http   *testutils.HTTPAssertions
}

func (suite *SecurityTestSuite) SetupTest() {
	cfg, err := config.Load("")
	require.NoError(suite.T(), err)
	cfg.Auth = config.AuthConfig{
		JWTSecret:         "test-secret-key-for-security-testing-must-be-32-bytes-long",
		JWTExpiration:     15 * time.Minute,
		RefreshExpiration: 24 * time.Hour,
		BCryptCost:        bcrypt.MinCost,
	}
	cfg.RateLimit.Enable = false
	cfg.Server.MaxBodyBytes = 512
	cfg.Server.AllowedOrigins = []string{trustedOrigin}

	suite.config = cfg
	suite.tokens = security.NewTokenService(cfg.Auth, zap.NewNop())
	suite.users = testutils.NewUserStore()
	suite.http = testutils.NewHTTPAssertions(suite.T())
}

func (suite *SecurityTestSuite) server() http.Handler {
	log := zap.NewNop()
	recipes := testutils.NewRecipeStore()
	pantryStore := testutils.NewPantryStore()
	ingredients := testutils.NewIngredientStore(recipes, pantryStore, testutils.CatalogEntries()...)
	cache := matching.NewCatalogCache(ingredients, nil, matching.CacheConfig{}, log)
	settings := matching.NewSettings(matching.DefaultThresholds())

	return apiserver.NewServer(suite.config, apiserver.Services{
		Recipes:     recipeapp.NewService(recipes, ingredients, cache, settings, nil, nil, log),
		Catalog:     catalogapp.NewService(ingredients, cache, settings, log),
		Collections: collectionapp.NewService(testutils.NewCollectionStore(), recipes, pantryStore, cache, log),
		Pantry:      pantryapp.NewService(pantryStore, recipes, ingredients, cache, settings, log),
		Users:       userapp.NewService(suite.users, suite.tokens, suite.config.Auth.BCryptCost, log),
	}, suite.tokens, apiserver.Options{}, log).Handler()
}

func (suite *SecurityTestSuite) send(h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its email, password and tokens
func (suite *SecurityTestSuite) register(h http.Handler) (string, string, map[string]interface{}) {
	email, password := testutils.FakeEmail(), testutils.FakePassword()
	rec := suite.send(h, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name": testutils.FakeName(), "email": email, "password": password,
	}, "")
	suite.http.StatusCode(rec, http.StatusCreated, rec.Body.String())

	rec = suite.send(h, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": password}, "")
	suite.http.StatusCode(rec, http.StatusOK, rec.Body.String())
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	suite.http.JSONResponse(rec, &body)
	return email, password, body.Data
}

func (suite *SecurityTestSuite) TestAuthentication() {
	h := suite.server()

	suite.Run("Login_InvalidCredentials_ShouldFail", func() {
		// Arrange
		email, _, _ := suite.register(h)

		// Act
		rec := suite.send(h, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": "wrongpassword"}, "")

		// Assert
		suite.http.StatusCode(rec, http.StatusUnauthorized)
		suite.http.ErrorCode(rec, errors.CodeInvalidCredentials)
	})

	suite.Run("TokenRefresh_ValidToken_ShouldSucceed", func() {
		// Arrange
		_, _, tokens := suite.register(h)

		// Act
		rec := suite.send(h, http.MethodPost, "/api/v1/auth/refresh", map[string]interface{}{"refresh_token": tokens["refresh_token"]}, "")

		// Assert
		suite.http.StatusCode(rec, http.StatusOK, rec.Body.String())
		assert.Contains(suite.T(), rec.Body.String(), `"access_token"`)
	})

	suite.Run("TokenRefresh_AccessToken_ShouldFail", func() {
		// Arrange
		_, _, tokens := suite.register(h)

		// Act
		rec := suite.send(h, http.MethodPost, "/api/v1/auth/refresh", map[string]interface{}{"refresh_token": tokens["access_token"]}, "")

		// Assert
		suite.http.StatusCode(rec, http.StatusUnauthorized)
	})

	suite.Run("Register_WeakPassword_ShouldFail", func() {
		// Act
		rec := suite.send(h, http.MethodPost, "/api/v1/auth/register", map[string]string{
			"name": "Weak Cook", "email": testutils.FakeEmail(), "password": "1234567",
		}, "")

		// Assert
		suite.http.StatusCode(rec, http.StatusUnprocessableEntity)
		suite.http.ErrorCode(rec, errors.CodeValidationFailed)
	})

	suite.Run("PasswordHashing_ShouldBeSecure", func() {
		// Arrange
		email, password, _ := suite.register(h)

		// Act
		stored, err := suite.users.FindByEmail(context.Background(), email)

		// Assert
		require.NoError(suite.T(), err)
		assert.NotEqual(suite.T(), password, stored.PasswordHash())
		assert.True(suite.T(), strings.HasPrefix(stored.PasswordHash(), "$2"))
		assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash()), []byte(password)))
	})
}

func (suite *SecurityTestSuite) TestAuthorization() {
	h := suite.server()

	suite.Run("ProtectedEndpoint_NoAuth_ShouldFail", func() {
		for _, path := range []string{"/api/v1/auth/profile", "/api/v1/pantry", "/api/v1/collections"} {
			// Act
			rec := suite.send(h, http.MethodGet, path, nil, "")

			// Assert
			suite.http.StatusCode(rec, http.StatusUnauthorized, path)
		}
	})

	suite.Run("TamperedToken_ShouldFail", func() {
		// Arrange
		_, _, tokens := suite.register(h)
		access := tokens["access_token"].(string)
		tampered := access[:len(access)-2] + "xx"

		// Act
		rec := suite.send(h, http.MethodGet, "/api/v1/auth/profile", nil, tampered)

		// Assert
		suite.http.StatusCode(rec, http.StatusUnauthorized)
	})

	suite.Run("ForeignSecret_ShouldFail", func() {
		// Arrange
		forger := security.NewTokenService(config.AuthConfig{
			JWTSecret:         "some-other-secret-of-reasonable-length",
			JWTExpiration:     time.Hour,
			RefreshExpiration: time.Hour,
		}, zap.NewNop())
		pair, err := forger.IssueTokens(uuid.New(), "forged@example.com")
		require.NoError(suite.T(), err)

		// Act
		rec := suite.send(h, http.MethodGet, "/api/v1/auth/profile", nil, pair.AccessToken)

		// Assert
		suite.http.StatusCode(rec, http.StatusUnauthorized)
	})
}

func (suite *SecurityTestSuite) TestInputValidation() {
	h := suite.server()

	suite.Run("SQLInjection_ShouldBeInert", func() {
		// Act
		rec := suite.send(h, http.MethodGet, "/api/v1/recipes/search?q=%27%3B+DROP+TABLE+recipes%3B+--", nil, "")

		// Assert
		suite.http.StatusCode(rec, http.StatusOK)
		assert.Contains(suite.T(), rec.Body.String(), `"total":0`)
	})

	suite.Run("OversizedPayload_ShouldBeRejected", func() {
		// Act
		rec := suite.send(h, http.MethodPost, "/api/v1/auth/register", map[string]string{
			"name": strings.Repeat("A", 4096), "email": "big@example.com", "password": "longenough",
		}, "")

		// Assert
		suite.http.StatusCode(rec, http.StatusBadRequest)
		assert.Contains(suite.T(), rec.Body.String(), "too large")
	})

	suite.Run("MalformedJSON_ShouldBeRejected", func() {
		// Arrange
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":`))
		rec := httptest.NewRecorder()

		// Act
		h.ServeHTTP(rec, req)

		// Assert
		suite.http.StatusCode(rec, http.StatusBadRequest)
		suite.http.ErrorCode(rec, errors.CodeBadRequest)
	})
}

func (suite *SecurityTestSuite) TestSecurityHeaders() {
	h := suite.server()

	suite.Run("AllResponses_ShouldIncludeSecurityHeaders", func() {
		for _, path := range []string{"/health", "/api/v1/recipes", "/api/v1/auth/profile", "/api/v1/missing"} {
			// Act
			rec := suite.send(h, http.MethodGet, path, nil, "")

			// Assert
			suite.http.SecurityHeaders(rec)
			assert.Contains(suite.T(), rec.Header().Get("Content-Security-Policy"), "default-src 'none'", path)
		}
	})

	suite.Run("CORSHeaders_ShouldBeRestrictive", func() {
		for origin, expected := range map[string]string{
			"https://malicious-site.com": "",
			trustedOrigin:                trustedOrigin,
		} {
			// Arrange
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/login", nil)
			req.Header.Set("Origin", origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()

			// Act
			h.ServeHTTP(rec, req)

			// Assert
			assert.Equal(suite.T(), expected, rec.Header().Get("Access-Control-Allow-Origin"), origin)
		}
	})
}

func (suite *SecurityTestSuite) TestRateLimiting_BruteForce_ShouldBeThrottled() {
	// Arrange
	suite.config.RateLimit = config.RateLimitConfig{Enable: true, RequestsPerMin: 60, BurstSize: 5, CleanupInterval: time.Minute}
	h := suite.server()
	login := map[string]string{"email": "victim@example.com", "password": "wrongpassword"}

	// Act
	unauthorized, limited := 0, 0
	for i := 0; i < 20; i++ {
		rec := suite.send(h, http.MethodPost, "/api/v1/auth/login", login, "")
		switch rec.Code {
		case http.StatusUnauthorized:
			unauthorized++
		case http.StatusTooManyRequests:
			limited++
			assert.NotEmpty(suite.T(), rec.Header().Get("Retry-After"))
		}
	}

	// Assert
	assert.Greater(suite.T(), limited, 0, "Should rate limit excessive requests")
	assert.LessOrEqual(suite.T(), unauthorized, 6, "Should not process all requests")
}

func TestSecurityTestSuite(t *testing.T) {
	suite.Run(t, new(SecurityTestSuite))
}

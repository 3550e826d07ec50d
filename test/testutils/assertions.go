// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/recipebox/pkg/errors"
)

// AssertErrorCode asserts that err is an AppError with the given code
func AssertErrorCode(t *testing.T, err error, code errors.ErrorCode, msgAndArgs ...interface{}) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	assert.Equal(t, code, errors.GetCode(err), msgAndArgs...)
}

// HTTPAssertions provides HTTP-specific assertion methods
type HTTPAssertions struct {
	t *testing.T
}

// NewHTTPAssertions creates a new HTTP assertions helper
func NewHTTPAssertions(t *testing.T) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// StatusCode asserts the recorded status code
func (ha *HTTPAssertions) StatusCode(rec *httptest.ResponseRecorder, expected int, msgAndArgs ...interface{}) {
	ha.t.Helper()
	assert.Equal(ha.t, expected, rec.Code, msgAndArgs...)
}

// JSONResponse asserts a JSON content type and decodes the body into target
func (ha *HTTPAssertions) JSONResponse(rec *httptest.ResponseRecorder, target interface{}) {
	ha.t.Helper()
	assert.Contains(ha.t, rec.Header().Get("Content-Type"), "application/json")
	require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), target), rec.Body.String())
}

// ErrorCode asserts that the response envelope carries the error code
func (ha *HTTPAssertions) ErrorCode(rec *httptest.ResponseRecorder, code errors.ErrorCode) {
	ha.t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   *struct {
			Code errors.ErrorCode `json:"code"`
		} `json:"error"`
	}
	ha.JSONResponse(rec, &body)
	assert.False(ha.t, body.Success)
	require.NotNil(ha.t, body.Error, rec.Body.String())
	assert.Equal(ha.t, code, body.Error.Code)
}

// SecurityHeaders asserts the standard security headers are present
func (ha *HTTPAssertions) SecurityHeaders(rec *httptest.ResponseRecorder) {
	ha.t.Helper()
	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}
	for name, value := range headers {
		assert.Equal(ha.t, value, rec.Header().Get(name), "header %s", name)
	}
}

// StatusIn asserts the status is one of the given codes
func StatusIn(t *testing.T, rec *httptest.ResponseRecorder, codes ...int) {
	t.Helper()
	for _, c := range codes {
		if rec.Code == c {
			return
		}
	}
	assert.Failf(t, "unexpected status", "got %d (%s), want one of %v", rec.Code, http.StatusText(rec.Code), codes)
}

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.AIConfig{
		BaseURL: server.URL + "/",
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 2 * time.Second,
	}, zap.NewNop())
}

func TestComplete_ShouldReturnFirstChoice(t *testing.T) {
	// Arrange
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"Soup\"}"}}],"usage":{"total_tokens":42}}`))
	})

	// Act
	out, err := client.Complete(context.Background(), "parse this", 512, 0.2)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Soup"}`, out)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 512, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "parse this", got.Messages[1].Content)
}

func TestComplete_ErrorStatusShouldFail(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	})

	// Act
	_, err := client.Complete(context.Background(), "parse this", 64, 0)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestComplete_ServerErrorShouldFailOnFirstAttempt(t *testing.T) {
	// Arrange
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	// Act
	_, err := client.Complete(context.Background(), "p", 16, 0)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestComplete_NoChoicesShouldFail(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	// Act
	_, err := client.Complete(context.Background(), "p", 16, 0)

	// Assert
	assert.ErrorContains(t, err, "no choices")
}

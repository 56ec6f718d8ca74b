package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazelcreek/fable-engine/internal/services"
	"github.com/hazelcreek/fable-engine/internal/storage"
)

func TestHealthHealthy(t *testing.T) {
	h := NewHealthHandler(storage.NewMockStorage(), services.NewMockLLM(), "test-model", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "fable-engine", resp.Service)
	assert.Equal(t, "healthy", resp.Components["storage"])
	assert.Equal(t, "healthy", resp.Components["llm"])
}

func TestHealthDegraded(t *testing.T) {
	t.Run("storage down", func(t *testing.T) {
		st := storage.NewMockStorage()
		st.PingFunc = func(ctx context.Context) error { return errors.New("redis down") }
		h := NewHealthHandler(st, services.NewMockLLM(), "test-model", testLogger())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unhealthy", resp.Components["storage"])
	})

	t.Run("model not ready", func(t *testing.T) {
		llm := services.NewMockLLM()
		llm.IsModelReadyFunc = func(ctx context.Context, modelName string) (bool, error) { return false, nil }
		h := NewHealthHandler(storage.NewMockStorage(), llm, "test-model", testLogger())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unhealthy", resp.Components["llm"])
	})
}

func TestHealthMethodNotAllowed(t *testing.T) {
	h := NewHealthHandler(storage.NewMockStorage(), services.NewMockLLM(), "test-model", testLogger())

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

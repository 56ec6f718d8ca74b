package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazelcreek/fable-engine/internal/storage"
	"github.com/hazelcreek/fable-engine/pkg/world"
)

func newTestWorldsHandler(t *testing.T) *WorldsHandler {
	t.Helper()
	w, err := world.Load([]byte(testWorldYAML))
	require.NoError(t, err)

	st := storage.NewMockStorage()
	st.Worlds[w.Name] = "test_manor.yaml"
	st.Loaded["test_manor.yaml"] = w
	return NewWorldsHandler(testLogger(), st)
}

func TestListWorlds(t *testing.T) {
	h := newTestWorldsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/worlds", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var worlds map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &worlds))
	assert.Equal(t, map[string]string{"Test Manor": "test_manor.yaml"}, worlds)
}

func TestGetWorld(t *testing.T) {
	h := newTestWorldsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/worlds/test_manor.yaml", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var w world.World
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &w))
	assert.Equal(t, "Test Manor", w.Name)
	assert.Equal(t, "hall", w.Start)
}

func TestGetWorldErrors(t *testing.T) {
	h := newTestWorldsHandler(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "not found", path: "/v1/worlds/missing.yaml", want: http.StatusNotFound},
		{name: "path traversal", path: "/v1/worlds/..%2Fsecrets.yaml", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestWorldsMethodNotAllowed(t *testing.T) {
	h := newTestWorldsHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/worlds", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

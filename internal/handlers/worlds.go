package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hazelcreek/fable-engine/internal/storage"
)

// WorldsHandler serves the world catalog: GET /v1/worlds lists
// name -> filename, GET /v1/worlds/{filename} returns one world graph.
type WorldsHandler struct {
	logger  *slog.Logger
	storage storage.Storage
}

func NewWorldsHandler(logger *slog.Logger, st storage.Storage) *WorldsHandler {
	return &WorldsHandler{logger: logger, storage: st}
}

func (h *WorldsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/v1/worlds")
	filename = strings.Trim(filename, "/")

	if filename == "" {
		h.handleList(w, r)
		return
	}
	h.handleGet(w, r, filename)
}

func (h *WorldsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	worlds, err := h.storage.ListWorlds(r.Context())
	if err != nil {
		h.logger.Error("Failed to list worlds", "error", err)
		http.Error(w, "Failed to list worlds", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, worlds)
}

func (h *WorldsHandler) handleGet(w http.ResponseWriter, r *http.Request, filename string) {
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	wld, err := h.storage.GetWorld(r.Context(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrWorldNotFound) {
			http.Error(w, "World not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get world", "error", err, "filename", filename)
		http.Error(w, "Failed to retrieve world", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, wld)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

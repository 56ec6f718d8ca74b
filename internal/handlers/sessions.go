package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hazelcreek/fable-engine/internal/services"
	"github.com/hazelcreek/fable-engine/internal/storage"
	"github.com/hazelcreek/fable-engine/pkg/engine"
	"github.com/hazelcreek/fable-engine/pkg/narrator"
	"github.com/hazelcreek/fable-engine/pkg/parser"
	"github.com/hazelcreek/fable-engine/pkg/state"
	"github.com/hazelcreek/fable-engine/pkg/world"
)

// CreateSessionRequest starts a new session against a world file.
type CreateSessionRequest struct {
	World string `json:"world"` // world filename, e.g. "blackbriar_manor.yaml"
}

// TurnRequest is one player input.
type TurnRequest struct {
	Message string `json:"message"`
}

func (tr *TurnRequest) Validate() error {
	if strings.TrimSpace(tr.Message) == "" {
		return errors.New("message cannot be empty")
	}
	return nil
}

// TurnResponse returns the turn outcome alongside the session id.
type TurnResponse struct {
	SessionID uuid.UUID          `json:"session_id"`
	Result    *engine.TurnResult `json:"result"`
	TurnCount int                `json:"turn_count"`
	Status    string             `json:"status"`
}

// SessionsHandler owns the /v1/sessions surface: session lifecycle,
// turn processing, and the debug inspect query.
type SessionsHandler struct {
	logger  *slog.Logger
	storage storage.Storage
	llm     services.LLMService

	mu     sync.RWMutex
	worlds map[string]*world.World // filename -> loaded graph
}

func NewSessionsHandler(logger *slog.Logger, st storage.Storage, llm services.LLMService) *SessionsHandler {
	return &SessionsHandler{
		logger:  logger,
		storage: st,
		llm:     llm,
		worlds:  make(map[string]*world.World),
	}
}

func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case rest == "" && r.Method == http.MethodPost:
		h.handleCreate(w, r)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleGet(w, r, parts[0])
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleDelete(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "turn" && r.Method == http.MethodPost:
		h.handleTurn(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "inspect" && r.Method == http.MethodGet:
		h.handleInspect(w, r, parts[0])
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SessionsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.World == "" || strings.Contains(req.World, "..") || strings.Contains(req.World, "/") {
		http.Error(w, "A valid world filename is required", http.StatusBadRequest)
		return
	}

	wld, err := h.worldFor(r, req.World)
	if err != nil {
		if errors.Is(err, storage.ErrWorldNotFound) {
			http.Error(w, "World not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to load world", "error", err, "world", req.World)
		http.Error(w, "Failed to load world", http.StatusInternalServerError)
		return
	}

	gs := state.NewGameState(wld)
	gs.WorldFile = req.World
	if wld.OpeningLine != "" {
		gs.PushNarration(state.Narration{
			Location:  gs.Location,
			EventType: "opening",
			Text:      wld.OpeningLine,
		})
	}
	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		h.logger.Error("Failed to save new session", "error", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Session created", "session_id", gs.ID, "world", wld.Name)
	writeJSON(w, http.StatusCreated, gs)
}

func (h *SessionsHandler) handleGet(w http.ResponseWriter, r *http.Request, rawID string) {
	gs, ok := h.loadSession(w, r, rawID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

func (h *SessionsHandler) handleDelete(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		http.Error(w, "Invalid session id", http.StatusBadRequest)
		return
	}
	if err := h.storage.DeleteGameState(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "error", err, "session_id", id)
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionsHandler) handleTurn(w http.ResponseWriter, r *http.Request, rawID string) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	gs, ok := h.loadSession(w, r, rawID)
	if !ok {
		return
	}

	wld, err := h.worldFor(r, gs.WorldFile)
	if err != nil {
		h.logger.Error("Failed to load session world", "error", err, "world", gs.WorldFile)
		http.Error(w, "Failed to load session world", http.StatusInternalServerError)
		return
	}

	eng := h.engineFor(wld)
	result, err := eng.ProcessTurn(r.Context(), gs, req.Message)
	if err != nil {
		h.logger.Error("Turn processing failed", "error", err, "session_id", gs.ID)
		http.Error(w, "Turn processing failed", http.StatusInternalServerError)
		return
	}

	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		h.logger.Error("Failed to persist session after turn", "error", err, "session_id", gs.ID)
		http.Error(w, "Failed to persist session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, TurnResponse{
		SessionID: gs.ID,
		Result:    result,
		TurnCount: gs.TurnCount,
		Status:    gs.Status,
	})
}

func (h *SessionsHandler) handleInspect(w http.ResponseWriter, r *http.Request, rawID string) {
	gs, ok := h.loadSession(w, r, rawID)
	if !ok {
		return
	}
	wld, err := h.worldFor(r, gs.WorldFile)
	if err != nil {
		h.logger.Error("Failed to load session world", "error", err, "world", gs.WorldFile)
		http.Error(w, "Failed to load session world", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.engineFor(wld).Inspect(gs))
}

// loadSession parses the id and fetches the session, writing the
// appropriate error response when it can't.
func (h *SessionsHandler) loadSession(w http.ResponseWriter, r *http.Request, rawID string) (*state.GameState, bool) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		http.Error(w, "Invalid session id", http.StatusBadRequest)
		return nil, false
	}
	gs, err := h.storage.LoadGameState(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "session_id", id)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return nil, false
	}
	if gs == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return gs, true
}

// worldFor returns the loaded world graph for a filename, caching it.
// World content is immutable per process, so the cache never
// invalidates.
func (h *SessionsHandler) worldFor(r *http.Request, filename string) (*world.World, error) {
	h.mu.RLock()
	wld, ok := h.worlds[filename]
	h.mu.RUnlock()
	if ok {
		return wld, nil
	}

	wld, err := h.storage.GetWorld(r.Context(), filename)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.worlds[filename] = wld
	h.mu.Unlock()
	return wld, nil
}

// engineFor assembles the turn pipeline for a world. The pieces are
// small stateless structs; building them per request is fine.
func (h *SessionsHandler) engineFor(wld *world.World) *engine.Engine {
	p := parser.New(parser.NewLLMInteractor(h.llm, h.logger), h.logger)
	n := narrator.New(h.llm, wld.Rating, h.logger)
	return engine.New(wld, p, n, h.logger)
}

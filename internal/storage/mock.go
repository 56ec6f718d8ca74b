package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hazelcreek/fable-engine/pkg/state"
	"github.com/hazelcreek/fable-engine/pkg/world"
)

// MockStorage is an in-memory Storage for handler tests.
type MockStorage struct {
	PingFunc     func(ctx context.Context) error
	GetWorldFunc func(ctx context.Context, filename string) (*world.World, error)

	Worlds map[string]string       // world name -> filename
	Loaded map[string]*world.World // filename -> world

	mu       sync.Mutex
	sessions map[uuid.UUID]*state.GameState
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		Worlds:   make(map[string]string),
		Loaded:   make(map[string]*world.World),
		sessions: make(map[uuid.UUID]*state.GameState),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockStorage) Close() error { return nil }

func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = gs.Clone()
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gs, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return gs.Clone(), nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockStorage) ListWorlds(ctx context.Context) (map[string]string, error) {
	return m.Worlds, nil
}

func (m *MockStorage) GetWorld(ctx context.Context, filename string) (*world.World, error) {
	if m.GetWorldFunc != nil {
		return m.GetWorldFunc(ctx, filename)
	}
	if w, ok := m.Loaded[filename]; ok {
		return w, nil
	}
	return nil, ErrWorldNotFound
}

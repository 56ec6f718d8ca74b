package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/hazelcreek/fable-engine/pkg/state"
	"github.com/hazelcreek/fable-engine/pkg/world"
)

// Storage is the session/world persistence boundary: session state in
// a TTL'd working store, world content on the filesystem. Sessions are
// not durable saves; an expired session is simply gone.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	// Session state (working store).
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	// World content (filesystem-backed, read-only).
	ListWorlds(ctx context.Context) (map[string]string, error)
	GetWorld(ctx context.Context, filename string) (*world.World, error)
}

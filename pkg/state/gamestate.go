package state

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/hazelcreek/fable-engine/pkg/world"
)

// Session status values. A terminal status halts intent processing.
const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusLost    = "lost"
)

// NarrationHistoryLimit bounds the rolling narration history. The
// history only steers prose variety; it never affects mechanics.
const NarrationHistoryLimit = 5

// Narration is one past narration, kept for prompt context.
type Narration struct {
	Location  string `json:"location"`
	Turn      int    `json:"turn"`
	EventType string `json:"event_type"`
	Text      string `json:"text"`
}

// GameState is the mutable state of one play session. It is created
// from a world's starting conditions, mutated once per turn by the
// executor, and owned exclusively by its session.
type GameState struct {
	ID        uuid.UUID `json:"id"`
	WorldName string    `json:"world_name"`
	WorldFile string    `json:"world_file,omitempty"` // filename the API layer loads the world from

	Location        string              `json:"location"`
	Inventory       []string            `json:"inventory,omitempty"`
	Flags           map[string]bool     `json:"flags,omitempty"`
	Trust           map[string]int      `json:"trust,omitempty"`            // npc id -> trust score
	ContainerStates map[string]bool     `json:"container_states,omitempty"` // container item id -> is open
	LocationItems   map[string][]string `json:"location_items,omitempty"`   // location id -> item ids present
	ContainerItems  map[string][]string `json:"container_items,omitempty"`  // container id -> item ids held
	SeenItems       map[string]bool     `json:"seen_items,omitempty"`       // items whose found text has been shown
	Visited         map[string]bool     `json:"visited,omitempty"`
	TurnCount       int                 `json:"turn_count"`
	History         []Narration         `json:"history,omitempty"`
	Status          string              `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGameState seeds session state from a world's starting conditions.
func NewGameState(w *world.World) *GameState {
	gs := &GameState{
		ID:              uuid.New(),
		WorldName:       w.Name,
		Location:        w.Start,
		Inventory:       make([]string, 0),
		Flags:           make(map[string]bool),
		Trust:           make(map[string]int),
		ContainerStates: make(map[string]bool),
		LocationItems:   make(map[string][]string),
		ContainerItems:  make(map[string][]string),
		SeenItems:       make(map[string]bool),
		Visited:         map[string]bool{w.Start: true},
		Status:          StatusPlaying,
		CreatedAt:       time.Now().UTC(),
	}

	for id, loc := range w.Locations {
		gs.LocationItems[id] = slices.Clone(loc.Items)
	}
	for id, item := range w.Items {
		if item.Container == nil {
			continue
		}
		gs.ContainerItems[id] = slices.Clone(item.Container.Contains)
		gs.ContainerStates[id] = item.Container.StartsOpen
	}
	return gs
}

// HasItem reports whether the item is in the player's inventory.
func (gs *GameState) HasItem(itemID string) bool {
	return slices.Contains(gs.Inventory, itemID)
}

// ItemsAt returns the items currently present at a location.
func (gs *GameState) ItemsAt(locationID string) []string {
	return gs.LocationItems[locationID]
}

// ItemAt reports whether the item is currently present at the location,
// either loose or inside one of the location's containers.
func (gs *GameState) ItemAt(locationID, itemID string) bool {
	if slices.Contains(gs.LocationItems[locationID], itemID) {
		return true
	}
	for _, containerID := range gs.LocationItems[locationID] {
		if slices.Contains(gs.ContainerItems[containerID], itemID) {
			return true
		}
	}
	return false
}

// ContainerHolding returns the container at the location that holds
// the item, if any.
func (gs *GameState) ContainerHolding(locationID, itemID string) (string, bool) {
	for _, containerID := range gs.LocationItems[locationID] {
		if slices.Contains(gs.ContainerItems[containerID], itemID) {
			return containerID, true
		}
	}
	return "", false
}

// TakeItem moves an item from the current location (or an open
// container there) into inventory. Exclusivity holds by construction:
// the item is removed from its source before being added.
func (gs *GameState) TakeItem(itemID string) {
	if gs.HasItem(itemID) {
		return
	}
	loc := gs.Location
	if idx := slices.Index(gs.LocationItems[loc], itemID); idx >= 0 {
		gs.LocationItems[loc] = slices.Delete(gs.LocationItems[loc], idx, idx+1)
	} else if containerID, ok := gs.ContainerHolding(loc, itemID); ok {
		idx := slices.Index(gs.ContainerItems[containerID], itemID)
		gs.ContainerItems[containerID] = slices.Delete(gs.ContainerItems[containerID], idx, idx+1)
	}
	gs.Inventory = append(gs.Inventory, itemID)
}

// DropItem moves an item from inventory to the current location.
func (gs *GameState) DropItem(itemID string) {
	idx := slices.Index(gs.Inventory, itemID)
	if idx < 0 {
		return
	}
	gs.Inventory = slices.Delete(gs.Inventory, idx, idx+1)
	loc := gs.Location
	if !slices.Contains(gs.LocationItems[loc], itemID) {
		gs.LocationItems[loc] = append(gs.LocationItems[loc], itemID)
	}
}

// IsOpen reports whether a container is currently open.
func (gs *GameState) IsOpen(containerID string) bool {
	return gs.ContainerStates[containerID]
}

// PushNarration appends to the rolling history, evicting the oldest
// entry past the limit.
func (gs *GameState) PushNarration(n Narration) {
	gs.History = append(gs.History, n)
	if len(gs.History) > NarrationHistoryLimit {
		gs.History = gs.History[len(gs.History)-NarrationHistoryLimit:]
	}
}

// IsEnded reports whether the session reached a terminal status.
func (gs *GameState) IsEnded() bool {
	return gs.Status == StatusWon || gs.Status == StatusLost
}

// Clone returns a deep copy. Used by the engine to guarantee rejected
// turns leave state untouched, and by tests to diff before/after.
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.Inventory = slices.Clone(gs.Inventory)
	cp.Flags = cloneMap(gs.Flags)
	cp.Trust = cloneMap(gs.Trust)
	cp.ContainerStates = cloneMap(gs.ContainerStates)
	cp.SeenItems = cloneMap(gs.SeenItems)
	cp.Visited = cloneMap(gs.Visited)
	cp.History = slices.Clone(gs.History)
	cp.LocationItems = make(map[string][]string, len(gs.LocationItems))
	for k, v := range gs.LocationItems {
		cp.LocationItems[k] = slices.Clone(v)
	}
	cp.ContainerItems = make(map[string][]string, len(gs.ContainerItems))
	for k, v := range gs.ContainerItems {
		cp.ContainerItems[k] = slices.Clone(v)
	}
	return &cp
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	cp := make(map[K]V, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

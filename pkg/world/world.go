package world

// World is the immutable content graph for one adventure. It is loaded
// once per process and shared read-only across sessions; nothing in the
// engine mutates it after LoadFile returns.
type World struct {
	Name        string               `yaml:"name" json:"name"`
	Synopsis    string               `yaml:"synopsis,omitempty" json:"synopsis,omitempty"`
	Rating      string               `yaml:"rating,omitempty" json:"rating,omitempty"` // e.g. "G", "PG13"
	Start       string               `yaml:"start" json:"start"`                       // starting location id
	OpeningLine string               `yaml:"opening_line,omitempty" json:"opening_line,omitempty"`
	Locations   map[string]*Location `yaml:"locations" json:"locations"`
	Items       map[string]*Item     `yaml:"items,omitempty" json:"items,omitempty"`
	NPCs        map[string]*NPC      `yaml:"npcs,omitempty" json:"npcs,omitempty"`
	Victory     *Victory             `yaml:"victory,omitempty" json:"victory,omitempty"`
}

// Location is a place in the world with exits and local content.
type Location struct {
	ID           string                  `yaml:"-" json:"id"` // set from the map key at load time
	Name         string                  `yaml:"name" json:"name"`
	Atmosphere   string                  `yaml:"atmosphere,omitempty" json:"atmosphere,omitempty"`
	Exits        map[string]Exit         `yaml:"exits,omitempty" json:"exits,omitempty"`                 // direction -> exit
	BlockedExits map[string]string       `yaml:"blocked_exits,omitempty" json:"blocked_exits,omitempty"` // direction -> reason
	Items        []string                `yaml:"items,omitempty" json:"items,omitempty"`
	NPCs         []string                `yaml:"npcs,omitempty" json:"npcs,omitempty"`
	Interactions map[string]*Interaction `yaml:"interactions,omitempty" json:"interactions,omitempty"`
	Details      map[string]string       `yaml:"details,omitempty" json:"details,omitempty"` // topic -> free text
}

// Exit connects a location to a destination, optionally gated.
type Exit struct {
	To          string       `yaml:"to" json:"to"`
	LockedUntil string       `yaml:"locked_until,omitempty" json:"locked_until,omitempty"` // flag that unlocks this exit
	Requires    *Requirement `yaml:"requires,omitempty" json:"requires,omitempty"`         // destination access requirement
}

// Requirement gates an exit or interaction on a flag, an inventory
// item, or both.
type Requirement struct {
	Flag string `yaml:"flag,omitempty" json:"flag,omitempty"`
	Item string `yaml:"item,omitempty" json:"item,omitempty"`
}

// Item is an object the player can perceive and, if portable, carry.
type Item struct {
	ID           string     `yaml:"-" json:"id"`
	Name         string     `yaml:"name" json:"name"`
	Portable     bool       `yaml:"portable,omitempty" json:"portable,omitempty"`
	Examine      string     `yaml:"examine,omitempty" json:"examine,omitempty"`
	Found        string     `yaml:"found,omitempty" json:"found,omitempty"`               // shown on first discovery
	RequiresFlag string     `yaml:"requires_flag,omitempty" json:"requires_flag,omitempty"` // hidden until this flag is set
	Container    *Container `yaml:"container,omitempty" json:"container,omitempty"`
}

// Container marks an item as holding other items. Contents are only
// perceivable while the container is open.
type Container struct {
	Contains   []string `yaml:"contains,omitempty" json:"contains,omitempty"`
	StartsOpen bool     `yaml:"starts_open,omitempty" json:"starts_open,omitempty"`
}

// IsContainer reports whether the item has container semantics.
func (i *Item) IsContainer() bool {
	return i.Container != nil
}

// NPC is a non-player character. Its effective location is derived
// from DefaultLocation and the ordered LocationChanges rules.
type NPC struct {
	ID              string         `yaml:"-" json:"id"`
	Name            string         `yaml:"name" json:"name"`
	Role            string         `yaml:"role,omitempty" json:"role,omitempty"` // e.g. "butler", "merchant"
	DefaultLocation string         `yaml:"location" json:"location"`
	AppearsWhen     []Condition    `yaml:"appears_when,omitempty" json:"appears_when,omitempty"`
	LocationChanges []LocationRule `yaml:"location_changes,omitempty" json:"location_changes,omitempty"`
	Topics          map[string]string `yaml:"topics,omitempty" json:"topics,omitempty"` // topic -> what the NPC says
}

// Condition is a single appears_when clause. Exactly one of Flag or
// MinTrust is expected to be set. All conditions on an NPC must hold.
type Condition struct {
	Flag     string `yaml:"flag,omitempty" json:"flag,omitempty"`
	Value    *bool  `yaml:"value,omitempty" json:"value,omitempty"` // nil means true
	MinTrust *int   `yaml:"min_trust,omitempty" json:"min_trust,omitempty"`
}

// Want returns the flag value the condition requires.
func (c Condition) Want() bool {
	if c.Value == nil {
		return true
	}
	return *c.Value
}

// LocationRule moves an NPC when its flag is set. Rules are evaluated
// strictly in declared order and the last matching rule wins. A nil To
// removes the NPC from the game.
type LocationRule struct {
	Flag string  `yaml:"flag" json:"flag"`
	To   *string `yaml:"to" json:"to"`
}

// CurrentLocation derives the NPC's effective location from session
// flags. The second return is false when a matched rule removed the
// NPC from the game.
func (n *NPC) CurrentLocation(flags map[string]bool) (string, bool) {
	loc := n.DefaultLocation
	present := true
	for _, rule := range n.LocationChanges {
		if !flags[rule.Flag] {
			continue
		}
		if rule.To == nil {
			loc = ""
			present = false
		} else {
			loc = *rule.To
			present = true
		}
	}
	return loc, present
}

// Interaction is a world-authored use-action: trigger phrases, an
// optional precondition, and the flags it sets when performed.
type Interaction struct {
	ID          string          `yaml:"-" json:"id"`
	Phrases     []string        `yaml:"phrases" json:"phrases"`
	Requires    *Requirement    `yaml:"requires,omitempty" json:"requires,omitempty"`
	Sets        map[string]bool `yaml:"sets,omitempty" json:"sets,omitempty"`
	GrantsTrust map[string]int  `yaml:"grants_trust,omitempty" json:"grants_trust,omitempty"` // npc id -> delta
	Hint        string          `yaml:"hint,omitempty" json:"hint,omitempty"`                  // narrative hint for the narrator
}

// Victory is the win condition. All set fields must hold at once.
type Victory struct {
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
	Flag     string `yaml:"flag,omitempty" json:"flag,omitempty"`
	Item     string `yaml:"item,omitempty" json:"item,omitempty"`
}

// Location returns the location with the given id.
func (w *World) Location(id string) (*Location, bool) {
	loc, ok := w.Locations[id]
	return loc, ok
}

// Item returns the item with the given id.
func (w *World) Item(id string) (*Item, bool) {
	item, ok := w.Items[id]
	return item, ok
}

// NPC returns the NPC with the given id.
func (w *World) NPC(id string) (*NPC, bool) {
	npc, ok := w.NPCs[id]
	return npc, ok
}

// ContainerOf returns the id of the container holding the given item,
// if any.
func (w *World) ContainerOf(itemID string) (string, bool) {
	for id, item := range w.Items {
		if item.Container == nil {
			continue
		}
		for _, held := range item.Container.Contains {
			if held == itemID {
				return id, true
			}
		}
	}
	return "", false
}

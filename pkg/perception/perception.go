// Package perception derives what the player can currently perceive
// from the immutable world graph plus mutable session state. Resolve
// is side-effect-free and idempotent: the same inputs always produce
// an identical snapshot, which is what makes the parser, validators,
// and narrator testable against it.
package perception

import (
	"sort"

	"github.com/hazelcreek/fable-engine/pkg/state"
	"github.com/hazelcreek/fable-engine/pkg/world"
)

// Reason explains a visibility or accessibility decision.
type Reason string

const (
	ReasonVisible         Reason = "visible"
	ReasonCarried         Reason = "carried"
	ReasonHiddenFlagUnset Reason = "hidden_flag_unset"
	ReasonInsideClosed    Reason = "inside_closed_container"
	ReasonAccessible      Reason = "accessible"
	ReasonExitLocked      Reason = "exit_locked"
	ReasonExitBlocked     Reason = "exit_blocked"
	ReasonRequirement     Reason = "requirement_unsatisfied"
	ReasonNPCElsewhere    Reason = "npc_elsewhere"
	ReasonNPCRemoved      Reason = "npc_removed"
	ReasonConditionUnmet  Reason = "appears_when_unmet"
)

// Entity is one perceivable (or deliberately hidden) item or NPC.
type Entity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"` // "item" or "npc"
	Brief   string `json:"brief,omitempty"`
	Visible bool   `json:"visible"`
	Reason  Reason `json:"reason"`
}

// ExitInfo is one exit direction and whether it can be used.
type ExitInfo struct {
	Direction  string `json:"direction"`
	To         string `json:"to,omitempty"` // empty for narratively blocked non-exits
	Accessible bool   `json:"accessible"`
	Reason     Reason `json:"reason"`
}

// Snapshot is the computed perception for the player's current
// location. The debug form carries every entity with its reason; use
// Filtered for the player-facing view.
type Snapshot struct {
	Location     string     `json:"location"`
	LocationName string     `json:"location_name"`
	Atmosphere   string     `json:"atmosphere,omitempty"`
	Items        []Entity   `json:"items,omitempty"`
	NPCs         []Entity   `json:"npcs,omitempty"`
	Exits        []ExitInfo `json:"exits,omitempty"`
	Inventory    []Entity   `json:"inventory,omitempty"`
	Topics       []string   `json:"topics,omitempty"` // detail topics authored for this location
}

// Resolve computes the full (debug) snapshot for the current location.
func Resolve(w *world.World, gs *state.GameState) Snapshot {
	snap := Snapshot{Location: gs.Location}

	loc, ok := w.Location(gs.Location)
	if !ok {
		// A session can only get here through a corrupted state blob;
		// return an empty snapshot rather than inventing a location.
		return snap
	}
	snap.LocationName = loc.Name
	snap.Atmosphere = loc.Atmosphere

	snap.Items = resolveItems(w, gs, loc)
	snap.NPCs = resolveNPCs(w, gs)
	snap.Exits = resolveExits(gs, loc)
	snap.Inventory = resolveInventory(w, gs)

	for topic := range loc.Details {
		snap.Topics = append(snap.Topics, topic)
	}
	sort.Strings(snap.Topics)

	return snap
}

func resolveItems(w *world.World, gs *state.GameState, loc *world.Location) []Entity {
	var items []Entity

	add := func(itemID string, visible bool, reason Reason) {
		item, ok := w.Item(itemID)
		if !ok {
			return
		}
		items = append(items, Entity{
			ID:      itemID,
			Name:    item.Name,
			Kind:    "item",
			Brief:   item.Examine,
			Visible: visible,
			Reason:  reason,
		})
	}

	for _, itemID := range gs.ItemsAt(loc.ID) {
		item, ok := w.Item(itemID)
		if !ok {
			continue
		}
		if item.RequiresFlag != "" && !gs.Flags[item.RequiresFlag] {
			add(itemID, false, ReasonHiddenFlagUnset)
			continue
		}
		add(itemID, true, ReasonVisible)

		// Container contents are perceivable only while open.
		if item.IsContainer() {
			open := gs.IsOpen(itemID)
			for _, held := range gs.ContainerItems[itemID] {
				heldItem, ok := w.Item(held)
				if !ok {
					continue
				}
				switch {
				case !open:
					add(held, false, ReasonInsideClosed)
				case heldItem.RequiresFlag != "" && !gs.Flags[heldItem.RequiresFlag]:
					add(held, false, ReasonHiddenFlagUnset)
				default:
					add(held, true, ReasonVisible)
				}
			}
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func resolveNPCs(w *world.World, gs *state.GameState) []Entity {
	var npcs []Entity
	for id, npc := range w.NPCs {
		loc, present := npc.CurrentLocation(gs.Flags)
		entity := Entity{ID: id, Name: npc.Name, Kind: "npc", Brief: npc.Role}
		switch {
		case !present:
			entity.Reason = ReasonNPCRemoved
		case loc != gs.Location:
			entity.Reason = ReasonNPCElsewhere
		case !conditionsHold(npc.AppearsWhen, gs):
			entity.Reason = ReasonConditionUnmet
		default:
			entity.Visible = true
			entity.Reason = ReasonVisible
		}
		npcs = append(npcs, entity)
	}
	sort.Slice(npcs, func(i, j int) bool { return npcs[i].ID < npcs[j].ID })
	return npcs
}

// conditionsHold evaluates an appears_when list. Conditions are
// conjunctive; there is deliberately no disjunction.
func conditionsHold(conds []world.Condition, gs *state.GameState) bool {
	for _, cond := range conds {
		if cond.Flag != "" && gs.Flags[cond.Flag] != cond.Want() {
			return false
		}
		if cond.MinTrust != nil {
			total := 0
			for _, v := range gs.Trust {
				total += v
			}
			if total < *cond.MinTrust {
				return false
			}
		}
	}
	return true
}

func resolveExits(gs *state.GameState, loc *world.Location) []ExitInfo {
	var exits []ExitInfo
	for dir, exit := range loc.Exits {
		info := ExitInfo{Direction: dir, To: exit.To}
		switch {
		case exit.LockedUntil != "" && !gs.Flags[exit.LockedUntil]:
			info.Reason = ReasonExitLocked
		case exit.Requires != nil && !requirementMet(exit.Requires, gs):
			info.Reason = ReasonRequirement
		default:
			info.Accessible = true
			info.Reason = ReasonAccessible
		}
		exits = append(exits, info)
	}
	for dir := range loc.BlockedExits {
		exits = append(exits, ExitInfo{Direction: dir, Reason: ReasonExitBlocked})
	}
	sort.Slice(exits, func(i, j int) bool { return exits[i].Direction < exits[j].Direction })
	return exits
}

func requirementMet(req *world.Requirement, gs *state.GameState) bool {
	if req.Flag != "" && !gs.Flags[req.Flag] {
		return false
	}
	if req.Item != "" && !gs.HasItem(req.Item) {
		return false
	}
	return true
}

func resolveInventory(w *world.World, gs *state.GameState) []Entity {
	var carried []Entity
	for _, itemID := range gs.Inventory {
		item, ok := w.Item(itemID)
		if !ok {
			continue
		}
		carried = append(carried, Entity{
			ID:      itemID,
			Name:    item.Name,
			Kind:    "item",
			Brief:   item.Examine,
			Visible: true,
			Reason:  ReasonCarried,
		})
	}
	return carried
}

// Filtered returns the player-facing snapshot: only visible entities
// and accessible exits. This is the view handed to the parser's
// interactor and to the narrator.
func (s Snapshot) Filtered() Snapshot {
	out := Snapshot{
		Location:     s.Location,
		LocationName: s.LocationName,
		Atmosphere:   s.Atmosphere,
		Inventory:    s.Inventory,
		Topics:       s.Topics,
	}
	for _, e := range s.Items {
		if e.Visible {
			out.Items = append(out.Items, e)
		}
	}
	for _, e := range s.NPCs {
		if e.Visible {
			out.NPCs = append(out.NPCs, e)
		}
	}
	for _, x := range s.Exits {
		if x.Accessible {
			out.Exits = append(out.Exits, x)
		}
	}
	return out
}

// CandidateIDs is the set of entity ids the interactor may resolve a
// target to: visible items and NPCs plus carried items.
func (s Snapshot) CandidateIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, e := range s.Items {
		if e.Visible {
			ids[e.ID] = true
		}
	}
	for _, e := range s.NPCs {
		if e.Visible {
			ids[e.ID] = true
		}
	}
	for _, e := range s.Inventory {
		ids[e.ID] = true
	}
	return ids
}

// VisibleItem reports whether the item is visible at the current
// location (not carried).
func (s Snapshot) VisibleItem(itemID string) bool {
	for _, e := range s.Items {
		if e.ID == itemID {
			return e.Visible
		}
	}
	return false
}

// VisibleNPC reports whether the NPC is visible at the current location.
func (s Snapshot) VisibleNPC(npcID string) bool {
	for _, e := range s.NPCs {
		if e.ID == npcID {
			return e.Visible
		}
	}
	return false
}

// Exit returns the exit info for a direction.
func (s Snapshot) Exit(direction string) (ExitInfo, bool) {
	for _, x := range s.Exits {
		if x.Direction == direction {
			return x, true
		}
	}
	return ExitInfo{}, false
}

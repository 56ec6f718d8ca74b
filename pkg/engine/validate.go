package engine

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hazelcreek/fable-engine/pkg/action"
	"github.com/hazelcreek/fable-engine/pkg/perception"
	"github.com/hazelcreek/fable-engine/pkg/state"
	"github.com/hazelcreek/fable-engine/pkg/world"
)

// ValidationResult either authorizes execution (OK with context) or
// carries a structured rejection. Validators never mutate state;
// mutation is strictly the executor's job.
type ValidationResult struct {
	OK     bool
	Code   action.RejectionCode
	Reason string

	// Execution context for valid results.
	Destination string             // move: resolved destination id
	FirstVisit  bool               // move: destination not yet visited
	Interaction *world.Interaction // use: matched interaction
}

func valid() ValidationResult {
	return ValidationResult{OK: true}
}

func invalid(code action.RejectionCode, format string, args ...any) ValidationResult {
	return ValidationResult{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Validate dispatches to the per-category validator. Each validator is
// a pure function of (intent, world, state, snapshot).
func Validate(intent action.Intent, w *world.World, gs *state.GameState, snap perception.Snapshot) ValidationResult {
	switch intent.Kind {
	case action.IntentMove:
		return validateMove(intent, w, gs, snap)
	case action.IntentBrowse, action.IntentWait, action.IntentFlavor:
		return valid()
	case action.IntentExamine:
		return validateExamine(intent, w, gs, snap)
	case action.IntentTake:
		return validateTake(intent, w, gs, snap)
	case action.IntentDrop:
		return validateDrop(intent, gs)
	case action.IntentUse:
		return validateUse(intent, w, gs)
	case action.IntentOpen, action.IntentClose:
		return validateOpenClose(intent, w, gs, snap)
	case action.IntentTalk:
		return validateTalk(intent, snap)
	case action.IntentGive:
		return validateGive(intent, gs, snap)
	case action.IntentSearch:
		return validateSearch(intent, gs, snap)
	default:
		return invalid(action.RejectUnknownTarget, "no interpretation for that action")
	}
}

func validateMove(intent action.Intent, w *world.World, gs *state.GameState, snap perception.Snapshot) ValidationResult {
	loc, ok := w.Location(gs.Location)
	if !ok {
		return invalid(action.RejectNoExit, "nowhere to go from here")
	}

	if reason, blocked := loc.BlockedExits[intent.Direction]; blocked {
		return invalid(action.RejectExitBlocked, "%s", reason)
	}

	exit, ok := loc.Exits[intent.Direction]
	if !ok {
		return invalid(action.RejectNoExit, "there is no way %s from %s", intent.Direction, loc.Name)
	}
	if exit.LockedUntil != "" && !gs.Flags[exit.LockedUntil] {
		return invalid(action.RejectExitLocked, "the way %s is locked", intent.Direction)
	}
	if info, found := snap.Exit(intent.Direction); found && !info.Accessible && info.Reason == perception.ReasonRequirement {
		return invalid(action.RejectPreconditionFailed, "something still bars the way %s", intent.Direction)
	}

	return ValidationResult{
		OK:          true,
		Destination: exit.To,
		FirstVisit:  !gs.Visited[exit.To],
	}
}

func validateExamine(intent action.Intent, w *world.World, gs *state.GameState, snap perception.Snapshot) ValidationResult {
	if intent.TargetID == "" {
		loc, _ := w.Location(gs.Location)
		if intent.Topic != "" && loc != nil {
			if _, ok := loc.Details[intent.Topic]; ok {
				return valid()
			}
		}
		return invalid(action.RejectUnknownTarget, "nothing like that to examine here")
	}

	if gs.HasItem(intent.TargetID) || snap.VisibleItem(intent.TargetID) || snap.VisibleNPC(intent.TargetID) {
		// A carried id must still resolve in the graph; a session saved
		// against older content can hold ids the world no longer defines.
		if _, ok := w.Item(intent.TargetID); ok {
			return valid()
		}
		if _, ok := w.NPC(intent.TargetID); ok {
			return valid()
		}
		return invalid(action.RejectUnknownTarget, "nothing is known about that")
	}
	if gs.ItemAt(gs.Location, intent.TargetID) {
		return invalid(action.RejectItemNotVisible, "it is not in view")
	}
	return invalid(action.RejectItemNotHere, "there is no sign of that here")
}

func validateTake(intent action.Intent, w *world.World, gs *state.GameState, snap perception.Snapshot) ValidationResult {
	item, ok := w.Item(intent.TargetID)
	if !ok {
		return invalid(action.RejectItemNotHere, "there is no sign of that here")
	}
	if gs.HasItem(intent.TargetID) {
		return invalid(action.RejectAlreadyHave, "the %s is already carried", item.Name)
	}
	if !gs.ItemAt(gs.Location, intent.TargetID) {
		return invalid(action.RejectItemNotHere, "the %s is not here", item.Name)
	}
	if !snap.VisibleItem(intent.TargetID) {
		return invalid(action.RejectItemNotVisible, "the %s is not in view", item.Name)
	}
	if !item.Portable {
		return invalid(action.RejectItemNotPortable, "the %s cannot be carried", item.Name)
	}
	return valid()
}

func validateDrop(intent action.Intent, gs *state.GameState) ValidationResult {
	if !gs.HasItem(intent.TargetID) {
		return invalid(action.RejectNotCarried, "that is not being carried")
	}
	return valid()
}

// validateUse matches the raw input (and the resolved target) against
// the current location's authored interactions. Trigger phrases are
// matched case-insensitively as substrings of the player's text.
func validateUse(intent action.Intent, w *world.World, gs *state.GameState) ValidationResult {
	loc, ok := w.Location(gs.Location)
	if !ok || len(loc.Interactions) == 0 {
		return invalid(action.RejectNothingHappens, "nothing comes of it")
	}

	interaction := matchInteraction(loc, intent)
	if interaction == nil {
		return invalid(action.RejectNothingHappens, "nothing comes of it")
	}
	if req := interaction.Requires; req != nil {
		if req.Flag != "" && !gs.Flags[req.Flag] {
			return invalid(action.RejectPreconditionFailed, "the moment is not right for that")
		}
		if req.Item != "" && !gs.HasItem(req.Item) {
			return invalid(action.RejectPreconditionFailed, "something needed for that is missing")
		}
	}
	return ValidationResult{OK: true, Interaction: interaction}
}

// matchInteraction checks interactions in sorted id order so that a
// player phrase matching more than one is resolved the same way every
// turn.
func matchInteraction(loc *world.Location, intent action.Intent) *world.Interaction {
	raw := strings.ToLower(intent.Raw)
	for _, id := range slices.Sorted(maps.Keys(loc.Interactions)) {
		interaction := loc.Interactions[id]
		for _, phrase := range interaction.Phrases {
			p := strings.ToLower(phrase)
			if strings.Contains(raw, p) {
				return interaction
			}
			// Also accept a phrase that names the resolved target id.
			if intent.TargetID != "" && strings.Contains(p, intent.TargetID) {
				return interaction
			}
		}
	}
	return nil
}

func validateOpenClose(intent action.Intent, w *world.World, gs *state.GameState, snap perception.Snapshot) ValidationResult {
	item, ok := w.Item(intent.TargetID)
	if !ok {
		return invalid(action.RejectItemNotHere, "there is no sign of that here")
	}
	if !snap.VisibleItem(intent.TargetID) && !gs.HasItem(intent.TargetID) {
		return invalid(action.RejectItemNotHere, "the %s is not here", item.Name)
	}
	if !item.IsContainer() {
		return invalid(action.RejectNotAContainer, "the %s does not open", item.Name)
	}
	open := gs.IsOpen(intent.TargetID)
	if intent.Kind == action.IntentOpen && open {
		return invalid(action.RejectAlreadyOpen, "the %s is already open", item.Name)
	}
	if intent.Kind == action.IntentClose && !open {
		return invalid(action.RejectAlreadyClosed, "the %s is already closed", item.Name)
	}
	return valid()
}

func validateTalk(intent action.Intent, snap perception.Snapshot) ValidationResult {
	if !snap.VisibleNPC(intent.TargetID) {
		return invalid(action.RejectNPCNotPresent, "no one like that is here")
	}
	return valid()
}

func validateGive(intent action.Intent, gs *state.GameState, snap perception.Snapshot) ValidationResult {
	if !snap.VisibleNPC(intent.TargetID) {
		return invalid(action.RejectNPCNotPresent, "no one like that is here")
	}
	if intent.ItemID == "" || !gs.HasItem(intent.ItemID) {
		return invalid(action.RejectNotCarried, "that is not being carried")
	}
	return valid()
}

func validateSearch(intent action.Intent, gs *state.GameState, snap perception.Snapshot) ValidationResult {
	if intent.TargetID == "" {
		// Searching the room at large is always allowed.
		return valid()
	}
	if snap.VisibleItem(intent.TargetID) || gs.HasItem(intent.TargetID) {
		return valid()
	}
	return invalid(action.RejectItemNotHere, "there is no sign of that here")
}

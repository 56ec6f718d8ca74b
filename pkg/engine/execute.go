package engine

import (
	"maps"
	"slices"

	"github.com/hazelcreek/fable-engine/pkg/action"
	"github.com/hazelcreek/fable-engine/pkg/state"
	"github.com/hazelcreek/fable-engine/pkg/world"
)

// Execute applies exactly the state change the validation authorized
// and returns the resulting events: a primary event plus any cascading
// secondaries (items revealed by opening a container, flags set by an
// interaction, victory). Only called with an OK result.
func Execute(intent action.Intent, vr ValidationResult, w *world.World, gs *state.GameState) []action.Event {
	var events []action.Event

	switch intent.Kind {
	case action.IntentMove:
		events = executeMove(vr, gs)
	case action.IntentBrowse:
		events = []action.Event{{Type: action.EventSceneBrowsed, To: gs.Location}}
	case action.IntentExamine:
		events = executeExamine(intent, w, gs)
	case action.IntentTake:
		events = executeTake(intent, w, gs)
	case action.IntentDrop:
		gs.DropItem(intent.TargetID)
		events = []action.Event{{Type: action.EventItemDropped, ItemID: intent.TargetID, To: gs.Location}}
	case action.IntentOpen:
		events = executeOpen(intent, w, gs)
	case action.IntentClose:
		gs.ContainerStates[intent.TargetID] = false
		events = []action.Event{{Type: action.EventContainerClosed, ContainerID: intent.TargetID}}
	case action.IntentUse:
		events = executeInteraction(vr.Interaction, gs)
	case action.IntentTalk:
		events = executeTalk(intent, w)
	case action.IntentGive:
		events = executeGive(intent, gs)
	case action.IntentSearch:
		events = executeSearch(intent, w, gs)
	case action.IntentWait:
		events = []action.Event{{Type: action.EventWaited}}
	case action.IntentFlavor:
		// No mutation by contract.
		events = []action.Event{{
			Type:       action.EventFlavorAction,
			Raw:        intent.Raw,
			ActionHint: intent.ActionHint,
		}}
	}

	if won := checkVictory(w, gs); won {
		events = append(events, action.Event{Type: action.EventVictoryAchieved, To: gs.Location})
	}
	return events
}

func executeMove(vr ValidationResult, gs *state.GameState) []action.Event {
	from := gs.Location
	gs.Location = vr.Destination
	gs.Visited[vr.Destination] = true
	return []action.Event{{
		Type:       action.EventLocationChanged,
		From:       from,
		To:         vr.Destination,
		FirstVisit: vr.FirstVisit,
	}}
}

func executeExamine(intent action.Intent, w *world.World, gs *state.GameState) []action.Event {
	if intent.TargetID == "" {
		loc, _ := w.Location(gs.Location)
		return []action.Event{{
			Type:  action.EventDetailExamined,
			Topic: intent.Topic,
			Text:  loc.Details[intent.Topic],
		}}
	}

	if npc, ok := w.NPC(intent.TargetID); ok {
		return []action.Event{{
			Type:  action.EventNPCConversation,
			NPCID: intent.TargetID,
			Text:  npc.Role,
		}}
	}

	item, ok := w.Item(intent.TargetID)
	if !ok {
		// Validation rejects ids the graph does not define, but a stale
		// session can still slip one through the search path.
		return []action.Event{{Type: action.EventItemExamined, ItemID: intent.TargetID}}
	}
	text := item.Examine
	if !gs.SeenItems[intent.TargetID] && item.Found != "" {
		text = item.Found
		gs.SeenItems[intent.TargetID] = true
	}
	return []action.Event{{Type: action.EventItemExamined, ItemID: intent.TargetID, Text: text}}
}

func executeTake(intent action.Intent, w *world.World, gs *state.GameState) []action.Event {
	gs.TakeItem(intent.TargetID)
	item, _ := w.Item(intent.TargetID)
	ev := action.Event{Type: action.EventItemTaken, ItemID: intent.TargetID}
	if !gs.SeenItems[intent.TargetID] {
		ev.Text = item.Found
		gs.SeenItems[intent.TargetID] = true
	}
	return []action.Event{ev}
}

func executeOpen(intent action.Intent, w *world.World, gs *state.GameState) []action.Event {
	gs.ContainerStates[intent.TargetID] = true
	events := []action.Event{{Type: action.EventContainerOpened, ContainerID: intent.TargetID}}

	// Opening reveals every held item whose own visibility condition
	// already holds.
	for _, held := range gs.ContainerItems[intent.TargetID] {
		item, ok := w.Item(held)
		if !ok {
			continue
		}
		if item.RequiresFlag != "" && !gs.Flags[item.RequiresFlag] {
			continue
		}
		events = append(events, action.Event{
			Type:        action.EventItemRevealed,
			ItemID:      held,
			ContainerID: intent.TargetID,
			Text:        item.Found,
		})
	}
	return events
}

func executeInteraction(interaction *world.Interaction, gs *state.GameState) []action.Event {
	// Maps are walked in sorted key order so repeated turns emit the
	// same event sequence.
	var events []action.Event
	for _, flag := range slices.Sorted(maps.Keys(interaction.Sets)) {
		value := interaction.Sets[flag]
		if gs.Flags[flag] == value {
			continue
		}
		gs.Flags[flag] = value
		events = append(events, action.Event{
			Type:      action.EventFlagSet,
			Flag:      flag,
			FlagValue: value,
			Text:      interaction.Hint,
		})
	}
	for _, npcID := range slices.Sorted(maps.Keys(interaction.GrantsTrust)) {
		delta := interaction.GrantsTrust[npcID]
		if delta == 0 {
			continue
		}
		gs.Trust[npcID] += delta
		events = append(events, action.Event{
			Type:       action.EventTrustChanged,
			NPCID:      npcID,
			TrustDelta: delta,
		})
	}
	if len(events) == 0 {
		// Repeating an interaction whose flags are already set still
		// narrates, it just changes nothing.
		events = append(events, action.Event{Type: action.EventFlavorAction, ActionHint: interaction.Hint})
	}
	return events
}

func executeTalk(intent action.Intent, w *world.World) []action.Event {
	npc, _ := w.NPC(intent.TargetID)
	ev := action.Event{Type: action.EventNPCConversation, NPCID: intent.TargetID, Topic: intent.Topic}
	if npc != nil && intent.Topic != "" {
		ev.Text = npc.Topics[intent.Topic]
	}
	return []action.Event{ev}
}

func executeGive(intent action.Intent, gs *state.GameState) []action.Event {
	// The item passes out of play; story consequences are authored as
	// interactions keyed on the same action.
	idx := -1
	for i, itemID := range gs.Inventory {
		if itemID == intent.ItemID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		gs.Inventory = append(gs.Inventory[:idx], gs.Inventory[idx+1:]...)
	}
	return []action.Event{{Type: action.EventItemGiven, ItemID: intent.ItemID, NPCID: intent.TargetID}}
}

func executeSearch(intent action.Intent, w *world.World, gs *state.GameState) []action.Event {
	// Searching a closed container opens it; searching anything else
	// reads as a close examination.
	if intent.TargetID != "" {
		if item, ok := w.Item(intent.TargetID); ok && item.IsContainer() && !gs.IsOpen(intent.TargetID) {
			return executeOpen(action.Intent{Kind: action.IntentOpen, TargetID: intent.TargetID}, w, gs)
		}
		return executeExamine(intent, w, gs)
	}
	return []action.Event{{Type: action.EventSceneBrowsed, To: gs.Location}}
}

// checkVictory transitions the session to won when the world's victory
// condition holds. All set fields are conjunctive.
func checkVictory(w *world.World, gs *state.GameState) bool {
	v := w.Victory
	if v == nil || gs.Status != state.StatusPlaying {
		return false
	}
	if v.Location != "" && gs.Location != v.Location {
		return false
	}
	if v.Flag != "" && !gs.Flags[v.Flag] {
		return false
	}
	if v.Item != "" && !gs.HasItem(v.Item) {
		return false
	}
	gs.Status = state.StatusWon
	return true
}

package narrator

import (
	"fmt"
	"strings"

	"github.com/hazelcreek/fable-engine/pkg/action"
	"github.com/hazelcreek/fable-engine/pkg/chat"
	"github.com/hazelcreek/fable-engine/pkg/perception"
	"github.com/hazelcreek/fable-engine/pkg/state"
)

// Builder assembles the narrator's chat messages with a fluent
// interface, keeping prompt construction separate from the model call.
type Builder struct {
	events  []action.Event
	snap    perception.Snapshot
	history []state.Narration
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) WithEvents(events []action.Event) *Builder {
	b.events = events
	return b
}

func (b *Builder) WithSnapshot(snap perception.Snapshot) *Builder {
	b.snap = snap
	return b
}

func (b *Builder) WithHistory(history []state.Narration) *Builder {
	b.history = history
	return b
}

// Build produces the message array for the completion call: system
// contract, authorial context (scene, events, history), then the
// narration request.
func (b *Builder) Build() ([]chat.Message, error) {
	if len(b.events) == 0 {
		return nil, fmt.Errorf("no events to narrate")
	}

	var sb strings.Builder
	sb.WriteString(SystemPrompt)
	sb.WriteString("\n\n")
	b.writeScene(&sb)
	b.writeEvents(&sb)
	b.writeHistory(&sb)

	return []chat.Message{
		{Role: chat.RoleSystem, Content: sb.String()},
		{Role: chat.RoleUser, Content: "Narrate this turn."},
	}, nil
}

func (b *Builder) writeScene(sb *strings.Builder) {
	fmt.Fprintf(sb, "Scene: %s\n", b.snap.LocationName)
	if b.snap.Atmosphere != "" {
		fmt.Fprintf(sb, "Atmosphere: %s\n", b.snap.Atmosphere)
	}

	if len(b.snap.Items) > 0 {
		var names []string
		for _, e := range b.snap.Items {
			names = append(names, e.Name)
		}
		fmt.Fprintf(sb, "Visible objects: %s\n", strings.Join(names, ", "))
	}
	if len(b.snap.NPCs) > 0 {
		var names []string
		for _, e := range b.snap.NPCs {
			if e.Brief != "" {
				names = append(names, e.Name+" ("+e.Brief+")")
			} else {
				names = append(names, e.Name)
			}
		}
		fmt.Fprintf(sb, "Present characters: %s\n", strings.Join(names, ", "))
	}
	if len(b.snap.Exits) > 0 {
		var dirs []string
		for _, x := range b.snap.Exits {
			dirs = append(dirs, x.Direction)
		}
		fmt.Fprintf(sb, "Open ways: %s\n", strings.Join(dirs, ", "))
	}
	if len(b.snap.Inventory) > 0 {
		var names []string
		for _, e := range b.snap.Inventory {
			names = append(names, e.Name)
		}
		fmt.Fprintf(sb, "Carried: %s\n", strings.Join(names, ", "))
	}
}

func (b *Builder) writeEvents(sb *strings.Builder) {
	sb.WriteString("\nWhat happened this turn:\n")
	for _, ev := range b.events {
		sb.WriteString("- " + describeEvent(ev) + "\n")
	}
	for _, ev := range b.events {
		switch ev.Type {
		case action.EventActionRejected:
			sb.WriteString("\nGuidance: " + GuidanceFor(ev.Code) + "\n")
		case action.EventFlavorAction:
			sb.WriteString("\n" + FlavorPrompt + "\n")
			if ev.ActionHint != "" {
				sb.WriteString("Attempted action: " + ev.ActionHint + "\n")
			}
		}
	}
}

func (b *Builder) writeHistory(sb *strings.Builder) {
	if len(b.history) == 0 {
		return
	}
	sb.WriteString("\nRecent narration (avoid repeating yourself):\n")
	for _, n := range b.history {
		excerpt := n.Text
		if len(excerpt) > 160 {
			excerpt = excerpt[:160] + "…"
		}
		sb.WriteString("- " + excerpt + "\n")
	}
}

// describeEvent renders one event as a factual line for the prompt.
func describeEvent(ev action.Event) string {
	switch ev.Type {
	case action.EventLocationChanged:
		if ev.FirstVisit {
			return fmt.Sprintf("The player arrives at %s for the first time.", ev.To)
		}
		return fmt.Sprintf("The player returns to %s.", ev.To)
	case action.EventSceneBrowsed:
		return "The player surveys the scene."
	case action.EventItemExamined:
		return fmt.Sprintf("The player examines %s. Authored description: %s", ev.ItemID, ev.Text)
	case action.EventDetailExamined:
		return fmt.Sprintf("The player considers %s. Authored description: %s", ev.Topic, ev.Text)
	case action.EventItemTaken:
		if ev.Text != "" {
			return fmt.Sprintf("The player takes %s. Discovery note: %s", ev.ItemID, ev.Text)
		}
		return fmt.Sprintf("The player takes %s.", ev.ItemID)
	case action.EventItemDropped:
		return fmt.Sprintf("The player sets down %s.", ev.ItemID)
	case action.EventContainerOpened:
		return fmt.Sprintf("The player opens %s.", ev.ContainerID)
	case action.EventContainerClosed:
		return fmt.Sprintf("The player closes %s.", ev.ContainerID)
	case action.EventItemRevealed:
		if ev.Text != "" {
			return fmt.Sprintf("Inside is revealed: %s. Discovery note: %s", ev.ItemID, ev.Text)
		}
		return fmt.Sprintf("Inside is revealed: %s.", ev.ItemID)
	case action.EventFlagSet:
		if ev.Text != "" {
			return "Something shifts in the world: " + ev.Text
		}
		return "Something shifts in the world."
	case action.EventTrustChanged:
		if ev.TrustDelta < 0 {
			return fmt.Sprintf("%s cools toward the player.", ev.NPCID)
		}
		return fmt.Sprintf("%s warms toward the player.", ev.NPCID)
	case action.EventNPCConversation:
		if ev.Text != "" {
			return fmt.Sprintf("The player speaks with %s about %s. The reply covers: %s", ev.NPCID, ev.Topic, ev.Text)
		}
		return fmt.Sprintf("The player speaks with %s.", ev.NPCID)
	case action.EventItemGiven:
		return fmt.Sprintf("The player gives %s to %s.", ev.ItemID, ev.NPCID)
	case action.EventActionRejected:
		return "The attempt fails: " + ev.Reason
	case action.EventVictoryAchieved:
		return "The story's goal is fulfilled. This is the triumphant final narration."
	case action.EventWaited:
		return "The player waits; time passes."
	case action.EventFlavorAction:
		return "The player tries: " + ev.Raw
	default:
		return string(ev.Type)
	}
}

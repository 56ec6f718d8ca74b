package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazelcreek/fable-engine/pkg/action"
	"github.com/hazelcreek/fable-engine/pkg/chat"
	"github.com/hazelcreek/fable-engine/pkg/perception"
)

// Completer is the narrow slice of the LLM service the interactor
// needs. internal/services.LLMService satisfies it.
type Completer interface {
	Chat(ctx context.Context, messages []chat.Message) (*chat.Response, error)
}

// Interactor resolves fuzzy player phrasing against the entities the
// player currently perceives.
type Interactor interface {
	Resolve(ctx context.Context, raw string, snap perception.Snapshot) (action.Intent, error)
}

// LLMInteractor implements Interactor with a model call. Its output
// target id, when present, must be one of the ids offered in the
// snapshot; anything outside that set is treated as a resolution
// failure and downgraded to a flavor intent.
type LLMInteractor struct {
	llm    Completer
	logger *slog.Logger
}

// NewLLMInteractor builds an interactor over a completion service.
func NewLLMInteractor(llm Completer, logger *slog.Logger) *LLMInteractor {
	return &LLMInteractor{llm: llm, logger: logger}
}

const interactorSystemPrompt = `You translate a player's text-adventure command into a structured action.
You are given the entities the player can currently perceive, the player's inventory, and the available exits.
Respond with ONLY a JSON object, no prose, in this shape:
{"verb":"<one of: move, examine, take, drop, use, open, close, talk, give, search, flavor>","target_id":"<entity id or empty>","instrument_id":"<item id or empty>","topic":"<topic or empty>","direction":"<exit direction or empty>","ambiguous":false,"hint":"<short hint when ambiguous or unresolvable>"}
Rules:
- target_id and instrument_id MUST come from the candidate ids listed. Never invent an id.
- If several candidates plausibly match, set ambiguous to true and describe the choices in hint.
- If the command has no clean mechanical reading, use verb "flavor" and summarize the attempted action in hint.`

// interactorReply is the JSON shape the model is asked for.
type interactorReply struct {
	Verb         string `json:"verb"`
	TargetID     string `json:"target_id"`
	InstrumentID string `json:"instrument_id"`
	Topic        string `json:"topic"`
	Direction    string `json:"direction"`
	Ambiguous    bool   `json:"ambiguous"`
	Hint         string `json:"hint"`
}

var verbKinds = map[string]action.IntentKind{
	"move":    action.IntentMove,
	"examine": action.IntentExamine,
	"take":    action.IntentTake,
	"drop":    action.IntentDrop,
	"use":     action.IntentUse,
	"open":    action.IntentOpen,
	"close":   action.IntentClose,
	"talk":    action.IntentTalk,
	"give":    action.IntentGive,
	"search":  action.IntentSearch,
	"flavor":  action.IntentFlavor,
}

// Resolve asks the model to map raw text onto a candidate entity.
// It returns an error only when the model call itself fails; malformed
// or out-of-set output degrades to a flavor intent locally.
func (in *LLMInteractor) Resolve(ctx context.Context, raw string, snap perception.Snapshot) (action.Intent, error) {
	messages := []chat.Message{
		{Role: chat.RoleSystem, Content: interactorSystemPrompt + "\n\n" + describeCandidates(snap)},
		{Role: chat.RoleUser, Content: raw},
	}

	resp, err := in.llm.Chat(ctx, messages)
	if err != nil {
		return action.Intent{}, fmt.Errorf("interactor model call failed: %w", err)
	}

	reply, err := parseReply(resp.Text)
	if err != nil {
		in.logger.Warn("Interactor returned unparseable output", "error", err, "output", resp.Text)
		return action.Flavor(raw, "", ""), nil
	}

	return in.toIntent(raw, reply, snap), nil
}

// toIntent converts a model reply into an intent, enforcing the id
// containment contract.
func (in *LLMInteractor) toIntent(raw string, reply *interactorReply, snap perception.Snapshot) action.Intent {
	kind, known := verbKinds[strings.ToLower(reply.Verb)]
	if !known {
		return action.Flavor(raw, reply.Verb, "")
	}
	if reply.Ambiguous {
		// Surface the ambiguity to the narrator instead of guessing.
		return action.Flavor(raw, reply.Hint, reply.TargetID)
	}
	if kind == action.IntentFlavor {
		return action.Flavor(raw, reply.Hint, "")
	}

	if kind == action.IntentMove {
		if _, ok := snap.Exit(reply.Direction); !ok {
			return action.Flavor(raw, "move "+reply.Direction, "")
		}
		return action.Intent{Kind: action.IntentMove, Direction: reply.Direction, Raw: raw}
	}

	candidates := snap.CandidateIDs()

	// Examine with a bare topic needs no entity target.
	if kind == action.IntentExamine && reply.TargetID == "" && reply.Topic != "" {
		return action.Intent{Kind: kind, Topic: reply.Topic, Raw: raw}
	}

	if reply.TargetID == "" || !candidates[reply.TargetID] {
		in.logger.Debug("Interactor target outside candidate set",
			"target", reply.TargetID, "verb", reply.Verb)
		return action.Flavor(raw, reply.Verb, reply.TargetID)
	}
	if reply.InstrumentID != "" && !candidates[reply.InstrumentID] {
		return action.Flavor(raw, reply.Verb, reply.InstrumentID)
	}

	intent := action.Intent{Kind: kind, TargetID: reply.TargetID, Raw: raw, Topic: reply.Topic}
	switch kind {
	case action.IntentUse:
		intent.Instrument = reply.InstrumentID
	case action.IntentGive:
		// target is the recipient NPC; the item rides in ItemID
		intent.ItemID = reply.InstrumentID
	}
	return intent
}

// describeCandidates renders the resolution lookup table offered to
// the model.
func describeCandidates(snap perception.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("Current location: " + snap.LocationName + "\n")

	sb.WriteString("Candidate entities (id | kind | name):\n")
	for _, e := range snap.Items {
		if e.Visible {
			fmt.Fprintf(&sb, "- %s | item | %s\n", e.ID, e.Name)
		}
	}
	for _, e := range snap.NPCs {
		if e.Visible {
			fmt.Fprintf(&sb, "- %s | npc | %s\n", e.ID, e.Name)
		}
	}

	sb.WriteString("Player inventory (id | name):\n")
	for _, e := range snap.Inventory {
		fmt.Fprintf(&sb, "- %s | %s\n", e.ID, e.Name)
	}

	sb.WriteString("Exits: ")
	var dirs []string
	for _, x := range snap.Exits {
		if x.Accessible {
			dirs = append(dirs, x.Direction)
		}
	}
	sb.WriteString(strings.Join(dirs, ", "))

	if len(snap.Topics) > 0 {
		sb.WriteString("\nExaminable topics: " + strings.Join(snap.Topics, ", "))
	}
	return sb.String()
}

// parseReply extracts the JSON object from model output, tolerating
// code fences and surrounding prose.
func parseReply(text string) (*interactorReply, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in interactor output")
	}

	var reply interactorReply
	if err := json.Unmarshal([]byte(text[start:end+1]), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse interactor output: %w", err)
	}
	return &reply, nil
}

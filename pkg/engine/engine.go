// Package engine ties the per-turn pipeline together: parse, validate,
// execute, narrate. A turn either fully completes or degrades to a
// templated line; no error escapes ProcessTurn and no model failure
// can corrupt mechanical state.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"unicode"

	"github.com/hazelcreek/fable-engine/pkg/action"
	"github.com/hazelcreek/fable-engine/pkg/perception"
	"github.com/hazelcreek/fable-engine/pkg/state"
	"github.com/hazelcreek/fable-engine/pkg/world"
)

// Narrator renders a turn's events as prose. Implementations call an
// external model; the engine treats their output as untrusted
// decoration and falls back to a templated line on failure.
type Narrator interface {
	Narrate(ctx context.Context, events []action.Event, snap perception.Snapshot, history []state.Narration) (string, error)
}

// TurnParser is the parsing strategy the engine drives. Satisfied by
// parser.Parser.
type TurnParser interface {
	Parse(ctx context.Context, raw string, snap perception.Snapshot) action.Intent
}

// TurnResult is everything a turn produced.
type TurnResult struct {
	Intent    action.Intent       `json:"intent"`
	Events    []action.Event      `json:"events"`
	Narration string              `json:"narration"`
	Snapshot  perception.Snapshot `json:"snapshot"` // filtered, post-mutation
	Terminal  bool                `json:"terminal"`
}

const gameEndedLine = "The story has ended. Start a new session to play again."

type Engine struct {
	world    *world.World
	parser   TurnParser
	narrator Narrator
	logger   *slog.Logger
}

func New(w *world.World, p TurnParser, n Narrator, logger *slog.Logger) *Engine {
	return &Engine{world: w, parser: p, narrator: n, logger: logger}
}

// ProcessTurn is the entire public surface of the core: one resolved
// player input against one session's state. Rejections still flow
// through the narrator so failures read as in-world events.
func (e *Engine) ProcessTurn(ctx context.Context, gs *state.GameState, raw string) (*TurnResult, error) {
	if gs.WorldName != e.world.Name {
		return nil, fmt.Errorf("session belongs to world %q, engine serves %q", gs.WorldName, e.world.Name)
	}

	// Terminal states short-circuit before any model call.
	if gs.IsEnded() {
		return &TurnResult{
			Events:    []action.Event{action.Rejected(action.RejectGameEnded, gameEndedLine)},
			Narration: gameEndedLine,
			Snapshot:  perception.Resolve(e.world, gs).Filtered(),
			Terminal:  true,
		}, nil
	}

	pre := perception.Resolve(e.world, gs).Filtered()
	intent := e.parser.Parse(ctx, raw, pre)

	vr := Validate(intent, e.world, gs, perception.Resolve(e.world, gs))

	var events []action.Event
	if vr.OK {
		events = Execute(intent, vr, e.world, gs)
	} else {
		events = []action.Event{action.Rejected(vr.Code, vr.Reason)}
	}
	gs.TurnCount++

	post := perception.Resolve(e.world, gs).Filtered()
	narration := e.narrate(ctx, events, post, gs.History)

	gs.PushNarration(state.Narration{
		Location:  gs.Location,
		Turn:      gs.TurnCount,
		EventType: string(primaryEvent(events).Type),
		Text:      narration,
	})

	return &TurnResult{
		Intent:    intent,
		Events:    events,
		Narration: narration,
		Snapshot:  post,
		Terminal:  gs.IsEnded(),
	}, nil
}

// narrate calls the narrator and substitutes the templated fallback on
// failure. State has already committed by this point, so a model
// failure only degrades prose.
func (e *Engine) narrate(ctx context.Context, events []action.Event, snap perception.Snapshot, history []state.Narration) string {
	if e.narrator == nil {
		return FallbackLine(events, snap)
	}
	text, err := e.narrator.Narrate(ctx, events, snap, history)
	if err != nil {
		e.logger.Warn("Narration failed, using fallback line", "error", err)
		return FallbackLine(events, snap)
	}
	return text
}

// Inspect returns the full visibility-annotated snapshot. Debug
// tooling only; gameplay logic never reads it.
func (e *Engine) Inspect(gs *state.GameState) perception.Snapshot {
	return perception.Resolve(e.world, gs)
}

// primaryEvent picks the event that labels the turn in history:
// victory wins over everything, otherwise the first event.
func primaryEvent(events []action.Event) action.Event {
	for _, ev := range events {
		if ev.Type == action.EventVictoryAchieved {
			return ev
		}
	}
	if len(events) > 0 {
		return events[0]
	}
	return action.Event{}
}

// FallbackLine produces the generic templated narration used when the
// model is unavailable. Deliberately dull and strictly factual.
func FallbackLine(events []action.Event, snap perception.Snapshot) string {
	ev := primaryEvent(events)
	switch ev.Type {
	case action.EventLocationChanged:
		return "You make your way to " + snap.LocationName + "."
	case action.EventSceneBrowsed:
		return "You take in your surroundings at " + snap.LocationName + "."
	case action.EventItemTaken:
		return "Taken."
	case action.EventItemDropped:
		return "Dropped."
	case action.EventContainerOpened:
		return "It opens."
	case action.EventContainerClosed:
		return "It closes."
	case action.EventItemExamined, action.EventDetailExamined:
		if ev.Text != "" {
			return ev.Text
		}
		return "You notice nothing unusual."
	case action.EventNPCConversation:
		if ev.Text != "" {
			return ev.Text
		}
		return "There is no reply of note."
	case action.EventActionRejected:
		if ev.Reason != "" {
			return upperFirst(ev.Reason) + "."
		}
		return "Nothing comes of it."
	case action.EventVictoryAchieved:
		return "The story reaches its end. You have won."
	case action.EventWaited:
		return "Time passes."
	default:
		return "Nothing comes of it."
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

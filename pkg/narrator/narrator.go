// Package narrator renders committed turn events as prose through the
// external model boundary. By the time narration runs, mechanics have
// already committed; a failure here degrades prose quality and nothing
// else.
package narrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazelcreek/fable-engine/pkg/action"
	"github.com/hazelcreek/fable-engine/pkg/chat"
	"github.com/hazelcreek/fable-engine/pkg/perception"
	"github.com/hazelcreek/fable-engine/pkg/state"
	"github.com/hazelcreek/fable-engine/pkg/textfilter"
)

// Completer is the narrow slice of the LLM service the narrator needs.
type Completer interface {
	Chat(ctx context.Context, messages []chat.Message) (*chat.Response, error)
}

// LLMNarrator implements engine.Narrator over a completion service.
type LLMNarrator struct {
	llm    Completer
	rating string // content rating of the world being narrated
	logger *slog.Logger
}

func New(llm Completer, rating string, logger *slog.Logger) *LLMNarrator {
	return &LLMNarrator{llm: llm, rating: rating, logger: logger}
}

// Narrate produces the turn's prose. The returned text has been
// cleaned of model artifacts and filtered for the world's content
// rating; it is still untrusted decoration.
func (n *LLMNarrator) Narrate(ctx context.Context, events []action.Event, snap perception.Snapshot, history []state.Narration) (string, error) {
	messages, err := NewBuilder().
		WithEvents(events).
		WithSnapshot(snap).
		WithHistory(history).
		Build()
	if err != nil {
		return "", fmt.Errorf("error building narration prompt: %w", err)
	}

	resp, err := n.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("narration model call failed: %w", err)
	}

	text := clean(resp.Text)
	if text == "" {
		return "", fmt.Errorf("narration model returned empty text")
	}
	return textfilter.Apply(text, n.rating), nil
}

// clean strips code fences and meta-chatter the model sometimes wraps
// around its prose.
func clean(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	for _, prefix := range []string{"Narration:", "Narrator:"} {
		text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
	}
	return strings.TrimSpace(text)
}

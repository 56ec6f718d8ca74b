package narrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazelcreek/fable-engine/pkg/action"
	"github.com/hazelcreek/fable-engine/pkg/chat"
)

type scriptedCompleter struct {
	text string
	err  error
}

func (s *scriptedCompleter) Chat(ctx context.Context, messages []chat.Message) (*chat.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &chat.Response{Text: s.text}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func moveEvents() []action.Event {
	return []action.Event{{Type: action.EventLocationChanged, To: "library"}}
}

func TestNarrateReturnsCleanedText(t *testing.T) {
	llm := &scriptedCompleter{text: "Narration: You step into the library. \n"}
	n := New(llm, "PG13", testLogger())

	text, err := n.Narrate(context.Background(), moveEvents(), testSnapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, "You step into the library.", text)
}

func TestNarrateStripsCodeFences(t *testing.T) {
	llm := &scriptedCompleter{text: "```\nThe shelves loom around you.\n```"}
	n := New(llm, "PG13", testLogger())

	text, err := n.Narrate(context.Background(), moveEvents(), testSnapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, "The shelves loom around you.", text)
}

func TestNarrateAppliesContentRating(t *testing.T) {
	llm := &scriptedCompleter{text: "The damn door will not budge."}

	t.Run("soft rating filters", func(t *testing.T) {
		n := New(llm, "G", testLogger())
		text, err := n.Narrate(context.Background(), moveEvents(), testSnapshot(), nil)
		require.NoError(t, err)
		assert.Equal(t, "The dang door will not budge.", text)
	})

	t.Run("adult rating passes through", func(t *testing.T) {
		n := New(llm, "R", testLogger())
		text, err := n.Narrate(context.Background(), moveEvents(), testSnapshot(), nil)
		require.NoError(t, err)
		assert.Equal(t, "The damn door will not budge.", text)
	})
}

func TestNarrateErrors(t *testing.T) {
	t.Run("model failure", func(t *testing.T) {
		n := New(&scriptedCompleter{err: errors.New("timeout")}, "G", testLogger())
		_, err := n.Narrate(context.Background(), moveEvents(), testSnapshot(), nil)
		require.Error(t, err)
	})

	t.Run("empty output", func(t *testing.T) {
		n := New(&scriptedCompleter{text: "   "}, "G", testLogger())
		_, err := n.Narrate(context.Background(), moveEvents(), testSnapshot(), nil)
		require.Error(t, err)
	})

	t.Run("no events", func(t *testing.T) {
		n := New(&scriptedCompleter{text: "fine"}, "G", testLogger())
		_, err := n.Narrate(context.Background(), nil, testSnapshot(), nil)
		require.Error(t, err)
	})
}

package parser

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
	"github.com/hazelcreek/fable-engine/pkg/perception"
)

type scriptedCompleter struct {
	text  string
	err   error
	calls int
}

func (s *scriptedCompleter) Chat(ctx context.Context, messages []chat.Message) (*chat.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &chat.Response{Text: s.text}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot() perception.Snapshot {
	return perception.Snapshot{
		Location:     "library",
		LocationName: "Library",
		Items: []perception.Entity{
			{ID: "desk", Name: "Desk", Kind: "item", Visible: true},
			{ID: "locket", Name: "Locket", Kind: "item", Visible: false},
		},
		NPCs: []perception.Entity{
			{ID: "butler", Name: "Merrick", Kind: "npc", Visible: true},
		},
		Inventory: []perception.Entity{
			{ID: "key", Name: "Key", Kind: "item", Visible: true},
		},
		Exits: []perception.ExitInfo{
			{Direction: "west", To: "hall", Accessible: true},
		},
	}
}

func TestInteractorResolvesTarget(t *testing.T) {
	llm := &scriptedCompleter{text: `{"verb":"open","target_id":"desk"}`}
	in := NewLLMInteractor(llm, testLogger())

	intent, err := in.Resolve(context.Background(), "open up that old desk", testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, action.IntentOpen, intent.Kind)
	assert.Equal(t, "desk", intent.TargetID)
	assert.Equal(t, "open up that old desk", intent.Raw)
}

func TestInteractorEnforcesIDContainment(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "invented id", reply: `{"verb":"take","target_id":"golden_crown"}`},
		{name: "hidden entity id", reply: `{"verb":"take","target_id":"locket"}`},
		{name: "empty target for take", reply: `{"verb":"take","target_id":""}`},
		{name: "invented instrument", reply: `{"verb":"use","target_id":"desk","instrument_id":"crowbar"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &scriptedCompleter{text: tt.reply}
			in := NewLLMInteractor(llm, testLogger())

			intent, err := in.Resolve(context.Background(), "do the thing", testSnapshot())
			require.NoError(t, err)
			assert.Equal(t, action.IntentFlavor, intent.Kind,
				"ids outside the candidate set must downgrade to flavor")
		})
	}
}

func TestInteractorAmbiguity(t *testing.T) {
	llm := &scriptedCompleter{text: `{"verb":"take","target_id":"desk","ambiguous":true,"hint":"the desk or the key?"}`}
	in := NewLLMInteractor(llm, testLogger())

	intent, err := in.Resolve(context.Background(), "take it", testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, action.IntentFlavor, intent.Kind)
	assert.Equal(t, "the desk or the key?", intent.ActionHint)
	assert.Equal(t, "desk", intent.NearTarget)
}

func TestInteractorMove(t *testing.T) {
	t.Run("known exit", func(t *testing.T) {
		llm := &scriptedCompleter{text: `{"verb":"move","direction":"west"}`}
		in := NewLLMInteractor(llm, testLogger())

		intent, err := in.Resolve(context.Background(), "head back to the hall", testSnapshot())
		require.NoError(t, err)
		assert.Equal(t, action.IntentMove, intent.Kind)
		assert.Equal(t, "west", intent.Direction)
	})

	t.Run("invented direction degrades", func(t *testing.T) {
		llm := &scriptedCompleter{text: `{"verb":"move","direction":"skyward"}`}
		in := NewLLMInteractor(llm, testLogger())

		intent, err := in.Resolve(context.Background(), "fly away", testSnapshot())
		require.NoError(t, err)
		assert.Equal(t, action.IntentFlavor, intent.Kind)
	})
}

func TestInteractorGiveMapsInstrumentToItem(t *testing.T) {
	llm := &scriptedCompleter{text: `{"verb":"give","target_id":"butler","instrument_id":"key"}`}
	in := NewLLMInteractor(llm, testLogger())

	intent, err := in.Resolve(context.Background(), "give merrick the key", testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, action.IntentGive, intent.Kind)
	assert.Equal(t, "butler", intent.TargetID)
	assert.Equal(t, "key", intent.ItemID)
}

func TestInteractorExamineTopic(t *testing.T) {
	llm := &scriptedCompleter{text: `{"verb":"examine","topic":"ceiling"}`}
	in := NewLLMInteractor(llm, testLogger())

	intent, err := in.Resolve(context.Background(), "look at the ceiling", testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, action.IntentExamine, intent.Kind)
	assert.Equal(t, "ceiling", intent.Topic)
	assert.Empty(t, intent.TargetID)
}

func TestInteractorMalformedOutput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "prose only", text: "I think the player wants to open the desk."},
		{name: "broken json", text: `{"verb": "open", "target_id":`},
		{name: "empty", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &scriptedCompleter{text: tt.text}
			in := NewLLMInteractor(llm, testLogger())

			intent, err := in.Resolve(context.Background(), "open the desk", testSnapshot())
			require.NoError(t, err, "malformed output degrades locally, it is not a call failure")
			assert.Equal(t, action.IntentFlavor, intent.Kind)
		})
	}
}

func TestInteractorToleratesCodeFences(t *testing.T) {
	llm := &scriptedCompleter{text: "```json\n{\"verb\":\"talk\",\"target_id\":\"butler\",\"topic\":\"house\"}\n```"}
	in := NewLLMInteractor(llm, testLogger())

	intent, err := in.Resolve(context.Background(), "ask merrick about the house", testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, action.IntentTalk, intent.Kind)
	assert.Equal(t, "butler", intent.TargetID)
	assert.Equal(t, "house", intent.Topic)
}

func TestInteractorUnknownVerb(t *testing.T) {
	llm := &scriptedCompleter{text: `{"verb":"yodel","target_id":"desk"}`}
	in := NewLLMInteractor(llm, testLogger())

	intent, err := in.Resolve(context.Background(), "yodel at the desk", testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, action.IntentFlavor, intent.Kind)
}

func TestInteractorModelError(t *testing.T) {
	llm := &scriptedCompleter{err: errors.New("model unavailable")}
	in := NewLLMInteractor(llm, testLogger())

	_, err := in.Resolve(context.Background(), "open the desk", testSnapshot())
	require.Error(t, err)
}

func TestInteractorPromptListsOnlyCandidates(t *testing.T) {
	got := describeCandidates(testSnapshot())

	assert.Contains(t, got, "desk")
	assert.Contains(t, got, "butler")
	assert.Contains(t, got, "key")
	assert.NotContains(t, got, "locket", "hidden entities must not be offered to the model")
}

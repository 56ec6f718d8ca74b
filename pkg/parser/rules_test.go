package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hazelcreek/fable-engine/pkg/action"
	"github.com/hazelcreek/fable-engine/pkg/perception"
)

func TestMatchRules(t *testing.T) {
	snap := perception.Snapshot{
		Exits: []perception.ExitInfo{
			{Direction: "north", To: "hall", Accessible: true},
			{Direction: "east", To: "study", Accessible: true},
		},
	}

	tests := []struct {
		input   string
		want    action.Intent
		matched bool
	}{
		{input: "north", want: action.Intent{Kind: action.IntentMove, Direction: "north"}, matched: true},
		{input: "n", want: action.Intent{Kind: action.IntentMove, Direction: "north"}, matched: true},
		{input: "  GO  East ", want: action.Intent{Kind: action.IntentMove, Direction: "east"}, matched: true},
		{input: "walk sw", want: action.Intent{Kind: action.IntentMove, Direction: "southwest"}, matched: true},
		{input: "head up.", want: action.Intent{Kind: action.IntentMove, Direction: "up"}, matched: true},
		{input: "move d", want: action.Intent{Kind: action.IntentMove, Direction: "down"}, matched: true},
		{input: "look", want: action.Intent{Kind: action.IntentBrowse}, matched: true},
		{input: "look around", want: action.Intent{Kind: action.IntentBrowse}, matched: true},
		{input: "l", want: action.Intent{Kind: action.IntentBrowse}, matched: true},
		{input: "where am I", want: action.Intent{Kind: action.IntentBrowse}, matched: true},
		{input: "wait", want: action.Intent{Kind: action.IntentWait}, matched: true},
		{input: "z", want: action.Intent{Kind: action.IntentWait}, matched: true},
		{input: "take the lamp", matched: false},
		{input: "go nowhere", matched: false},
		{input: "", matched: false},
		{input: "   ", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, ok := MatchRules(tt.input, snap)
			assert.Equal(t, tt.matched, ok)
			if tt.matched {
				assert.Equal(t, tt.want.Kind, intent.Kind)
				assert.Equal(t, tt.want.Direction, intent.Direction)
				assert.Equal(t, tt.input, intent.Raw)
			}
		})
	}
}

func TestMatchRulesLeaveSynonyms(t *testing.T) {
	t.Run("sole exit resolves", func(t *testing.T) {
		snap := perception.Snapshot{
			Exits: []perception.ExitInfo{
				{Direction: "south", To: "beach", Accessible: true},
				{Direction: "up", To: "lamp_room", Accessible: false},
			},
		}
		intent, ok := MatchRules("leave", snap)
		assert.True(t, ok)
		assert.Equal(t, action.IntentMove, intent.Kind)
		assert.Equal(t, "south", intent.Direction)
	})

	t.Run("multiple exits fall through", func(t *testing.T) {
		snap := perception.Snapshot{
			Exits: []perception.ExitInfo{
				{Direction: "south", Accessible: true},
				{Direction: "north", Accessible: true},
			},
		}
		_, ok := MatchRules("back", snap)
		assert.False(t, ok)
	})
}

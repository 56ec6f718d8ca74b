package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validWorldYAML = `
name: Test Manor
rating: PG13
start: hall
opening_line: You arrive.
locations:
  hall:
    name: Hall
    exits:
      east:
        to: study
    items:
      - lamp
    interactions:
      pull_cord:
        phrases:
          - pull the cord
        sets:
          cord_pulled: true
  study:
    name: Study
    exits:
      west:
        to: hall
    items:
      - desk
npcs:
  clerk:
    name: Clerk
    location: study
    topics:
      ledger: It balances, barely.
items:
  lamp:
    name: Lamp
    portable: true
  desk:
    name: Desk
    container:
      contains:
        - key
  key:
    name: Key
    portable: true
victory:
  item: key
`

func TestLoadFillsIDs(t *testing.T) {
	w, err := Load([]byte(validWorldYAML))
	require.NoError(t, err)

	assert.Equal(t, "Test Manor", w.Name)
	assert.Equal(t, "hall", w.Start)
	assert.Equal(t, "hall", w.Locations["hall"].ID)
	assert.Equal(t, "study", w.Locations["study"].ID)
	assert.Equal(t, "lamp", w.Items["lamp"].ID)
	assert.Equal(t, "clerk", w.NPCs["clerk"].ID)
	assert.Equal(t, "pull_cord", w.Locations["hall"].Interactions["pull_cord"].ID)
}

func TestLoadRejectsBadRefs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing start",
			yaml: `
name: Broken
start: nowhere
locations:
  hall:
    name: Hall
`,
			want: "start location",
		},
		{
			name: "exit to unknown location",
			yaml: `
name: Broken
start: hall
locations:
  hall:
    name: Hall
    exits:
      north:
        to: attic
`,
			want: "unknown location",
		},
		{
			name: "location lists unknown item",
			yaml: `
name: Broken
start: hall
locations:
  hall:
    name: Hall
    items:
      - ghost_item
`,
			want: "unknown item",
		},
		{
			name: "container holds unknown item",
			yaml: `
name: Broken
start: hall
locations:
  hall:
    name: Hall
items:
  chest:
    name: Chest
    container:
      contains:
        - nothing
`,
			want: "unknown item",
		},
		{
			name: "interaction without phrases",
			yaml: `
name: Broken
start: hall
locations:
  hall:
    name: Hall
    interactions:
      silent:
        sets:
          done: true
`,
			want: "no trigger phrases",
		},
		{
			name: "victory names unknown item",
			yaml: `
name: Broken
start: hall
locations:
  hall:
    name: Hall
victory:
  item: grail
`,
			want: "unknown item",
		},
		{
			name: "npc rule moves to unknown location",
			yaml: `
name: Broken
start: hall
locations:
  hall:
    name: Hall
npcs:
  wanderer:
    name: Wanderer
    location: hall
    location_changes:
      - flag: moved
        to: void
`,
			want: "unknown location",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNPCCurrentLocation(t *testing.T) {
	study := "study"
	hall := "hall"
	npc := &NPC{
		ID:              "clerk",
		DefaultLocation: "cellar",
		LocationChanges: []LocationRule{
			{Flag: "summoned", To: &hall},
			{Flag: "dismissed", To: nil},
			{Flag: "promoted", To: &study},
		},
	}

	t.Run("default when no flags", func(t *testing.T) {
		loc, present := npc.CurrentLocation(map[string]bool{})
		assert.True(t, present)
		assert.Equal(t, "cellar", loc)
	})

	t.Run("single rule", func(t *testing.T) {
		loc, present := npc.CurrentLocation(map[string]bool{"summoned": true})
		assert.True(t, present)
		assert.Equal(t, "hall", loc)
	})

	t.Run("last matching rule wins", func(t *testing.T) {
		loc, present := npc.CurrentLocation(map[string]bool{"summoned": true, "promoted": true})
		assert.True(t, present)
		assert.Equal(t, "study", loc)
	})

	t.Run("nil destination removes the npc", func(t *testing.T) {
		_, present := npc.CurrentLocation(map[string]bool{"summoned": true, "dismissed": true})
		assert.False(t, present)
	})

	t.Run("removal overridden by later rule", func(t *testing.T) {
		loc, present := npc.CurrentLocation(map[string]bool{"dismissed": true, "promoted": true})
		assert.True(t, present)
		assert.Equal(t, "study", loc)
	})
}

func TestConditionWant(t *testing.T) {
	f := false
	assert.True(t, Condition{Flag: "x"}.Want())
	assert.False(t, Condition{Flag: "x", Value: &f}.Want())
}

func TestContainerOf(t *testing.T) {
	w, err := Load([]byte(validWorldYAML))
	require.NoError(t, err)

	container, ok := w.ContainerOf("key")
	assert.True(t, ok)
	assert.Equal(t, "desk", container)

	_, ok = w.ContainerOf("lamp")
	assert.False(t, ok)
}

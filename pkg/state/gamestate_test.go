package state

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazelcreek/fable-engine/pkg/world"
)

func fixtureWorld(t *testing.T) *world.World {
	t.Helper()
	w, err := world.Load([]byte(`
name: Fixture
start: hall
locations:
  hall:
    name: Hall
    items:
      - desk
    exits:
      east:
        to: study
  study:
    name: Study
    items:
      - lamp
    exits:
      west:
        to: hall
items:
  desk:
    name: Desk
    container:
      contains:
        - key
  lamp:
    name: Lamp
    portable: true
  key:
    name: Key
    portable: true
`))
	require.NoError(t, err)
	return w
}

func TestNewGameStateSeeding(t *testing.T) {
	w := fixtureWorld(t)
	gs := NewGameState(w)

	assert.NotEqual(t, "", gs.ID.String())
	assert.Equal(t, "Fixture", gs.WorldName)
	assert.Equal(t, "hall", gs.Location)
	assert.Equal(t, StatusPlaying, gs.Status)
	assert.True(t, gs.Visited["hall"])
	assert.False(t, gs.Visited["study"])

	assert.Equal(t, []string{"desk"}, gs.LocationItems["hall"])
	assert.Equal(t, []string{"lamp"}, gs.LocationItems["study"])
	assert.Equal(t, []string{"key"}, gs.ContainerItems["desk"])
	assert.False(t, gs.ContainerStates["desk"])
	assert.Empty(t, gs.Inventory)
}

func TestSeededStateIsIndependentOfWorld(t *testing.T) {
	w := fixtureWorld(t)
	gs := NewGameState(w)

	gs.LocationItems["hall"] = append(gs.LocationItems["hall"], "extra")
	gs.ContainerItems["desk"] = nil

	assert.Equal(t, []string{"desk"}, w.Locations["hall"].Items)
	assert.Equal(t, []string{"key"}, w.Items["desk"].Container.Contains)
}

func TestTakeItemExclusivity(t *testing.T) {
	w := fixtureWorld(t)

	t.Run("from location floor", func(t *testing.T) {
		gs := NewGameState(w)
		gs.Location = "study"
		gs.TakeItem("lamp")

		assert.True(t, gs.HasItem("lamp"))
		assert.NotContains(t, gs.LocationItems["study"], "lamp")
	})

	t.Run("from container", func(t *testing.T) {
		gs := NewGameState(w)
		gs.ContainerStates["desk"] = true
		gs.TakeItem("key")

		assert.True(t, gs.HasItem("key"))
		assert.NotContains(t, gs.ContainerItems["desk"], "key")
	})

	t.Run("taking twice does not duplicate", func(t *testing.T) {
		gs := NewGameState(w)
		gs.Location = "study"
		gs.TakeItem("lamp")
		gs.TakeItem("lamp")

		count := 0
		for _, id := range gs.Inventory {
			if id == "lamp" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestDropItem(t *testing.T) {
	w := fixtureWorld(t)
	gs := NewGameState(w)
	gs.Location = "study"
	gs.TakeItem("lamp")

	gs.Location = "hall"
	gs.DropItem("lamp")

	assert.False(t, gs.HasItem("lamp"))
	assert.Contains(t, gs.LocationItems["hall"], "lamp")
	assert.NotContains(t, gs.LocationItems["study"], "lamp")

	// Dropping something not carried is a no-op.
	gs.DropItem("lamp")
	count := 0
	for _, id := range gs.LocationItems["hall"] {
		if id == "lamp" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestItemAt(t *testing.T) {
	w := fixtureWorld(t)
	gs := NewGameState(w)

	assert.True(t, gs.ItemAt("hall", "desk"))
	assert.True(t, gs.ItemAt("hall", "key"), "items inside local containers count as present")
	assert.False(t, gs.ItemAt("hall", "lamp"))

	containerID, ok := gs.ContainerHolding("hall", "key")
	assert.True(t, ok)
	assert.Equal(t, "desk", containerID)
}

func TestPushNarrationBound(t *testing.T) {
	gs := &GameState{}
	for i := 1; i <= NarrationHistoryLimit+3; i++ {
		gs.PushNarration(Narration{Turn: i, Text: fmt.Sprintf("turn %d", i)})
	}

	require.Len(t, gs.History, NarrationHistoryLimit)
	assert.Equal(t, 4, gs.History[0].Turn, "oldest entries evicted first")
	assert.Equal(t, NarrationHistoryLimit+3, gs.History[len(gs.History)-1].Turn)
}

func TestIsEnded(t *testing.T) {
	assert.False(t, (&GameState{Status: StatusPlaying}).IsEnded())
	assert.True(t, (&GameState{Status: StatusWon}).IsEnded())
	assert.True(t, (&GameState{Status: StatusLost}).IsEnded())
}

func TestCloneIsDeep(t *testing.T) {
	w := fixtureWorld(t)
	gs := NewGameState(w)
	gs.Flags["door_open"] = true
	gs.Trust["clerk"] = 2
	gs.PushNarration(Narration{Turn: 1, Text: "first"})

	cp := gs.Clone()
	require.Equal(t, gs, cp)

	cp.Flags["door_open"] = false
	cp.Trust["clerk"] = 9
	cp.Inventory = append(cp.Inventory, "lamp")
	cp.LocationItems["hall"] = nil
	cp.History[0].Text = "mutated"

	assert.True(t, gs.Flags["door_open"])
	assert.Equal(t, 2, gs.Trust["clerk"])
	assert.Empty(t, gs.Inventory)
	assert.Equal(t, []string{"desk"}, gs.LocationItems["hall"])
	assert.Equal(t, "first", gs.History[0].Text)
}

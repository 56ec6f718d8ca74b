package world

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, yaml string) *World {
	t.Helper()
	w, err := Load([]byte(yaml))
	require.NoError(t, err)
	return w
}

func TestLintOrphanedFlag(t *testing.T) {
	w := mustLoad(t, `
name: Orphan
start: hall
locations:
  hall:
    name: Hall
    exits:
      north:
        to: vault
  vault:
    name: Vault
    exits:
      south:
        to: hall
`)
	// Lock the exit on a flag no interaction sets.
	exit := w.Locations["hall"].Exits["north"]
	exit.LockedUntil = "vault_open"
	w.Locations["hall"].Exits["north"] = exit

	problems := Lint(w)
	errs := Errors(problems)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "vault_open")
	assert.Contains(t, errs[0].Message, "never set")
}

func TestLintFlagWithSetterIsClean(t *testing.T) {
	w := mustLoad(t, `
name: Clean
start: hall
locations:
  hall:
    name: Hall
    exits:
      north:
        to: vault
        locked_until: vault_open
    interactions:
      turn_wheel:
        phrases:
          - turn the wheel
        sets:
          vault_open: true
  vault:
    name: Vault
    exits:
      south:
        to: hall
`)
	assert.Empty(t, Errors(Lint(w)))
}

func TestLintItemPlacement(t *testing.T) {
	t.Run("item in two places is an error", func(t *testing.T) {
		w := mustLoad(t, `
name: Doubled
start: hall
locations:
  hall:
    name: Hall
    items:
      - coin
items:
  coin:
    name: Coin
    portable: true
  purse:
    name: Purse
    container:
      contains:
        - coin
`)
		// Place the purse so it doesn't trigger its own warning.
		w.Locations["hall"].Items = append(w.Locations["hall"].Items, "purse")

		errs := Errors(Lint(w))
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "coin")
		assert.Contains(t, errs[0].Message, "more than one place")
	})

	t.Run("item placed nowhere is a warning", func(t *testing.T) {
		w := mustLoad(t, `
name: Lost
start: hall
locations:
  hall:
    name: Hall
items:
  relic:
    name: Relic
`)
		problems := Lint(w)
		assert.Empty(t, Errors(problems))
		require.Len(t, problems, 1)
		assert.Equal(t, "warning", problems[0].Severity)
		assert.Contains(t, problems[0].Message, "relic")
	})
}

func TestLintReachability(t *testing.T) {
	w := mustLoad(t, `
name: Island
start: hall
locations:
  hall:
    name: Hall
  isolated:
    name: Isolated Room
`)
	problems := Lint(w)
	assert.Empty(t, Errors(problems))

	found := false
	for _, p := range problems {
		if p.Severity == "warning" && strings.Contains(p.Message, "isolated") {
			found = true
		}
	}
	assert.True(t, found, "expected an unreachability warning for the isolated room")
}

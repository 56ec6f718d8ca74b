package parser

import (
	"strings"

	"github.com/hazelcreek/fable-engine/pkg/action"
	"github.com/hazelcreek/fable-engine/pkg/perception"
)

// directionAliases maps movement shorthand to canonical directions.
var directionAliases = map[string]string{
	"n":         "north",
	"north":     "north",
	"s":         "south",
	"south":     "south",
	"e":         "east",
	"east":      "east",
	"w":         "west",
	"west":      "west",
	"u":         "up",
	"up":        "up",
	"d":         "down",
	"down":      "down",
	"ne":        "northeast",
	"northeast": "northeast",
	"nw":        "northwest",
	"northwest": "northwest",
	"se":        "southeast",
	"southeast": "southeast",
	"sw":        "southwest",
	"southwest": "southwest",
	"in":        "in",
	"out":       "out",
}

var browseSynonyms = map[string]bool{
	"look":        true,
	"look around": true,
	"l":           true,
	"survey":      true,
	"where am i":  true,
}

var waitSynonyms = map[string]bool{
	"wait": true,
	"z":    true,
}

// leaveSynonyms resolve to the location's sole exit when there is
// exactly one; otherwise the input falls through to the interactor.
var leaveSynonyms = map[string]bool{
	"back":  true,
	"leave": true,
	"exit":  true,
	"out":   false, // handled as a direction first
}

// MatchRules is the deterministic fast path: a small fixed set of
// movement, browse, and wait synonyms matched without a model call.
// Anything unmatched falls through to the interactor.
func MatchRules(raw string, snap perception.Snapshot) (action.Intent, bool) {
	text := normalize(raw)
	if text == "" {
		return action.Intent{}, false
	}

	if browseSynonyms[text] {
		return action.Intent{Kind: action.IntentBrowse, Raw: raw}, true
	}
	if waitSynonyms[text] {
		return action.Intent{Kind: action.IntentWait, Raw: raw}, true
	}

	if dir, ok := matchDirection(text); ok {
		return action.Intent{Kind: action.IntentMove, Direction: dir, Raw: raw}, true
	}

	if leaveSynonyms[text] {
		if dir, ok := soleExit(snap); ok {
			return action.Intent{Kind: action.IntentMove, Direction: dir, Raw: raw}, true
		}
	}

	return action.Intent{}, false
}

// matchDirection handles bare directions plus "go X" / "walk X" /
// "head X" / "move X" forms.
func matchDirection(text string) (string, bool) {
	if dir, ok := directionAliases[text]; ok {
		return dir, true
	}
	for _, prefix := range []string{"go ", "walk ", "head ", "move "} {
		if rest, ok := strings.CutPrefix(text, prefix); ok {
			if dir, found := directionAliases[strings.TrimSpace(rest)]; found {
				return dir, true
			}
		}
	}
	return "", false
}

// soleExit returns the direction of the only accessible exit, if the
// location has exactly one.
func soleExit(snap perception.Snapshot) (string, bool) {
	var dir string
	count := 0
	for _, x := range snap.Exits {
		if x.Accessible {
			dir = x.Direction
			count++
		}
	}
	return dir, count == 1
}

func normalize(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	text = strings.TrimSuffix(text, ".")
	text = strings.TrimSuffix(text, "!")
	return strings.Join(strings.Fields(text), " ")
}

package world

import (
	"fmt"
	"sort"
)

// Problem is a single finding from the static content lint.
type Problem struct {
	Severity string // "error" or "warning"
	Message  string
}

func (p Problem) String() string {
	return p.Severity + ": " + p.Message
}

// Lint runs the static content checks that go beyond referential
// integrity: a flag that is checked somewhere must be set somewhere,
// an item must start in at most one place, and every location should
// be reachable from the start. Content that checks an orphan flag is
// a bug that would otherwise surface as a silently impossible puzzle.
func Lint(w *World) []Problem {
	var problems []Problem

	setters := make(map[string]bool)
	for _, loc := range w.Locations {
		for _, interaction := range loc.Interactions {
			for flag := range interaction.Sets {
				setters[flag] = true
			}
		}
	}

	checked := collectCheckedFlags(w)
	var orphaned []string
	for flag := range checked {
		if !setters[flag] {
			orphaned = append(orphaned, flag)
		}
	}
	sort.Strings(orphaned)
	for _, flag := range orphaned {
		problems = append(problems, Problem{
			Severity: "error",
			Message:  fmt.Sprintf("flag %q is checked by %s but never set by any interaction", flag, checked[flag]),
		})
	}

	problems = append(problems, lintItemPlacement(w)...)
	problems = append(problems, lintReachability(w)...)
	return problems
}

// collectCheckedFlags returns flag -> description of one place that
// checks it.
func collectCheckedFlags(w *World) map[string]string {
	checked := make(map[string]string)
	note := func(flag, where string) {
		if flag == "" {
			return
		}
		if _, seen := checked[flag]; !seen {
			checked[flag] = where
		}
	}

	for id, loc := range w.Locations {
		for dir, exit := range loc.Exits {
			note(exit.LockedUntil, fmt.Sprintf("exit %q of location %q", dir, id))
			if exit.Requires != nil {
				note(exit.Requires.Flag, fmt.Sprintf("exit %q of location %q", dir, id))
			}
		}
		for iid, interaction := range loc.Interactions {
			if interaction.Requires != nil {
				note(interaction.Requires.Flag, fmt.Sprintf("interaction %q in location %q", iid, id))
			}
		}
	}
	for id, item := range w.Items {
		note(item.RequiresFlag, fmt.Sprintf("visibility of item %q", id))
	}
	for id, npc := range w.NPCs {
		for _, cond := range npc.AppearsWhen {
			note(cond.Flag, fmt.Sprintf("appears_when of npc %q", id))
		}
		for _, rule := range npc.LocationChanges {
			note(rule.Flag, fmt.Sprintf("location rule of npc %q", id))
		}
	}
	if w.Victory != nil {
		note(w.Victory.Flag, "victory condition")
	}
	return checked
}

// lintItemPlacement flags items that start in more than one place, or
// nowhere at all.
func lintItemPlacement(w *World) []Problem {
	placements := make(map[string][]string)
	for locID, loc := range w.Locations {
		for _, itemID := range loc.Items {
			placements[itemID] = append(placements[itemID], "location "+locID)
		}
	}
	for containerID, item := range w.Items {
		if item.Container == nil {
			continue
		}
		for _, held := range item.Container.Contains {
			placements[held] = append(placements[held], "container "+containerID)
		}
	}

	ids := make([]string, 0, len(w.Items))
	for id := range w.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var problems []Problem
	for _, id := range ids {
		places := placements[id]
		switch {
		case len(places) > 1:
			sort.Strings(places)
			problems = append(problems, Problem{
				Severity: "error",
				Message:  fmt.Sprintf("item %q starts in more than one place: %v", id, places),
			})
		case len(places) == 0:
			problems = append(problems, Problem{
				Severity: "warning",
				Message:  fmt.Sprintf("item %q is defined but placed nowhere", id),
			})
		}
	}
	return problems
}

// lintReachability warns about locations with no path from the start.
// Gated exits count as reachable; the lint only looks at graph shape.
func lintReachability(w *World) []Problem {
	reachable := map[string]bool{w.Start: true}
	frontier := []string{w.Start}
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		loc, ok := w.Locations[id]
		if !ok {
			continue
		}
		for _, exit := range loc.Exits {
			if !reachable[exit.To] {
				reachable[exit.To] = true
				frontier = append(frontier, exit.To)
			}
		}
	}

	ids := make([]string, 0, len(w.Locations))
	for id := range w.Locations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var problems []Problem
	for _, id := range ids {
		if !reachable[id] {
			problems = append(problems, Problem{
				Severity: "warning",
				Message:  fmt.Sprintf("location %q is unreachable from start %q", id, w.Start),
			})
		}
	}
	return problems
}

// Errors filters problems down to hard errors.
func Errors(problems []Problem) []Problem {
	var errs []Problem
	for _, p := range problems {
		if p.Severity == "error" {
			errs = append(errs, p)
		}
	}
	return errs
}

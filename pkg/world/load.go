package world

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a world YAML file, fills in ids from map keys, and
// verifies every cross-reference. A world that fails the reference
// check is rejected outright; the engine never runs against a graph
// with dangling ids.
func LoadFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world file %s: %w", path, err)
	}
	return Load(data)
}

// Load parses world YAML from memory. Used by LoadFile and by tests.
func Load(data []byte) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse world yaml: %w", err)
	}

	for id, loc := range w.Locations {
		loc.ID = id
		for iid, interaction := range loc.Interactions {
			interaction.ID = iid
		}
	}
	for id, item := range w.Items {
		item.ID = id
	}
	for id, npc := range w.NPCs {
		npc.ID = id
	}

	if err := w.CheckRefs(); err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWorlds returns world name -> filename for every .yaml file in dir.
func ListWorlds(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read worlds directory: %w", err)
	}

	worlds := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		w, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			// Broken content files are a hard failure, not a skip.
			return nil, fmt.Errorf("world file %s is invalid: %w", entry.Name(), err)
		}
		worlds[w.Name] = entry.Name()
	}
	return worlds, nil
}

// CheckRefs verifies that every id referenced anywhere in the graph
// resolves. Returns the first problem found.
func (w *World) CheckRefs() error {
	if w.Start == "" {
		return fmt.Errorf("world %q has no start location", w.Name)
	}
	if _, ok := w.Locations[w.Start]; !ok {
		return fmt.Errorf("start location %q does not exist", w.Start)
	}

	for id, loc := range w.Locations {
		for dir, exit := range loc.Exits {
			if _, ok := w.Locations[exit.To]; !ok {
				return fmt.Errorf("location %q exit %q points to unknown location %q", id, dir, exit.To)
			}
			if exit.Requires != nil && exit.Requires.Item != "" {
				if _, ok := w.Items[exit.Requires.Item]; !ok {
					return fmt.Errorf("location %q exit %q requires unknown item %q", id, dir, exit.Requires.Item)
				}
			}
		}
		for _, itemID := range loc.Items {
			if _, ok := w.Items[itemID]; !ok {
				return fmt.Errorf("location %q lists unknown item %q", id, itemID)
			}
		}
		for _, npcID := range loc.NPCs {
			if _, ok := w.NPCs[npcID]; !ok {
				return fmt.Errorf("location %q lists unknown npc %q", id, npcID)
			}
		}
		for iid, interaction := range loc.Interactions {
			if len(interaction.Phrases) == 0 {
				return fmt.Errorf("interaction %q in location %q has no trigger phrases", iid, id)
			}
			if interaction.Requires != nil && interaction.Requires.Item != "" {
				if _, ok := w.Items[interaction.Requires.Item]; !ok {
					return fmt.Errorf("interaction %q in location %q requires unknown item %q", iid, id, interaction.Requires.Item)
				}
			}
			for npcID := range interaction.GrantsTrust {
				if _, ok := w.NPCs[npcID]; !ok {
					return fmt.Errorf("interaction %q in location %q grants trust to unknown npc %q", iid, id, npcID)
				}
			}
		}
	}

	for id, item := range w.Items {
		if item.Container == nil {
			continue
		}
		for _, held := range item.Container.Contains {
			if _, ok := w.Items[held]; !ok {
				return fmt.Errorf("container %q holds unknown item %q", id, held)
			}
		}
	}

	for id, npc := range w.NPCs {
		if npc.DefaultLocation != "" {
			if _, ok := w.Locations[npc.DefaultLocation]; !ok {
				return fmt.Errorf("npc %q has unknown default location %q", id, npc.DefaultLocation)
			}
		}
		for i, rule := range npc.LocationChanges {
			if rule.To != nil {
				if _, ok := w.Locations[*rule.To]; !ok {
					return fmt.Errorf("npc %q location rule %d moves to unknown location %q", id, i, *rule.To)
				}
			}
		}
	}

	if v := w.Victory; v != nil {
		if v.Location != "" {
			if _, ok := w.Locations[v.Location]; !ok {
				return fmt.Errorf("victory condition names unknown location %q", v.Location)
			}
		}
		if v.Item != "" {
			if _, ok := w.Items[v.Item]; !ok {
				return fmt.Errorf("victory condition names unknown item %q", v.Item)
			}
		}
	}

	return nil
}

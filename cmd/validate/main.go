// Command validate lints world content files. It runs the same checks
// the API runs at startup, plus the static flag analysis: every flag a
// world checks must be set by some interaction, or the puzzle it gates
// is silently impossible.
package main

import (
	"fmt"
	"os"

	"github.com/hazelcreek/fable-engine/pkg/world"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <world.yaml> [more files...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		if !validateFile(filename) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func validateFile(filename string) bool {
	fmt.Printf("Validating %s...\n", filename)

	w, err := world.LoadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  load failed: %v\n", err)
		return false
	}

	problems := world.Lint(w)
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}

	if errs := world.Errors(problems); len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "%s: %d error(s)\n", filename, len(errs))
		return false
	}

	fmt.Printf("%s is valid (%d warning(s))\n", filename, len(problems))
	return true
}

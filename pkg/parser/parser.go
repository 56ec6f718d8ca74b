// Package parser turns raw player text into a structured intent. Two
// strategies run in sequence: a deterministic pattern match for
// movement and browse synonyms, then an LLM-backed interactor that
// resolves fuzzy phrasing against the perception snapshot. The parser
// never fails a turn: every input produces some intent, degrading to
// flavor when resolution is impossible.
package parser

import (
	"context"
	"log/slog"

	"github.com/hazelcreek/fable-engine/pkg/action"
	"github.com/hazelcreek/fable-engine/pkg/perception"
)

type Parser struct {
	interactor Interactor
	logger     *slog.Logger
}

// New builds a parser. A nil interactor is allowed: unmatched input
// then degrades straight to flavor intents, which keeps the
// deterministic tier usable without a model.
func New(interactor Interactor, logger *slog.Logger) *Parser {
	return &Parser{interactor: interactor, logger: logger}
}

// Parse resolves raw player text into an intent. First match wins:
// deterministic rules, then the interactor, then the flavor fallback.
func (p *Parser) Parse(ctx context.Context, raw string, snap perception.Snapshot) action.Intent {
	if intent, ok := MatchRules(raw, snap); ok {
		return intent
	}

	if p.interactor == nil {
		return action.Flavor(raw, "", "")
	}

	intent, err := p.interactor.Resolve(ctx, raw, snap)
	if err != nil {
		p.logger.Warn("Interactor unavailable, degrading to flavor", "error", err)
		return action.Flavor(raw, "", "")
	}
	return intent
}

package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hazelcreek/fable-engine/pkg/action"
	"github.com/hazelcreek/fable-engine/pkg/perception"
)

type scriptedInteractor struct {
	intent action.Intent
	err    error
	calls  int
}

func (s *scriptedInteractor) Resolve(ctx context.Context, raw string, snap perception.Snapshot) (action.Intent, error) {
	s.calls++
	return s.intent, s.err
}

func TestParseRulesWinWithoutInteractorCall(t *testing.T) {
	interactor := &scriptedInteractor{intent: action.Intent{Kind: action.IntentTake, TargetID: "lamp"}}
	p := New(interactor, testLogger())

	intent := p.Parse(context.Background(), "north", perception.Snapshot{})

	assert.Equal(t, action.IntentMove, intent.Kind)
	assert.Equal(t, 0, interactor.calls, "deterministic matches must not spend a model call")
}

func TestParseFallsThroughToInteractor(t *testing.T) {
	interactor := &scriptedInteractor{intent: action.Intent{Kind: action.IntentTake, TargetID: "lamp"}}
	p := New(interactor, testLogger())

	intent := p.Parse(context.Background(), "grab the lamp", perception.Snapshot{})

	assert.Equal(t, action.IntentTake, intent.Kind)
	assert.Equal(t, 1, interactor.calls)
}

func TestParseNilInteractorDegradesToFlavor(t *testing.T) {
	p := New(nil, testLogger())

	intent := p.Parse(context.Background(), "grab the lamp", perception.Snapshot{})

	assert.Equal(t, action.IntentFlavor, intent.Kind)
	assert.Equal(t, "grab the lamp", intent.Raw)
}

func TestParseInteractorErrorDegradesToFlavor(t *testing.T) {
	interactor := &scriptedInteractor{err: errors.New("model down")}
	p := New(interactor, testLogger())

	intent := p.Parse(context.Background(), "grab the lamp", perception.Snapshot{})

	assert.Equal(t, action.IntentFlavor, intent.Kind)
}

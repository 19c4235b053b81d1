package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const rival = "0xrival"

func TestStyleUnknownUntilEnoughActions(t *testing.T) {
	tr := NewOpponentTracker()
	for i := 0; i < minObservations-1; i++ {
		tr.ObserveAction(rival, "call")
	}
	assert.Equal(t, "unknown", tr.Snapshot(rival).Style())

	tr.ObserveAction(rival, "call")
	assert.Equal(t, "balanced", tr.Snapshot(rival).Style())
}

func TestStyleClassification(t *testing.T) {
	aggressive := NewOpponentTracker()
	for i := 0; i < 6; i++ {
		aggressive.ObserveAction(rival, "raise")
	}
	assert.Equal(t, "aggressive", aggressive.Snapshot(rival).Style())

	tight := NewOpponentTracker()
	for i := 0; i < 3; i++ {
		tight.ObserveAction(rival, "fold")
	}
	for i := 0; i < 3; i++ {
		tight.ObserveAction(rival, "call")
	}
	assert.Equal(t, "tight", tight.Snapshot(rival).Style())

	bluffer := NewOpponentTracker()
	for i := 0; i < 2; i++ {
		bluffer.ObserveAction(rival, "raise")
	}
	for i := 0; i < 4; i++ {
		bluffer.ObserveAction(rival, "call")
	}
	bluffer.ObserveBluff(rival)
	m := bluffer.Snapshot(rival)
	assert.Equal(t, 0.5, m.BluffFrequency())
	assert.Equal(t, "bluffer", m.Style())
}

func TestRatesFromCounts(t *testing.T) {
	tr := NewOpponentTracker()
	tr.ObserveAction(rival, "raise")
	tr.ObserveAction(rival, "fold")
	tr.ObserveAction(rival, "call")
	tr.ObserveAction(rival, "call")

	m := tr.Snapshot(rival)
	assert.InDelta(t, 0.25, m.Aggression(), 1e-9)
	assert.InDelta(t, 0.25, m.Tightness(), 1e-9)
}

func TestPromptContext(t *testing.T) {
	tr := NewOpponentTracker()
	assert.Contains(t, tr.Context(rival), "no history")

	tr.ObserveOutcome(rival, true)
	tr.ObserveOutcome(rival, false)
	ctx := tr.Context(rival)
	assert.Contains(t, ctx, "2 games")
	assert.Contains(t, ctx, "you won 1")
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEloUpdateMovesTowardWinner(t *testing.T) {
	e := NewElo(1500, 32)
	dA, dB := e.Update(1, 0.1, 0.1)

	assert.Greater(t, dA, 0.0)
	assert.Less(t, dB, 0.0)
	assert.InDelta(t, 0, dA+dB, 1e-9, "pair update is zero-sum")
	assert.InDelta(t, 16, dA, 1e-9, "even ratings give K/2 for a win")

	// An upset by the lower-rated side pays more.
	under := NewElo(1500, 32)
	under.A = 1300
	dUp, _ := under.Update(1, 0.1, 0.1)
	assert.Greater(t, dUp, 16.0)
}

func TestEloWagerScaleClamped(t *testing.T) {
	assert.InDelta(t, 1.0, wagerScale(0.1, 0.1), 1e-9)
	assert.InDelta(t, 3.0, wagerScale(10, 0.1), 1e-9)
	assert.InDelta(t, 0.5, wagerScale(0.001, 0.1), 1e-9)
	assert.InDelta(t, 1.0, wagerScale(0.1, 0), 1e-9, "no base wager disables scaling")
}

func TestEloDecayAnneals(t *testing.T) {
	assert.InDelta(t, 1.0, decay(0), 1e-9)
	assert.Greater(t, decay(10), decay(100))

	e := NewElo(1500, 32)
	first, _ := e.Update(1, 0.1, 0.1)
	e2 := NewElo(1500, 32)
	e2.Games = 50
	later, _ := e2.Update(1, 0.1, 0.1)
	assert.Greater(t, first, later, "established pairings move less")
}

func TestEloDeltaStateless(t *testing.T) {
	d := eloDelta(1500, 1500, 32, 0.1, 0.1, 0)
	assert.InDelta(t, 16, d, 1e-9)
	assert.Greater(t, eloDelta(1300, 1500, 32, 0.1, 0.1, 0), d, "underdog wins pay more")
}

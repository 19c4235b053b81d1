package main

import "math"

// Elo holds one head-to-head pairing's ratings.
type Elo struct {
	A, B  float64 // ratings
	K     float64 // base K
	Games int     // matches processed
}

func NewElo(start, k float64) Elo { return Elo{A: start, B: start, K: k} }

func (e Elo) expect() (ea, eb float64) {
	ea = 1.0 / (1.0 + math.Pow(10, (e.B-e.A)/400.0))
	return ea, 1.0 - ea
}

// Update applies one match outcome (scoreA is 1 for an A win, 0 for a loss)
// and returns the applied deltas. K is tempered by the wager relative to the
// arena's base wager and annealed slowly as the pairing accumulates games.
func (e *Elo) Update(scoreA float64, wager, baseWager float64) (dA, dB float64) {
	ea, eb := e.expect()
	kEff := e.K * wagerScale(wager, baseWager) * decay(e.Games)
	dA = kEff * (scoreA - ea)
	dB = kEff * ((1 - scoreA) - eb)
	e.A += dA
	e.B += dB
	e.Games++
	return dA, dB
}

// eloDelta is the stateless form used for career ratings: returns the
// winner's gain against the loser at the given K.
func eloDelta(winner, loser, k, wager, baseWager float64, games int) float64 {
	exp := 1.0 / (1.0 + math.Pow(10, (loser-winner)/400.0))
	return k * wagerScale(wager, baseWager) * decay(games) * (1 - exp)
}

// ---- helpers ----

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func wagerScale(wager, base float64) float64 {
	if base <= 0 || wager <= 0 {
		return 1.0
	}
	return clamp(wager/base, 0.5, 3.0)
}

func decay(games int) float64 {
	return 1.0 / (1.0 + 0.01*float64(games)) // slow anneal
}

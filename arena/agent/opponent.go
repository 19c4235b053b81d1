package agent

import (
	"fmt"
	"sync"
)

// minObservations before a style classification is trusted.
const minObservations = 5

// OpponentModel accumulates observed behavior for one opponent address.
type OpponentModel struct {
	Address string

	GamesPlayed int
	WinsAgainst int

	Actions int
	Folds   int
	Raises  int
	Calls   int
	Bluffs  int // showdowns where the shown hand did not back the aggression
}

// Aggression is the share of observed actions that were raises.
func (m OpponentModel) Aggression() float64 {
	if m.Actions == 0 {
		return 0
	}
	return float64(m.Raises) / float64(m.Actions)
}

// Tightness is the share of observed actions that were folds.
func (m OpponentModel) Tightness() float64 {
	if m.Actions == 0 {
		return 0
	}
	return float64(m.Folds) / float64(m.Actions)
}

// BluffFrequency is bluffs per observed raise.
func (m OpponentModel) BluffFrequency() float64 {
	if m.Raises == 0 {
		return 0
	}
	return float64(m.Bluffs) / float64(m.Raises)
}

// Style classifies the opponent once enough actions are on record.
func (m OpponentModel) Style() string {
	if m.Actions < minObservations {
		return "unknown"
	}
	switch {
	case m.Aggression() > 0.4:
		return "aggressive"
	case m.Tightness() > 0.4:
		return "tight"
	case m.BluffFrequency() > 0.3:
		return "bluffer"
	}
	return "balanced"
}

// PromptContext renders the opponent line included in decision requests.
func (m OpponentModel) PromptContext() string {
	if m.GamesPlayed == 0 {
		return "Opponent: no history yet."
	}
	return fmt.Sprintf("Opponent style: %s. %d games (you won %d). Aggression %.2f, fold rate %.2f, bluff rate %.2f.",
		m.Style(), m.GamesPlayed, m.WinsAgainst, m.Aggression(), m.Tightness(), m.BluffFrequency())
}

// OpponentTracker holds one agent's models of everyone it has faced.
// Safe for concurrent use.
type OpponentTracker struct {
	mu     sync.Mutex
	models map[string]*OpponentModel
}

func NewOpponentTracker() *OpponentTracker {
	return &OpponentTracker{models: map[string]*OpponentModel{}}
}

func (t *OpponentTracker) model(addr string) *OpponentModel {
	m, ok := t.models[addr]
	if !ok {
		m = &OpponentModel{Address: addr}
		t.models[addr] = m
	}
	return m
}

// ObserveAction records one poker action by the opponent.
func (t *OpponentTracker) ObserveAction(addr, action string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := t.model(addr)
	m.Actions++
	switch action {
	case "fold":
		m.Folds++
	case "raise":
		m.Raises++
	case "call":
		m.Calls++
	}
}

// ObserveBluff records a raise that a showdown revealed as a bluff.
func (t *OpponentTracker) ObserveBluff(addr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.model(addr).Bluffs++
}

// ObserveOutcome records a finished match against addr.
func (t *OpponentTracker) ObserveOutcome(addr string, won bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := t.model(addr)
	m.GamesPlayed++
	if won {
		m.WinsAgainst++
	}
}

// Context renders the opponent prompt line for addr.
func (t *OpponentTracker) Context(addr string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.model(addr).PromptContext()
}

// Snapshot copies the model for addr for reporting.
func (t *OpponentTracker) Snapshot(addr string) OpponentModel {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.model(addr)
}

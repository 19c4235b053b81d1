package games

import (
	"context"
	"fmt"
)

// GameType identifies one of the arena's simulators.
type GameType int

const (
	Poker GameType = iota
	Auction
	Combat
)

func (t GameType) String() string {
	switch t {
	case Poker:
		return "poker"
	case Auction:
		return "auction"
	case Combat:
		return "combat"
	}
	return "unknown"
}

// DecisionRecord is one entry of the audit trail: the exact request shown to
// the decision provider, the validated response, and a note when an illegal
// or out-of-range response had to be coerced.
type DecisionRecord struct {
	Player   string `json:"player"`
	Stage    string `json:"stage"`
	Request  any    `json:"request"`
	Response any    `json:"response"`
	Coerced  string `json:"coerced,omitempty"`
}

// GameResult is the sole artifact a match leaves behind. It is immutable
// once returned and self-describing: settlement and statistics collaborators
// read it without touching simulator internals.
type GameResult struct {
	GameType     GameType         `json:"game_type"`
	Winner       string           `json:"winner"`
	Loser        string           `json:"loser"`
	Wager        float64          `json:"wager"`
	Details      any              `json:"details"`
	RoundsPlayed int              `json:"rounds_played"`
	Decisions    []DecisionRecord `json:"decisions"`
}

// Game is the contract all three simulators share. A Game instance owns all
// of its mutable state for the duration of one Play call; distinct matches
// use distinct instances and may run concurrently.
type Game interface {
	Type() GameType
	Play(ctx context.Context, playerA, playerB string, wager float64) (*GameResult, error)
	StateSummary() string
}

// DecisionError marks an ExternalFailure: the decision provider call itself
// errored or timed out. It is fatal for the match — no partial state has
// been mutated by the pending action, so the caller may retry the whole
// match or abort.
type DecisionError struct {
	Game   GameType
	Player string
	Stage  string
	Err    error
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("%s: decision provider failed for %s at %s: %v", e.Game, e.Player, e.Stage, e.Err)
}

func (e *DecisionError) Unwrap() error { return e.Err }

// Event is a fire-and-forget notification for live spectation.
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// EventSink receives events during a simulation. Notify is called
// synchronously; implementations must not block for long.
type EventSink interface {
	Notify(Event)
}

// emit forwards an event to the sink, swallowing panics. A broken spectator
// must never abort or corrupt an in-progress simulation.
func emit(sink EventSink, ev Event) {
	if sink == nil {
		return
	}
	defer func() { _ = recover() }()
	sink.Notify(ev)
}

package games

import (
	"context"
	"sync"

	"github.com/obseasd/monadarena/arena/agent"
)

// scriptedProvider answers decisions from plain functions, standing in for
// the model-backed provider in tests.
type scriptedProvider struct {
	poker   func(agent.PokerRequest) (agent.PokerDecision, error)
	auction func(agent.AuctionRequest) (agent.AuctionDecision, error)
	combat  func(agent.CombatRequest) (agent.CombatDecision, error)
}

func (s *scriptedProvider) PokerAction(_ context.Context, req agent.PokerRequest) (agent.PokerDecision, error) {
	return s.poker(req)
}

func (s *scriptedProvider) AuctionBid(_ context.Context, req agent.AuctionRequest) (agent.AuctionDecision, error) {
	return s.auction(req)
}

func (s *scriptedProvider) CombatAction(_ context.Context, req agent.CombatRequest) (agent.CombatDecision, error) {
	return s.combat(req)
}

func alwaysCall() *scriptedProvider {
	return &scriptedProvider{
		poker: func(agent.PokerRequest) (agent.PokerDecision, error) {
			return agent.PokerDecision{Action: "call", Confidence: 0.5, EstimatedWinProb: 0.5}, nil
		},
	}
}

// recordingSink captures events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Notify(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSink) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

package agent

import (
	"fmt"
	"sync"
)

// RiskLevel sets how much of the bankroll an agent is willing to put on a
// single match.
type RiskLevel string

const (
	RiskConservative RiskLevel = "conservative"
	RiskModerate     RiskLevel = "moderate"
	RiskAggressive   RiskLevel = "aggressive"
)

// stopLossFraction is the drawdown from the initial bankroll at which an
// agent stops taking matches.
const stopLossFraction = 0.30

// BankrollManager tracks one agent's balance across matches and sizes
// wagers with a capped Kelly fraction. Safe for concurrent use.
type BankrollManager struct {
	mu      sync.Mutex
	initial float64
	balance float64
	peak    float64
	risk    RiskLevel
	wins    int
	losses  int
	streak  int // positive run of wins, negative of losses
}

func NewBankrollManager(initial float64, risk RiskLevel) *BankrollManager {
	return &BankrollManager{initial: initial, balance: initial, peak: initial, risk: risk}
}

// MaxWagerPct is the hard cap on a single wager as a fraction of the
// current balance.
func (b *BankrollManager) MaxWagerPct() float64 {
	switch b.risk {
	case RiskConservative:
		return 0.05
	case RiskAggressive:
		return 0.15
	}
	return 0.10
}

// SuggestWager sizes a wager for an even-money match given an estimated win
// probability. Kelly for even odds is 2p-1; the result is capped at the
// risk level's fraction and floored at MinBid so an agent always has skin
// in the game.
func (b *BankrollManager) SuggestWager(winProb float64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	kelly := 2*winProb - 1
	if kelly < 0 {
		kelly = 0
	}
	frac := b.MaxWagerPct()
	if kelly < frac {
		frac = kelly
	}
	wager := b.balance * frac
	if wager < MinBid {
		wager = MinBid
	}
	if wager > b.balance {
		wager = b.balance
	}
	return wager
}

// RecordResult applies a settled match to the balance. Positive delta is a
// win, negative a loss.
func (b *BankrollManager) RecordResult(delta float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.balance += delta
	if b.balance < 0 {
		b.balance = 0
	}
	if b.balance > b.peak {
		b.peak = b.balance
	}
	if delta > 0 {
		b.wins++
		if b.streak < 0 {
			b.streak = 0
		}
		b.streak++
	} else if delta < 0 {
		b.losses++
		if b.streak > 0 {
			b.streak = 0
		}
		b.streak--
	}
}

// StopLossHit reports whether the drawdown from the initial bankroll has
// crossed the stop-loss threshold.
func (b *BankrollManager) StopLossHit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance <= b.initial*(1-stopLossFraction)
}

func (b *BankrollManager) Balance() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance
}

// PromptContext renders the bankroll line included in decision requests.
func (b *BankrollManager) PromptContext() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	run := "even"
	switch {
	case b.streak >= 2:
		run = fmt.Sprintf("%d-game win streak", b.streak)
	case b.streak <= -2:
		run = fmt.Sprintf("%d-game losing streak", -b.streak)
	}
	return fmt.Sprintf("Bankroll: %.4f MON (started %.4f, peak %.4f). Record %d-%d, %s. Risk profile: %s.",
		b.balance, b.initial, b.peak, b.wins, b.losses, run, b.risk)
}

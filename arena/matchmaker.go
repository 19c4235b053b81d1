package main

import (
	"context"
	"errors"
	"sort"

	"github.com/obseasd/monadarena/arena/games"
)

// splitmix64 derives well-mixed per-match seeds from a base counter.
func splitmix64(x int64) int64 {
	z := uint64(x) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4b9b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z = z ^ (z >> 31)
	return int64(z &^ (1 << 63)) // keep seeds positive
}

// Pairings matches agents by rating proximity: sort by Elo and pair
// neighbors. Agents past their stop-loss sit out.
func (m *Manager) Pairings() [][2]string {
	m.mu.Lock()
	eligible := make([]*AgentProfile, 0, len(m.agents))
	for _, p := range m.agents {
		if !p.Bankroll.StopLossHit() {
			eligible = append(eligible, p)
		}
	}
	m.mu.Unlock()

	sort.Slice(eligible, func(i, j int) bool { return eligible[i].Elo > eligible[j].Elo })

	var out [][2]string
	for i := 0; i+1 < len(eligible); i += 2 {
		out = append(out, [2]string{eligible[i].Address, eligible[i+1].Address})
	}
	return out
}

// gameCycle rotates the exhibition through every simulator.
var gameCycle = []games.GameType{games.Poker, games.Auction, games.Combat}

// RunExhibition plays the given number of rounds of rating-proximity
// pairings, cycling through game types. Individual match failures are
// logged and skipped; the exhibition keeps going.
func (m *Manager) RunExhibition(ctx context.Context, rounds int) error {
	for round := 0; round < rounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		gameType := gameCycle[round%len(gameCycle)]
		pairs := m.Pairings()
		if len(pairs) == 0 {
			m.log.Warn("no eligible pairings left, stopping exhibition")
			return nil
		}
		m.log.Infof("=== exhibition round %d/%d: %s, %d pairings ===", round+1, rounds, gameType, len(pairs))
		for _, pair := range pairs {
			if _, err := m.RunMatch(ctx, gameType, pair[0], pair[1]); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				m.log.Errorf("match %s vs %s skipped: %v", short(pair[0]), short(pair[1]), err)
			}
		}
	}
	return nil
}

func short(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:8]
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/obseasd/monadarena/arena/games"
)

// BracketMatch is one decided tournament match.
type BracketMatch struct {
	Round    int               `json:"round"`
	GameType games.GameType    `json:"game_type"`
	PlayerA  string            `json:"player_a"`
	PlayerB  string            `json:"player_b"`
	Winner   string            `json:"winner"`
	Result   *games.GameResult `json:"-"`
}

// Tournament is a single-elimination bracket over the roster. Field size is
// trimmed to the largest power of two, seeded by rating so the top seeds
// meet late.
type Tournament struct {
	Field    []string       `json:"field"`
	Matches  []BracketMatch `json:"matches"`
	Champion string         `json:"champion"`
}

// RunTournament seeds the current roster and plays the bracket, cycling
// game types per round. A decision-provider failure forfeits the match to
// the opponent rather than abandoning the bracket.
func (m *Manager) RunTournament(ctx context.Context) (*Tournament, error) {
	standings := m.Standings()
	if len(standings) < 2 {
		return nil, fmt.Errorf("tournament needs at least 2 agents, have %d", len(standings))
	}

	size := 1
	for size*2 <= len(standings) {
		size *= 2
	}
	seeds := make([]string, size)
	for i := 0; i < size; i++ {
		seeds[i] = standings[i].Address
	}

	// Standard seeding: 1 meets the lowest survivor, so fold the order.
	field := make([]string, 0, size)
	for i := 0; i < size/2; i++ {
		field = append(field, seeds[i], seeds[size-1-i])
	}

	t := &Tournament{Field: field}
	m.log.Infof("tournament: %d entrants", size)

	round := 0
	current := field
	for len(current) > 1 {
		round++
		gameType := gameCycle[(round-1)%len(gameCycle)]
		m.log.Infof("--- round %d (%s): %d players ---", round, gameType, len(current))

		var next []string
		for i := 0; i+1 < len(current); i += 2 {
			addrA, addrB := current[i], current[i+1]
			res, err := m.RunMatch(ctx, gameType, addrA, addrB)

			var winner string
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				// Forfeit: the side whose provider failed loses.
				winner = forfeitWinner(err, addrA, addrB)
				m.log.Warnf("match forfeited (%v), %s advances", err, short(winner))
			} else {
				winner = res.Winner
			}

			t.Matches = append(t.Matches, BracketMatch{
				Round:    round,
				GameType: gameType,
				PlayerA:  addrA,
				PlayerB:  addrB,
				Winner:   winner,
				Result:   res,
			})
			next = append(next, winner)
		}
		current = next
	}

	t.Champion = current[0]
	m.log.Infof("champion: %s", short(t.Champion))
	return t, nil
}

// forfeitWinner picks who advances when a match could not finish: the
// player whose provider did NOT fail, or A when the failure is not
// attributable.
func forfeitWinner(err error, addrA, addrB string) string {
	var de *games.DecisionError
	if errors.As(err, &de) && de.Player == addrA {
		return addrB
	}
	return addrA
}

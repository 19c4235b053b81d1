package games

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/obseasd/monadarena/arena/agent"
	"github.com/obseasd/monadarena/arena/engine"
)

// ContextFunc supplies opponent / bankroll prose for decision requests.
// Shared stores behind it are the caller's to serialize.
type ContextFunc func(player, opponent string) (opponentCtx, bankrollCtx string)

// PokerConfig tunes one heads-up hand. Zero values pick the defaults the
// arena uses: blinds at 5%/10% of the wager, clock-seeded deck.
type PokerConfig struct {
	SmallBlind float64 // absolute; 0 derives 5% of the wager at Play time
	Seed       int64
	Sink       EventSink
	Context    ContextFunc
}

// PokerGame plays one complete heads-up Texas Hold'em hand: four streets of
// betting over a freshly shuffled deck, ending in a fold or a showdown
// scored by the card engine.
type PokerGame struct {
	providers map[string]agent.DecisionProvider
	cfg       PokerConfig

	deck      *engine.Deck
	community []engine.Card
	hands     map[string][]engine.Card
	pot       float64
	actions   []PokerAction
	decisions []DecisionRecord
	log       *logrus.Entry
}

// PokerAction is one line of the per-street action log.
type PokerAction struct {
	Street    string  `json:"street"`
	Player    string  `json:"player"`
	Action    string  `json:"action"`
	Amount    float64 `json:"amount"`
	BluffProb float64 `json:"bluff_prob"`
}

// PokerDetails is the game-specific block of the GameResult.
type PokerDetails struct {
	HandA     string        `json:"hand_a"`
	HandB     string        `json:"hand_b"`
	HandAName string        `json:"hand_a_name"`
	HandBName string        `json:"hand_b_name"`
	Community string        `json:"community"`
	Pot       float64       `json:"pot"`
	WinMethod string        `json:"win_method"`
	Actions   []PokerAction `json:"actions"`
}

var pokerStreets = []struct {
	name string
	deal int
}{
	{"preflop", 0},
	{"flop", 3},
	{"turn", 1},
	{"river", 1},
}

func NewPokerGame(providers map[string]agent.DecisionProvider, cfg PokerConfig) *PokerGame {
	return &PokerGame{
		providers: providers,
		cfg:       cfg,
		deck:      engine.NewDeck(cfg.Seed),
		hands:     map[string][]engine.Card{},
		log:       logrus.WithField("game", "poker"),
	}
}

func (g *PokerGame) Type() GameType { return Poker }

func (g *PokerGame) StateSummary() string {
	community := g.communityStr()
	return fmt.Sprintf("Pot: %.4f MON | Community: %s", g.pot, community)
}

// Play runs one hand to completion. Both players start with the wager as
// their stack; player A posts the small blind, player B the big blind.
func (g *PokerGame) Play(ctx context.Context, playerA, playerB string, wager float64) (*GameResult, error) {
	sb := g.cfg.SmallBlind
	if sb <= 0 {
		sb = wager * 0.05
	}
	bb := sb * 2

	g.deck.Reset()
	g.community = g.community[:0]
	g.pot = 0
	g.actions = nil
	g.decisions = nil

	stacks := map[string]float64{playerA: wager, playerB: wager}
	g.hands = map[string][]engine.Card{
		playerA: g.deck.Deal(2),
		playerB: g.deck.Deal(2),
	}

	sbPost := minFloat(sb, stacks[playerA])
	bbPost := minFloat(bb, stacks[playerB])
	stacks[playerA] -= sbPost
	stacks[playerB] -= bbPost
	g.pot = sbPost + bbPost

	g.log.Infof("hand start: %s vs %s wager=%.4f blinds=%.4f/%.4f", short(playerA), short(playerB), wager, sbPost, bbPost)
	emit(g.cfg.Sink, Event{Type: "poker_deal", Data: map[string]any{
		"player_a": playerA, "player_b": playerB, "pot": g.pot,
	}})

	var folded string
	for _, street := range pokerStreets {
		if street.deal > 0 {
			g.community = append(g.community, g.deck.Deal(street.deal)...)
		}
		g.log.Infof("--- %s --- board=[%s] pot=%.4f", strings.ToUpper(street.name), g.communityStr(), g.pot)

		var err error
		folded, err = g.runBettingRound(ctx, street.name, playerA, playerB, sb, bb, stacks)
		if err != nil {
			return nil, err
		}
		if folded != "" {
			break
		}
	}

	details := PokerDetails{
		HandA:     g.handStr(playerA),
		HandB:     g.handStr(playerB),
		Community: g.communityStr(),
	}

	var winner, loser string
	if folded != "" {
		winner, loser = playerB, folded
		if folded == playerB {
			winner = playerA
		}
		details.WinMethod = "fold"
		if folded == playerA {
			details.HandAName = "folded"
		} else {
			details.HandBName = "folded"
		}
	} else {
		scoreA := engine.Score(append(append([]engine.Card{}, g.hands[playerA]...), g.community...))
		scoreB := engine.Score(append(append([]engine.Card{}, g.hands[playerB]...), g.community...))
		details.HandAName = scoreA.Category.String()
		details.HandBName = scoreB.Category.String()

		// Exact ties go to player A. Asymmetric but fixed.
		if scoreA.Less(scoreB) {
			winner, loser = playerB, playerA
		} else {
			winner, loser = playerA, playerB
		}
		details.WinMethod = "showdown"
		g.log.Infof("showdown: %s=[%s] %s vs %s=[%s] %s",
			short(playerA), details.HandA, details.HandAName,
			short(playerB), details.HandB, details.HandBName)
	}

	details.Pot = g.pot
	details.Actions = g.actions

	g.log.Infof("winner: %s by %s pot=%.4f", short(winner), details.WinMethod, g.pot)
	emit(g.cfg.Sink, Event{Type: "poker_end", Data: map[string]any{
		"winner": winner, "method": details.WinMethod, "pot": g.pot,
	}})

	return &GameResult{
		GameType:     Poker,
		Winner:       winner,
		Loser:        loser,
		Wager:        wager,
		Details:      details,
		RoundsPlayed: len(g.actions),
		Decisions:    g.decisions,
	}, nil
}

// runBettingRound plays out one street and returns the address of the
// player who folded, if any. Preflop the small blind owes the blind
// shortfall; postflop nobody owes anything at the start.
//
// A street completes once both players have acted and neither owes chips.
// The loop is capped at 4 action passes (bet, raise, re-raise, cap) to
// bound raise wars.
func (g *PokerGame) runBettingRound(ctx context.Context, street, sbPlayer, bbPlayer string, smallBlind, bigBlind float64, stacks map[string]float64) (string, error) {
	toCall := map[string]float64{sbPlayer: 0, bbPlayer: 0}
	if street == "preflop" {
		toCall[sbPlayer] = bigBlind - smallBlind
	}
	hasActed := map[string]bool{sbPlayer: false, bbPlayer: false}
	actors := []string{sbPlayer, bbPlayer}

	for pass := 0; pass < 4; pass++ {
		for _, player := range actors {
			opponent := bbPlayer
			if player == bbPlayer {
				opponent = sbPlayer
			}

			if hasActed[player] && toCall[player] <= 0 {
				continue
			}
			if stacks[player] <= 0 {
				hasActed[player] = true
				continue
			}

			owed := maxFloat(toCall[player], 0)
			position := "SB"
			if player == bbPlayer {
				position = "BB"
			}

			req := agent.PokerRequest{
				HoleCards:      cardStrings(g.hands[player]),
				CommunityCards: cardStrings(g.community),
				Pot:            g.pot,
				Stack:          stacks[player],
				OpponentStack:  stacks[opponent],
				Position:       position,
				ToCall:         owed,
				Street:         street,
			}
			if g.cfg.Context != nil {
				req.OpponentContext, req.BankrollContext = g.cfg.Context(player, opponent)
			}

			provider, ok := g.providers[player]
			if !ok {
				return "", &DecisionError{Game: Poker, Player: player, Stage: street, Err: errNoProvider}
			}
			decision, err := provider.PokerAction(ctx, req)
			if err != nil {
				return "", &DecisionError{Game: Poker, Player: player, Stage: street, Err: err}
			}
			coerced := decision.Sanitize(owed)

			g.decisions = append(g.decisions, DecisionRecord{
				Player:   player,
				Stage:    street,
				Request:  req,
				Response: decision,
				Coerced:  coerced,
			})
			g.actions = append(g.actions, PokerAction{
				Street:    street,
				Player:    player,
				Action:    decision.Action,
				Amount:    decision.RaiseAmount,
				BluffProb: decision.BluffProbability,
			})
			emit(g.cfg.Sink, Event{Type: "poker_action", Data: map[string]any{
				"street": street, "player": player, "action": decision.Action, "pot": g.pot,
			}})

			switch decision.Action {
			case "fold":
				g.log.Infof("  %s: FOLD", short(player))
				return player, nil

			case "raise":
				// Pay off the outstanding call first, then raise on top.
				callAmt := minFloat(owed, stacks[player])
				stacks[player] -= callAmt
				g.pot += callAmt

				raiseAmt := decision.RaiseAmount
				raiseAmt = maxFloat(raiseAmt, bigBlind)
				raiseAmt = minFloat(raiseAmt, stacks[player])
				stacks[player] -= raiseAmt
				g.pot += raiseAmt

				toCall[opponent] = raiseAmt
				toCall[player] = 0
				hasActed[player] = true
				g.log.Infof("  %s: RAISE %.4f (pot=%.4f)", short(player), raiseAmt, g.pot)

			default: // call / check
				callAmt := minFloat(owed, stacks[player])
				stacks[player] -= callAmt
				g.pot += callAmt
				toCall[player] = 0
				hasActed[player] = true
				if callAmt > 0 {
					g.log.Infof("  %s: CALL %.4f (pot=%.4f)", short(player), callAmt, g.pot)
				} else {
					g.log.Infof("  %s: CHECK", short(player))
				}
			}
		}

		if hasActed[sbPlayer] && hasActed[bbPlayer] && toCall[sbPlayer] <= 0 && toCall[bbPlayer] <= 0 {
			break
		}
	}
	return "", nil
}

func (g *PokerGame) handStr(player string) string {
	return strings.Join(cardStrings(g.hands[player]), ", ")
}

func (g *PokerGame) communityStr() string {
	if len(g.community) == 0 {
		return "none"
	}
	return strings.Join(cardStrings(g.community), ", ")
}

func cardStrings(cs []engine.Card) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}

package games

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/obseasd/monadarena/arena/agent"
)

// AuctionRounds is the number of sealed-bid rounds in one match.
const AuctionRounds = 5

// AuctionItem is a catalog entry; the true value each round is drawn
// uniformly from [MinValue, MaxValue].
type AuctionItem struct {
	Name     string
	MinValue float64
	MaxValue float64
}

var auctionCatalog = []AuctionItem{
	{"Rare NFT Collection", 0.01, 0.05},
	{"DeFi Yield Position", 0.005, 0.03},
	{"Governance Token Bundle", 0.008, 0.04},
	{"Exclusive Access Pass", 0.003, 0.02},
	{"Validator Stake Slot", 0.015, 0.06},
}

// AuctionRound is one settled round of the log.
type AuctionRound struct {
	Round     int     `json:"round"`
	Item      string  `json:"item"`
	TrueValue float64 `json:"true_value"`
	BidA      float64 `json:"bid_a"`
	BidB      float64 `json:"bid_b"`
	Winner    string  `json:"winner"`
	Profit    float64 `json:"profit"`
	CoinFlip  bool    `json:"coin_flip,omitempty"`
	StrategyA string  `json:"strategy_a,omitempty"`
	StrategyB string  `json:"strategy_b,omitempty"`
}

// AuctionDetails is the game-specific block of the GameResult.
type AuctionDetails struct {
	Rounds    []AuctionRound `json:"rounds"`
	ProfitA   float64        `json:"profit_a"`
	ProfitB   float64        `json:"profit_b"`
	BudgetA   float64        `json:"budget_a"`
	BudgetB   float64        `json:"budget_b"`
	WinMethod string         `json:"win_method"`
}

// AuctionConfig tunes one auction match.
type AuctionConfig struct {
	Rounds  int // 0 means AuctionRounds
	Seed    int64
	Sink    EventSink
	Context ContextFunc
}

// AuctionGame plays a sealed-bid valuation duel: each round both players
// bid blind on an item whose true value they only see a range estimate of.
// The higher bidder pays their bid and books true value minus bid as
// profit; cumulative profit decides the match.
type AuctionGame struct {
	providers map[string]agent.DecisionProvider
	cfg       AuctionConfig

	round     int
	rounds    []AuctionRound
	decisions []DecisionRecord
	rng       *rand.Rand
	log       *logrus.Entry
}

func NewAuctionGame(providers map[string]agent.DecisionProvider, cfg AuctionConfig) *AuctionGame {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = AuctionRounds
	}
	return &AuctionGame{
		providers: providers,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		log:       logrus.WithField("game", "auction"),
	}
}

func (g *AuctionGame) Type() GameType { return Auction }

func (g *AuctionGame) StateSummary() string {
	return fmt.Sprintf("Round %d/%d, %d settled", g.round, g.cfg.Rounds, len(g.rounds))
}

// Play runs all rounds. Each player starts with the wager as their bidding
// budget; budgets shrink only when a bid wins.
func (g *AuctionGame) Play(ctx context.Context, playerA, playerB string, wager float64) (*GameResult, error) {
	g.rounds = nil
	g.decisions = nil

	budgets := map[string]float64{playerA: wager, playerB: wager}
	profits := map[string]float64{playerA: 0, playerB: 0}
	history := map[string][]agent.BidRecord{}

	g.log.Infof("auction start: %s vs %s budget=%.4f rounds=%d",
		short(playerA), short(playerB), wager, g.cfg.Rounds)
	emit(g.cfg.Sink, Event{Type: "auction_start", Data: map[string]any{
		"player_a": playerA, "player_b": playerB, "budget": wager,
	}})

	for g.round = 1; g.round <= g.cfg.Rounds; g.round++ {
		item := auctionCatalog[g.rng.Intn(len(auctionCatalog))]
		trueValue := item.MinValue + g.rng.Float64()*(item.MaxValue-item.MinValue)

		g.log.Infof("--- round %d: %s (worth %.4f-%.4f) ---", g.round, item.Name, item.MinValue, item.MaxValue)

		bids := map[string]float64{}
		strategies := map[string]string{}
		for _, player := range []string{playerA, playerB} {
			opponent := playerB
			if player == playerB {
				opponent = playerA
			}

			req := agent.AuctionRequest{
				ItemDescription: item.Name,
				EstimatedValue:  (item.MinValue + item.MaxValue) / 2,
				MinValue:        item.MinValue,
				MaxValue:        item.MaxValue,
				Budget:          budgets[player],
				NumBidders:      2,
				Round:           g.round,
				TotalRounds:     g.cfg.Rounds,
				BidHistory:      history[player],
			}
			if g.cfg.Context != nil {
				req.OpponentContext, req.BankrollContext = g.cfg.Context(player, opponent)
			}

			stage := fmt.Sprintf("round_%d", g.round)
			provider, ok := g.providers[player]
			if !ok {
				return nil, &DecisionError{Game: Auction, Player: player, Stage: stage, Err: errNoProvider}
			}
			decision, err := provider.AuctionBid(ctx, req)
			if err != nil {
				return nil, &DecisionError{Game: Auction, Player: player, Stage: stage, Err: err}
			}
			coerced := decision.Sanitize(budgets[player])

			g.decisions = append(g.decisions, DecisionRecord{
				Player:   player,
				Stage:    stage,
				Request:  req,
				Response: decision,
				Coerced:  coerced,
			})
			bids[player] = decision.BidAmount
			strategies[player] = decision.Strategy
			g.log.Infof("  %s bids %.4f (%s)", short(player), decision.BidAmount, decision.Strategy)
		}

		roundWinner := playerA
		coinFlip := false
		switch {
		case bids[playerB] > bids[playerA]:
			roundWinner = playerB
		case bids[playerB] == bids[playerA]:
			coinFlip = true
			if g.rng.Intn(2) == 1 {
				roundWinner = playerB
			}
		}

		winningBid := bids[roundWinner]
		profit := trueValue - winningBid
		budgets[roundWinner] -= winningBid
		profits[roundWinner] += profit

		g.rounds = append(g.rounds, AuctionRound{
			Round:     g.round,
			Item:      item.Name,
			TrueValue: trueValue,
			BidA:      bids[playerA],
			BidB:      bids[playerB],
			Winner:    roundWinner,
			Profit:    profit,
			CoinFlip:  coinFlip,
			StrategyA: strategies[playerA],
			StrategyB: strategies[playerB],
		})
		for _, player := range []string{playerA, playerB} {
			history[player] = append(history[player], agent.BidRecord{
				Round:      g.round,
				Item:       item.Name,
				YourBid:    bids[player],
				WinningBid: winningBid,
				TrueValue:  trueValue,
			})
		}

		g.log.Infof("  %s wins %s at %.4f (true value %.4f, profit %+.4f)",
			short(roundWinner), item.Name, winningBid, trueValue, profit)
		emit(g.cfg.Sink, Event{Type: "auction_round", Data: map[string]any{
			"round": g.round, "item": item.Name, "winner": roundWinner,
			"winning_bid": winningBid, "true_value": trueValue,
		}})
	}

	// Cumulative profit decides the match; ties go to player A.
	winner, loser := playerA, playerB
	if profits[playerB] > profits[playerA] {
		winner, loser = playerB, playerA
	}

	details := AuctionDetails{
		Rounds:    g.rounds,
		ProfitA:   profits[playerA],
		ProfitB:   profits[playerB],
		BudgetA:   budgets[playerA],
		BudgetB:   budgets[playerB],
		WinMethod: "profit",
	}

	g.log.Infof("winner: %s (%.4f vs %.4f profit)", short(winner), profits[winner], profits[loser])
	emit(g.cfg.Sink, Event{Type: "auction_end", Data: map[string]any{
		"winner": winner, "profit_a": profits[playerA], "profit_b": profits[playerB],
	}})

	return &GameResult{
		GameType:     Auction,
		Winner:       winner,
		Loser:        loser,
		Wager:        wager,
		Details:      details,
		RoundsPlayed: len(g.rounds),
		Decisions:    g.decisions,
	}, nil
}

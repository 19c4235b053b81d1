package agent

import "context"

// MinBid is the smallest positive auction bid; passing wastes a round.
const MinBid = 0.001

// PokerRequest is the JSON snapshot sent to the decision provider for one
// poker action.
type PokerRequest struct {
	HoleCards       []string `json:"hole_cards"`
	CommunityCards  []string `json:"community_cards"`
	Pot             float64  `json:"pot"`
	Stack           float64  `json:"stack"`
	OpponentStack   float64  `json:"opponent_stack"`
	Position        string   `json:"position"` // "SB" | "BB"
	ToCall          float64  `json:"to_call"`
	Street          string   `json:"street"` // preflop|flop|turn|river
	OpponentContext string   `json:"opponent_context,omitempty"`
	BankrollContext string   `json:"bankroll_context,omitempty"`
}

// PokerDecision is the provider's answer. Missing fields take the
// documented defaults (see DefaultPokerDecision).
type PokerDecision struct {
	Reasoning        string  `json:"reasoning,omitempty"`
	Action           string  `json:"action"` // fold|call|raise
	RaiseAmount      float64 `json:"raise_amount"`
	Confidence       float64 `json:"confidence"`
	BluffProbability float64 `json:"bluff_probability"`
	EstimatedWinProb float64 `json:"estimated_win_prob"`
}

// DefaultPokerDecision carries the defaults substituted for missing fields:
// unmarshal on top of it and absent keys keep these values.
func DefaultPokerDecision() PokerDecision {
	return PokerDecision{Action: "fold", Confidence: 0.5, EstimatedWinProb: 0.5}
}

// Sanitize coerces an out-of-contract poker decision into a legal one and
// returns a note describing the repair (empty when nothing was repaired).
// A fold with nothing to call is a free check and is rewritten to call.
func (d *PokerDecision) Sanitize(toCall float64) string {
	switch d.Action {
	case "fold", "call", "raise":
	default:
		bad := d.Action
		d.Action = "fold"
		if toCall <= 0 {
			d.Action = "call"
		}
		return "action " + quoted(bad) + " not in {fold,call,raise}; defaulted to " + quoted(d.Action)
	}
	if d.Action == "fold" && toCall <= 0 {
		d.Action = "call"
		return `fold with zero to-call rewritten to "call" (check)`
	}
	return ""
}

// BidRecord is one line of a player's own auction history, shown back to
// the provider on later rounds.
type BidRecord struct {
	Round      int     `json:"round"`
	Item       string  `json:"item"`
	YourBid    float64 `json:"your_bid"`
	WinningBid float64 `json:"winning_bid"`
	TrueValue  float64 `json:"true_value"`
}

// AuctionRequest is the snapshot for one sealed bid.
type AuctionRequest struct {
	ItemDescription string      `json:"item_description"`
	EstimatedValue  float64     `json:"estimated_value"`
	MinValue        float64     `json:"min_value"`
	MaxValue        float64     `json:"max_value"`
	Budget          float64     `json:"budget"`
	NumBidders      int         `json:"num_bidders"`
	Round           int         `json:"round"`
	TotalRounds     int         `json:"total_rounds"`
	BidHistory      []BidRecord `json:"bid_history,omitempty"`
	OpponentContext string      `json:"opponent_context,omitempty"`
	BankrollContext string      `json:"bankroll_context,omitempty"`
}

type AuctionDecision struct {
	Reasoning  string  `json:"reasoning,omitempty"`
	BidAmount  float64 `json:"bid_amount"`
	Confidence float64 `json:"confidence"`
	Strategy   string  `json:"strategy"`
}

func DefaultAuctionDecision() AuctionDecision {
	return AuctionDecision{Confidence: 0.5, Strategy: "value"}
}

// Sanitize clamps the bid into [MinBid, budget] and notes the repair.
func (d *AuctionDecision) Sanitize(budget float64) string {
	switch {
	case d.BidAmount > budget:
		d.BidAmount = budget
		return "bid over budget; clamped"
	case d.BidAmount < MinBid:
		d.BidAmount = MinBid
		return "bid below minimum; raised to floor"
	}
	return ""
}

// AbilityOption is one affordable ability offered to the provider, in
// catalog order.
type AbilityOption struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CombatRequest is the snapshot for one combat turn.
type CombatRequest struct {
	Fighter   string          `json:"fighter"`
	Opponent  string          `json:"opponent"`
	Abilities []AbilityOption `json:"abilities"`
	Turn      int             `json:"turn"`
	MaxTurns  int             `json:"max_turns"`
}

type CombatDecision struct {
	Reasoning  string  `json:"reasoning,omitempty"`
	Ability    string  `json:"ability"`
	Confidence float64 `json:"confidence"`
}

func DefaultCombatDecision() CombatDecision {
	return CombatDecision{Confidence: 0.5}
}

// Sanitize replaces an ability outside the affordable set with the first
// affordable one (catalog order), which keeps the repair deterministic.
func (d *CombatDecision) Sanitize(affordable []AbilityOption) string {
	for _, a := range affordable {
		if a.Name == d.Ability {
			return ""
		}
	}
	if len(affordable) == 0 {
		return ""
	}
	bad := d.Ability
	d.Ability = affordable[0].Name
	return "ability " + quoted(bad) + " not affordable; substituted " + quoted(d.Ability)
}

func quoted(s string) string { return `"` + s + `"` }

// DecisionProvider is the external oracle answering every in-game choice.
// Calls are synchronous; the simulators enforce no timeout of their own, so
// wrap the context if bounded latency is needed. An error from any method
// is fatal for the match (ExternalFailure) — the pending action has not
// touched game state yet.
type DecisionProvider interface {
	PokerAction(ctx context.Context, req PokerRequest) (PokerDecision, error)
	AuctionBid(ctx context.Context, req AuctionRequest) (AuctionDecision, error)
	CombatAction(ctx context.Context, req CombatRequest) (CombatDecision, error)
}

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/obseasd/monadarena/arena/agent"
)

// Personality system-prompt fragments. These are what make agents play
// genuinely differently; every strategic decision goes through the model,
// no heuristic shortcuts.
var personalityPoker = map[string]string{
	"aggressive": "You are an AGGRESSIVE poker player. You prefer to bet and raise rather than call or fold. " +
		"You apply maximum pressure with frequent raises, large bet sizes, and well-timed bluffs. " +
		"You rarely fold unless your hand is truly hopeless AND you face a big raise. " +
		"You see weakness in opponents and exploit it with big bets. " +
		"When in doubt, RAISE. Your bluff frequency is high (30-40%). " +
		"Minimum raise size should be 50-75% of the pot.",
	"conservative": "You are a CONSERVATIVE poker player. You only play strong hands and fold marginal ones. " +
		"You prefer calling over raising and only raise with premium holdings (top pair+, overpairs). " +
		"You rarely bluff (under 10%) and wait patiently for the best spots. " +
		"You protect your bankroll above all else. When in doubt, CALL rather than fold, " +
		"but FOLD if you have bottom pair or worse facing a raise.",
	"balanced": "You are a BALANCED poker player who mixes aggression with discipline. " +
		"You raise with strong hands, call with decent draws and pairs, fold true garbage. " +
		"You bluff occasionally (15-25%) to stay unpredictable - especially on scary boards. " +
		"You size your bets based on pot odds: 50-70% pot for value, 30-50% for bluffs. " +
		"You adapt based on position, pot odds, and opponent tendencies.",
	"adaptive": "You are an ADAPTIVE poker player. Your primary strength is reading opponents. " +
		"Against aggressive opponents: trap with strong hands (just call), then raise river. " +
		"Against passive opponents: bluff more, bet big with draws, steal pots aggressively. " +
		"Against tight opponents: raise their blinds, pressure their folds. " +
		"Against loose opponents: tighten up, value bet relentlessly. " +
		"USE THE OPPONENT DATA to make every decision. Adjust your bluff frequency based on their fold rate.",
}

var personalityAuction = map[string]string{
	"aggressive":   "You bid aggressively, 10-20% above estimated value to ensure wins. You hate losing auctions.",
	"conservative": "You bid conservatively, always 15-25% below estimated value. Missing items is fine; overpaying is not.",
	"balanced":     "You bid at fair value with slight adjustments based on competition. Target 5-10% below value.",
	"adaptive":     "You study opponent bid history carefully and bid just enough to win. Outbid predictable opponents by the minimum margin.",
}

var personalityCombat = map[string]string{
	"aggressive":   "You are a BERSERKER. Always pick the highest-damage ability. Attack relentlessly. Only heal when below 20% HP. Never defend - it wastes turns.",
	"conservative": "You are a GUARDIAN. Prioritize survival: heal often, defend when low, use DoTs for safe damage. Conserve MP for heals. Patience wins.",
	"balanced":     "You are a TACTICIAN. Analyze HP/MP ratios. Use high-damage abilities when the opponent is vulnerable. Defend when expecting a big hit. Heal proactively around 50% HP.",
	"adaptive":     "You are a STRATEGIST. Read the opponent's pattern. If they attack a lot, defend then counter. If they heal, use your strongest attack. Mirror their weakness.",
}

func personality(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return m["balanced"]
}

// Provider answers game decisions by prompting a chat model in character.
// It implements agent.DecisionProvider; one Provider per agent personality.
type Provider struct {
	client      *Client
	Personality string
	log         *logrus.Entry
}

func NewProvider(client *Client, personality string) *Provider {
	return &Provider{
		client:      client,
		Personality: personality,
		log:         logrus.WithField("personality", personality),
	}
}

func (p *Provider) pokerSystem() string {
	return fmt.Sprintf(`You are an expert AI poker player competing in heads-up Texas Hold'em on the Monad blockchain.

YOUR PERSONALITY: %s

CRITICAL RULES:
- Stay FULLY in character with your personality for EVERY decision
- Do NOT fold preflop with any Ace, any King, any pocket pair, or suited connectors
- With top pair or better, you MUST raise (not just call)
- Consider bluffing with draws (flush draws, straight draws) - that's smart poker
- When to_call is 0.0, you can CHECK (action: "call") or BET (action: "raise") - never fold for free
- raise_amount should be meaningful: at least 25%% of the pot, up to 100%% of the pot
- Always respond with valid JSON only - no markdown, no extra text.`, personality(personalityPoker, p.Personality))
}

// PokerAction prompts for one betting decision. Absent response keys keep
// the defaults from agent.DefaultPokerDecision.
func (p *Provider) PokerAction(ctx context.Context, req agent.PokerRequest) (agent.PokerDecision, error) {
	community := strings.Join(req.CommunityCards, ", ")
	if community == "" {
		community = "None (preflop)"
	}
	opponentCtx := req.OpponentContext
	if opponentCtx == "" {
		opponentCtx = "No opponent data yet - play your default style."
	}
	bankrollCtx := req.BankrollContext
	if bankrollCtx == "" {
		bankrollCtx = "No bankroll data."
	}

	prompt := fmt.Sprintf(`GAME STATE:
- Your hand: %s
- Community cards: %s
- Pot size: %.4f MON
- Your stack: %.4f MON
- Opponent stack: %.4f MON
- Position: %s
- Current bet to call: %.4f MON
- Round: %s

%s

%s

Analyze step by step:
1. Hand strength: What do you have? Estimate win probability (be specific with %%)
2. Pot odds: Is calling profitable? (to_call / (pot + to_call))
3. Opponent read: Based on their profile, what are they likely holding?
4. Your personality says to play %s - what does that mean here?
5. Bluff assessment: Would a bluff work here given the board and opponent?

Respond in this EXACT JSON format:
{
    "reasoning": "Your step-by-step analysis (2-4 sentences, be specific)",
    "action": "fold" or "call" or "raise",
    "raise_amount": 0.0,
    "confidence": 0.0,
    "bluff_probability": 0.0,
    "estimated_win_prob": 0.0
}`,
		strings.Join(req.HoleCards, ", "), community, req.Pot, req.Stack, req.OpponentStack,
		req.Position, req.ToCall, req.Street, opponentCtx, bankrollCtx, p.Personality)

	raw, err := p.client.Complete(ctx, p.pokerSystem(), prompt)
	if err != nil {
		return agent.PokerDecision{}, err
	}
	decision := agent.DefaultPokerDecision()
	if err := parseDecision(raw, &decision); err != nil {
		return agent.PokerDecision{}, fmt.Errorf("poker decision parse: %w", err)
	}
	p.log.Infof("poker: %s (conf=%.0f%%, bluff=%.0f%%)",
		decision.Action, decision.Confidence*100, decision.BluffProbability*100)
	return decision, nil
}

func (p *Provider) auctionSystem() string {
	return fmt.Sprintf(`You are a strategic bidder in blind auctions on the Monad blockchain.

YOUR PERSONALITY: %s

RULES:
- Always bid a positive amount (at least 0.001 MON) - passing wastes opportunities
- Stay in character with your personality
- Always respond with valid JSON only - no markdown, no extra text.`, personality(personalityAuction, p.Personality))
}

// AuctionBid prompts for one sealed bid.
func (p *Provider) AuctionBid(ctx context.Context, req agent.AuctionRequest) (agent.AuctionDecision, error) {
	history := "None yet."
	if len(req.BidHistory) > 0 {
		var lines []string
		for _, b := range req.BidHistory {
			lines = append(lines, fmt.Sprintf("  Round %d: You bid %.4f, Winner bid %.4f", b.Round, b.YourBid, b.WinningBid))
		}
		history = strings.Join(lines, "\n")
	}
	opponentCtx := req.OpponentContext
	if opponentCtx == "" {
		opponentCtx = "No opponent data yet."
	}
	bankrollCtx := req.BankrollContext
	if bankrollCtx == "" {
		bankrollCtx = "No bankroll data."
	}

	prompt := fmt.Sprintf(`AUCTION STATE:
- Item: %s
- Estimated value: %.4f MON (range: %.4f-%.4f)
- Your budget: %.4f MON
- Number of bidders: %d
- Round: %d/%d

%s

%s

PREVIOUS BIDS THIS AUCTION:
%s

Analyze:
1. What is the item truly worth to you?
2. What will competitors likely bid based on their history?
3. What's the optimal bid to maximize your expected profit?
4. Budget management - how much can you afford?

Respond in this exact JSON format:
{
    "reasoning": "Your analysis (2-4 sentences)",
    "bid_amount": 0.0,
    "confidence": 0.0,
    "strategy": "aggressive" or "conservative" or "value"
}`,
		req.ItemDescription, req.EstimatedValue, req.MinValue, req.MaxValue, req.Budget,
		req.NumBidders, req.Round, req.TotalRounds, opponentCtx, bankrollCtx, history)

	raw, err := p.client.Complete(ctx, p.auctionSystem(), prompt)
	if err != nil {
		return agent.AuctionDecision{}, err
	}
	decision := agent.DefaultAuctionDecision()
	if err := parseDecision(raw, &decision); err != nil {
		return agent.AuctionDecision{}, fmt.Errorf("auction decision parse: %w", err)
	}
	p.log.Infof("auction bid: %.4f MON (%s)", decision.BidAmount, decision.Strategy)
	return decision, nil
}

func (p *Provider) combatSystem() string {
	return fmt.Sprintf(`You are an expert AI RPG fighter in a turn-based combat arena on the Monad blockchain.

YOUR PERSONALITY: %s

RULES:
- Pick ONE ability from the available options each turn
- Manage your MP carefully - if you run out, you can only defend
- Defending halves damage AND restores MP - use it tactically
- DoT effects stack and tick every turn - they're efficient damage
- HP management is key: don't waste heals when at high HP
- Speed determines who acts first each turn
- Always respond with valid JSON only - no markdown, no extra text.`, personality(personalityCombat, p.Personality))
}

// CombatAction prompts for one turn's ability choice.
func (p *Provider) CombatAction(ctx context.Context, req agent.CombatRequest) (agent.CombatDecision, error) {
	var abilities []string
	for _, a := range req.Abilities {
		abilities = append(abilities, fmt.Sprintf("  - %s: %s", a.Name, a.Description))
	}

	prompt := fmt.Sprintf(`BATTLE STATE:
- Your fighter: %s
- Opponent: %s
- Turn: %d/%d

AVAILABLE ABILITIES:
%s

Analyze:
1. HP comparison: Who is winning? How many hits can each take?
2. MP management: Can you afford your best moves? Should you defend to regen MP?
3. Status effects: Any DoTs or debuffs to account for?
4. Opponent prediction: What will they likely do this turn?
5. Win condition: What's your path to victory from here?

Respond in this EXACT JSON format:
{
    "reasoning": "Your tactical analysis (2-3 sentences)",
    "ability": "ability_name_here",
    "confidence": 0.0
}`,
		req.Fighter, req.Opponent, req.Turn, req.MaxTurns, strings.Join(abilities, "\n"))

	raw, err := p.client.Complete(ctx, p.combatSystem(), prompt)
	if err != nil {
		return agent.CombatDecision{}, err
	}
	decision := agent.DefaultCombatDecision()
	if err := parseDecision(raw, &decision); err != nil {
		return agent.CombatDecision{}, fmt.Errorf("combat decision parse: %w", err)
	}
	if decision.Ability == "" && len(req.Abilities) > 0 {
		decision.Ability = req.Abilities[0].Name
	}
	p.log.Infof("combat: %s (conf=%.0f%%)", decision.Ability, decision.Confidence*100)
	return decision, nil
}

// TrashTalk generates a one-liner before a match. Failures fall back to a
// canned line; banter must never block a match.
func (p *Provider) TrashTalk(ctx context.Context, myName, opponentName, opponentPersonality, gameType string) string {
	system := fmt.Sprintf("You are %s, a %s competitor in a blockchain gaming arena. "+
		"Generate a single SHORT trash talk line (max 20 words) before facing %s "+
		"(who plays %s style) in %s. "+
		"Be witty, creative, and stay in-character with your %s personality. "+
		"Output ONLY the trash talk line, nothing else. No quotes.",
		myName, p.Personality, opponentName, opponentPersonality, gameType, p.Personality)
	prompt := fmt.Sprintf("Trash talk %s before your %s match. One line only.", opponentName, gameType)

	line, err := p.client.CompleteText(ctx, system, prompt)
	if err != nil {
		return fmt.Sprintf("Let's see what you've got, %s.", opponentName)
	}
	return strings.Trim(strings.TrimSpace(line), `"'`)
}

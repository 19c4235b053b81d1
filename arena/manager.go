package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/obseasd/monadarena/arena/agent"
	"github.com/obseasd/monadarena/arena/games"
	"github.com/obseasd/monadarena/arena/store"
)

// ErrStopLoss is returned when an agent's bankroll gate refuses a match.
var ErrStopLoss = errors.New("agent stop-loss reached")

const (
	defaultEloStart = 1500.0
	defaultEloK     = 32.0
)

// Banter is the optional trash-talk hook a provider may implement.
type Banter interface {
	TrashTalk(ctx context.Context, myName, opponentName, opponentPersonality, gameType string) string
}

// AgentProfile is one registered competitor: its decision provider plus the
// arena-side state (bankroll, opponent models, rating).
type AgentProfile struct {
	Address     string
	Name        string
	Personality string
	Risk        agent.RiskLevel

	Provider agent.DecisionProvider
	Bankroll *agent.BankrollManager
	Tracker  *agent.OpponentTracker

	Elo    float64
	Wins   int
	Losses int
	Games  int
}

// Manager owns the agent roster, runs matches, settles wagers, and keeps
// ratings. One Manager per process; matches on distinct pairs may run
// concurrently.
type Manager struct {
	mu        sync.Mutex
	agents    map[string]*AgentProfile
	rivalries map[string]*Elo // head-to-head ratings keyed by ordered pair

	db        *store.DB // nil disables persistence
	sink      games.EventSink
	baseWager float64
	eloK      float64
	seedBase  int64
	seedCtr   int64
	log       *logrus.Entry
}

func NewManager(db *store.DB, sink games.EventSink, baseWager float64, seedBase int64) *Manager {
	if baseWager <= 0 {
		baseWager = 0.1
	}
	return &Manager{
		agents:    map[string]*AgentProfile{},
		rivalries: map[string]*Elo{},
		db:        db,
		sink:      sink,
		baseWager: baseWager,
		eloK:      defaultEloK,
		seedBase:  seedBase,
		log:       logrus.WithField("component", "manager"),
	}
}

// Register adds an agent to the roster and mirrors it to the store.
func (m *Manager) Register(ctx context.Context, p *AgentProfile) error {
	if p.Bankroll == nil {
		return errors.New("agent needs a bankroll manager")
	}
	if p.Tracker == nil {
		p.Tracker = agent.NewOpponentTracker()
	}
	if p.Elo == 0 {
		p.Elo = defaultEloStart
	}

	m.mu.Lock()
	m.agents[p.Address] = p
	m.mu.Unlock()

	if m.db != nil {
		if _, err := m.db.UpsertAgent(ctx, p.Address, p.Name, p.Personality, string(p.Risk)); err != nil {
			return fmt.Errorf("upsert agent %s: %w", p.Name, err)
		}
	}
	m.log.Infof("registered %s (%s, %s) bankroll=%.4f", p.Name, p.Personality, p.Risk, p.Bankroll.Balance())
	return nil
}

func (m *Manager) agentPair(addrA, addrB string) (*AgentProfile, *AgentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[addrA]
	if !ok {
		return nil, nil, fmt.Errorf("unknown agent %s", addrA)
	}
	b, ok := m.agents[addrB]
	if !ok {
		return nil, nil, fmt.Errorf("unknown agent %s", addrB)
	}
	return a, b, nil
}

func (m *Manager) nextSeed() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seedCtr++
	return splitmix64(m.seedBase + m.seedCtr)
}

// negotiateWager sizes the match: each side proposes via its bankroll
// manager and the smaller proposal binds both.
func negotiateWager(a, b *AgentProfile) float64 {
	// 0.55 is the default edge estimate absent any read on the opponent.
	wa := a.Bankroll.SuggestWager(0.55)
	wb := b.Bankroll.SuggestWager(0.55)
	if wb < wa {
		return wb
	}
	return wa
}

// RunMatch plays one match between two registered agents and settles it.
func (m *Manager) RunMatch(ctx context.Context, gameType games.GameType, addrA, addrB string) (*games.GameResult, error) {
	a, b, err := m.agentPair(addrA, addrB)
	if err != nil {
		return nil, err
	}
	if a.Bankroll.StopLossHit() {
		return nil, fmt.Errorf("%w: %s", ErrStopLoss, a.Name)
	}
	if b.Bankroll.StopLossHit() {
		return nil, fmt.Errorf("%w: %s", ErrStopLoss, b.Name)
	}

	wager := negotiateWager(a, b)
	m.log.Infof("match: %s vs %s at %s, wager %.4f MON", a.Name, b.Name, gameType, wager)

	if banter, ok := a.Provider.(Banter); ok {
		line := banter.TrashTalk(ctx, a.Name, b.Name, b.Personality, gameType.String())
		m.log.Infof("%s: %q", a.Name, line)
		if m.sink != nil {
			m.sink.Notify(games.Event{Type: "trash_talk", Data: map[string]any{"from": a.Name, "line": line}})
		}
	}

	providers := map[string]agent.DecisionProvider{addrA: a.Provider, addrB: b.Provider}
	contextFor := func(player, opponent string) (string, string) {
		p := a
		if player == addrB {
			p = b
		}
		return p.Tracker.Context(opponent), p.Bankroll.PromptContext()
	}

	var game games.Game
	seed := m.nextSeed()
	switch gameType {
	case games.Poker:
		game = games.NewPokerGame(providers, games.PokerConfig{Seed: seed, Sink: m.sink, Context: contextFor})
	case games.Auction:
		game = games.NewAuctionGame(providers, games.AuctionConfig{Seed: seed, Sink: m.sink, Context: contextFor})
	case games.Combat:
		game = games.NewCombatGame(providers, games.CombatConfig{
			ArchetypeA: games.PersonalityArchetype(a.Personality),
			ArchetypeB: games.PersonalityArchetype(b.Personality),
			Seed:       seed,
			Sink:       m.sink,
		})
	default:
		return nil, fmt.Errorf("unknown game type %v", gameType)
	}

	res, err := game.Play(ctx, addrA, addrB, wager)
	if err != nil {
		m.log.Errorf("match aborted: %v", err)
		return nil, err
	}

	m.settle(ctx, a, b, res)
	return res, nil
}

// settle applies the outcome: bankrolls, ratings, opponent models, and the
// persistent record.
func (m *Manager) settle(ctx context.Context, a, b *AgentProfile, res *games.GameResult) {
	winner, loser := a, b
	if res.Winner == b.Address {
		winner, loser = b, a
	}

	winner.Bankroll.RecordResult(res.Wager)
	loser.Bankroll.RecordResult(-res.Wager)

	m.mu.Lock()
	delta := eloDelta(winner.Elo, loser.Elo, m.eloK, res.Wager, m.baseWager, winner.Games)
	winner.Elo += delta
	loser.Elo -= delta
	winner.Wins++
	loser.Losses++
	winner.Games++
	loser.Games++

	key, flipped := pairKey(a.Address, b.Address)
	pair := m.rivalries[key]
	if pair == nil {
		e := NewElo(defaultEloStart, m.eloK)
		pair = &e
		m.rivalries[key] = pair
	}
	first := a.Address
	if flipped {
		first = b.Address
	}
	score := 0.0
	if winner.Address == first {
		score = 1.0
	}
	pair.Update(score, res.Wager, m.baseWager)
	m.mu.Unlock()

	winner.Tracker.ObserveOutcome(loser.Address, true)
	loser.Tracker.ObserveOutcome(winner.Address, false)
	m.observeDecisions(a, b, res)

	m.log.Infof("settled: %s beats %s for %.4f MON (elo %+.1f)", winner.Name, loser.Name, res.Wager, delta)
	if m.sink != nil {
		m.sink.Notify(games.Event{Type: "match_result", Data: map[string]any{
			"game_type": res.GameType.String(),
			"winner":    winner.Name,
			"loser":     loser.Name,
			"wager":     res.Wager,
		}})
	}

	if m.db != nil {
		id := uuid.New()
		if err := m.db.InsertMatch(ctx, id, a.Address, b.Address, res); err != nil {
			m.log.Errorf("persist match: %v", err)
		}
		if err := m.db.ApplyOutcome(ctx, winner.Address, loser.Address, res.Wager, winner.Elo, loser.Elo); err != nil {
			m.log.Errorf("persist outcome: %v", err)
		}
	}
}

// observeDecisions feeds the decision trail into each side's opponent
// model: actions, and raises flagged by their own stated bluff probability.
func (m *Manager) observeDecisions(a, b *AgentProfile, res *games.GameResult) {
	if res.GameType != games.Poker {
		return
	}
	for _, d := range res.Decisions {
		dec, ok := d.Response.(agent.PokerDecision)
		if !ok {
			continue
		}
		observer := a
		if d.Player == a.Address {
			observer = b
		}
		observer.Tracker.ObserveAction(d.Player, dec.Action)
		if dec.Action == "raise" && dec.BluffProbability >= 0.5 {
			observer.Tracker.ObserveBluff(d.Player)
		}
	}
}

// pairKey orders two addresses into a stable rivalry key. flipped reports
// that addrB sorts first, so the pairing's A side is addrB.
func pairKey(addrA, addrB string) (key string, flipped bool) {
	if addrB < addrA {
		return addrB + "|" + addrA, true
	}
	return addrA + "|" + addrB, false
}

// HeadToHead returns the rivalry rating between two agents, oriented so
// that the returned A side is addrA. ok is false before their first match.
func (m *Manager) HeadToHead(addrA, addrB string) (Elo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, flipped := pairKey(addrA, addrB)
	pair, ok := m.rivalries[key]
	if !ok {
		return Elo{}, false
	}
	e := *pair
	if flipped {
		e.A, e.B = e.B, e.A
	}
	return e, true
}

// Standing is one leaderboard row from in-memory state.
type Standing struct {
	Address     string  `json:"address"`
	Name        string  `json:"name"`
	Personality string  `json:"personality"`
	Elo         float64 `json:"elo"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Bankroll    float64 `json:"bankroll"`
}

// Standings returns the roster sorted by rating.
func (m *Manager) Standings() []Standing {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Standing, 0, len(m.agents))
	for _, p := range m.agents {
		out = append(out, Standing{
			Address:     p.Address,
			Name:        p.Name,
			Personality: p.Personality,
			Elo:         p.Elo,
			Wins:        p.Wins,
			Losses:      p.Losses,
			Bankroll:    p.Bankroll.Balance(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Elo > out[j].Elo })
	return out
}

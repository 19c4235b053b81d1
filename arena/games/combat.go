package games

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/obseasd/monadarena/arena/agent"
)

// MaxCombatTurns caps a battle that neither side can finish.
const MaxCombatTurns = 20

type activeModifier struct {
	Stat   Stat
	Amount int
	Turns  int
}

type activeDoT struct {
	Name   string
	Damage int
	Turns  int
}

// Fighter is one side's mutable battle state. Base stats come from the
// archetype; Mods and DoTs are timed effects that tick down at the start of
// the owner's action.
type Fighter struct {
	Address   string
	Class     Archetype
	HP        int
	MP        int
	Mods      []activeModifier
	DoTs      []activeDoT
	Defending bool
}

func newFighter(addr string, class Archetype) *Fighter {
	return &Fighter{Address: addr, Class: class, HP: class.HP, MP: class.MP}
}

func (f *Fighter) Alive() bool { return f.HP > 0 }

// Effective returns a stat with all active modifiers applied, floored at 1.
func (f *Fighter) Effective(s Stat) int {
	var base int
	switch s {
	case StatAtk:
		base = f.Class.Atk
	case StatDefense:
		base = f.Class.Defense
	case StatSpeed:
		base = f.Class.Speed
	}
	for _, m := range f.Mods {
		if m.Stat == s {
			base += m.Amount
		}
	}
	if base < 1 {
		return 1
	}
	return base
}

// tickEffects runs the start-of-action upkeep: DoTs deal their damage and
// tick down, expired modifiers fall off, and the defend stance from the
// previous turn ends. Returns the total DoT damage taken.
func (f *Fighter) tickEffects() int {
	total := 0
	live := f.DoTs[:0]
	for _, d := range f.DoTs {
		total += d.Damage
		d.Turns--
		if d.Turns > 0 {
			live = append(live, d)
		}
	}
	f.DoTs = live

	mods := f.Mods[:0]
	for _, m := range f.Mods {
		m.Turns--
		if m.Turns > 0 {
			mods = append(mods, m)
		}
	}
	f.Mods = mods

	f.Defending = false

	f.HP -= total
	if f.HP < 0 {
		f.HP = 0
	}
	return total
}

// Affordable returns the abilities whose MP cost the fighter can pay, in
// catalog order. Defend costs nothing, so the set is never empty.
func (f *Fighter) Affordable() []Ability {
	var out []Ability
	for _, a := range f.Class.Abilities {
		if a.MPCost <= f.MP {
			out = append(out, a)
		}
	}
	return out
}

// Status renders the fighter line shown to the decision provider.
func (f *Fighter) Status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | HP: %d/%d | MP: %d/%d", f.Class.Name, f.HP, f.Class.HP, f.MP, f.Class.MP)
	for _, m := range f.Mods {
		fmt.Fprintf(&b, " | %s %+d (%dt)", m.Stat, m.Amount, m.Turns)
	}
	for _, d := range f.DoTs {
		fmt.Fprintf(&b, " | %s %d dmg/turn (%dt)", d.Name, d.Damage, d.Turns)
	}
	if f.Defending {
		b.WriteString(" | DEFENDING")
	}
	return b.String()
}

// CombatConfig tunes one battle. Empty archetype keys are drawn at random
// from the catalog.
type CombatConfig struct {
	ArchetypeA string
	ArchetypeB string
	MaxTurns   int // 0 means MaxCombatTurns
	Seed       int64
	Sink       EventSink
}

// CombatTurn is one line of the battle log.
type CombatTurn struct {
	Turn     int    `json:"turn"`
	Actor    string `json:"actor"`
	Class    string `json:"class"`
	Ability  string `json:"ability"`
	Kind     string `json:"kind"`
	Damage   int    `json:"damage,omitempty"`
	Heal     int    `json:"heal,omitempty"`
	DoTTaken int    `json:"dot_taken,omitempty"`
	ActorHP  int    `json:"actor_hp"`
	TargetHP int    `json:"target_hp"`
	Note     string `json:"note,omitempty"`
}

// CombatDetails is the game-specific block of the GameResult.
type CombatDetails struct {
	ClassA    string       `json:"class_a"`
	ClassB    string       `json:"class_b"`
	FinalHPA  int          `json:"final_hp_a"`
	FinalHPB  int          `json:"final_hp_b"`
	MaxHPA    int          `json:"max_hp_a"`
	MaxHPB    int          `json:"max_hp_b"`
	Turns     int          `json:"turns"`
	WinMethod string       `json:"win_method"`
	TurnLog   []CombatTurn `json:"turn_log"`
}

// CombatGame plays a turn-based archetype battle. Each turn both fighters
// act in effective-speed order; the provider picks one affordable ability
// per action.
type CombatGame struct {
	providers map[string]agent.DecisionProvider
	cfg       CombatConfig

	fighters  map[string]*Fighter
	turn      int
	turnLog   []CombatTurn
	decisions []DecisionRecord
	rng       *rand.Rand
	log       *logrus.Entry
}

func NewCombatGame(providers map[string]agent.DecisionProvider, cfg CombatConfig) *CombatGame {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = MaxCombatTurns
	}
	return &CombatGame{
		providers: providers,
		cfg:       cfg,
		fighters:  map[string]*Fighter{},
		rng:       rand.New(rand.NewSource(seed)),
		log:       logrus.WithField("game", "combat"),
	}
}

func (g *CombatGame) Type() GameType { return Combat }

func (g *CombatGame) StateSummary() string {
	if len(g.fighters) == 0 {
		return "battle not started"
	}
	parts := make([]string, 0, len(g.fighters))
	for _, f := range g.fighters {
		parts = append(parts, f.Status())
	}
	return fmt.Sprintf("Turn %d: %s", g.turn, strings.Join(parts, " || "))
}

func (g *CombatGame) pickArchetype(key string) Archetype {
	if a, ok := ArchetypeByKey(key); ok {
		return a
	}
	return Archetypes[g.rng.Intn(len(Archetypes))]
}

// Play runs the battle to a knockout or the turn cap. The wager does not
// affect combat mechanics; it only sizes the settlement.
func (g *CombatGame) Play(ctx context.Context, playerA, playerB string, wager float64) (*GameResult, error) {
	fa := newFighter(playerA, g.pickArchetype(g.cfg.ArchetypeA))
	fb := newFighter(playerB, g.pickArchetype(g.cfg.ArchetypeB))
	g.fighters = map[string]*Fighter{playerA: fa, playerB: fb}
	g.turnLog = nil
	g.decisions = nil

	g.log.Infof("battle start: %s (%s) vs %s (%s) wager=%.4f",
		short(playerA), fa.Class.Name, short(playerB), fb.Class.Name, wager)
	emit(g.cfg.Sink, Event{Type: "combat_init", Data: map[string]any{
		"player_a": playerA, "class_a": fa.Class.Key,
		"player_b": playerB, "class_b": fb.Class.Key,
	}})

	for g.turn = 1; g.turn <= g.cfg.MaxTurns; g.turn++ {
		first, second := fa, fb
		if fb.Effective(StatSpeed) > fa.Effective(StatSpeed) {
			first, second = fb, fa
		}

		if err := g.act(ctx, first, second); err != nil {
			return nil, err
		}
		if !fa.Alive() || !fb.Alive() {
			break
		}
		if err := g.act(ctx, second, first); err != nil {
			return nil, err
		}
		if !fa.Alive() || !fb.Alive() {
			break
		}
	}

	var winner, loser string
	switch {
	case fa.Alive() && !fb.Alive():
		winner, loser = playerA, playerB
	case fb.Alive() && !fa.Alive():
		winner, loser = playerB, playerA
	case fb.HP > fa.HP:
		// Turn cap: higher remaining HP wins, A on ties.
		winner, loser = playerB, playerA
	default:
		winner, loser = playerA, playerB
	}
	method := "HP advantage"
	if !g.fighters[loser].Alive() {
		method = "KO"
	}

	// Turns counts individual actions, same as the turn log.
	turns := len(g.turnLog)
	details := CombatDetails{
		ClassA:    fa.Class.Name,
		ClassB:    fb.Class.Name,
		FinalHPA:  fa.HP,
		FinalHPB:  fb.HP,
		MaxHPA:    fa.Class.HP,
		MaxHPB:    fb.Class.HP,
		Turns:     turns,
		WinMethod: method,
		TurnLog:   g.turnLog,
	}

	g.log.Infof("winner: %s by %s after %d turns (%d vs %d HP)",
		short(winner), method, turns, fa.HP, fb.HP)
	emit(g.cfg.Sink, Event{Type: "combat_end", Data: map[string]any{
		"winner": winner, "method": method, "turns": turns,
	}})

	return &GameResult{
		GameType:     Combat,
		Winner:       winner,
		Loser:        loser,
		Wager:        wager,
		Details:      details,
		RoundsPlayed: turns,
		Decisions:    g.decisions,
	}, nil
}

// act runs one fighter's action: upkeep, ability choice, resolution. The
// fighter can die to its own DoTs before choosing.
func (g *CombatGame) act(ctx context.Context, attacker, defender *Fighter) error {
	dot := attacker.tickEffects()
	if dot > 0 {
		g.log.Infof("  %s takes %d DoT damage (HP %d)", attacker.Class.Name, dot, attacker.HP)
	}
	if !attacker.Alive() {
		g.turnLog = append(g.turnLog, CombatTurn{
			Turn: g.turn, Actor: attacker.Address, Class: attacker.Class.Name,
			DoTTaken: dot, ActorHP: attacker.HP, TargetHP: defender.HP,
			Note: "downed by damage over time",
		})
		return nil
	}

	affordable := attacker.Affordable()
	options := make([]agent.AbilityOption, len(affordable))
	for i, a := range affordable {
		options[i] = agent.AbilityOption{Name: a.Name, Description: a.optionDescription()}
	}

	stage := fmt.Sprintf("turn_%d", g.turn)
	req := agent.CombatRequest{
		Fighter:   attacker.Status(),
		Opponent:  defender.Status(),
		Abilities: options,
		Turn:      g.turn,
		MaxTurns:  g.cfg.MaxTurns,
	}

	provider, ok := g.providers[attacker.Address]
	if !ok {
		return &DecisionError{Game: Combat, Player: attacker.Address, Stage: stage, Err: errNoProvider}
	}
	decision, err := provider.CombatAction(ctx, req)
	if err != nil {
		return &DecisionError{Game: Combat, Player: attacker.Address, Stage: stage, Err: err}
	}
	coerced := decision.Sanitize(options)

	g.decisions = append(g.decisions, DecisionRecord{
		Player:   attacker.Address,
		Stage:    stage,
		Request:  req,
		Response: decision,
		Coerced:  coerced,
	})

	var ability Ability
	for _, a := range affordable {
		if a.Name == decision.Ability {
			ability = a
			break
		}
	}

	entry := g.resolve(attacker, defender, ability)
	entry.Turn = g.turn
	entry.DoTTaken = dot
	g.turnLog = append(g.turnLog, entry)

	emit(g.cfg.Sink, Event{Type: "combat_turn", Data: map[string]any{
		"turn": g.turn, "actor": attacker.Address, "ability": ability.Name,
		"hp_a": entry.ActorHP, "hp_b": entry.TargetHP,
	}})
	return nil
}

// resolve applies one ability and returns the log line for it.
func (g *CombatGame) resolve(attacker, defender *Fighter, ability Ability) CombatTurn {
	attacker.MP -= ability.MPCost

	entry := CombatTurn{
		Actor:   attacker.Address,
		Class:   attacker.Class.Name,
		Ability: ability.Name,
		Kind:    ability.Kind.String(),
	}

	switch ability.Kind {
	case Defend:
		attacker.Defending = true
		attacker.MP += ability.MPRestore
		if attacker.MP > attacker.Class.MP {
			attacker.MP = attacker.Class.MP
		}
		entry.Note = fmt.Sprintf("defending, +%d MP", ability.MPRestore)
		g.log.Infof("  %s defends (+%d MP)", attacker.Class.Name, ability.MPRestore)

	case Heal:
		before := attacker.HP
		attacker.HP += ability.HealAmount
		if attacker.HP > attacker.Class.HP {
			attacker.HP = attacker.Class.HP
		}
		entry.Heal = attacker.HP - before
		g.log.Infof("  %s heals %d HP (%d)", attacker.Class.Name, entry.Heal, attacker.HP)

	case Cleanse:
		attacker.DoTs = nil
		kept := attacker.Mods[:0]
		for _, m := range attacker.Mods {
			if m.Amount > 0 {
				kept = append(kept, m)
			}
		}
		attacker.Mods = kept
		before := attacker.HP
		attacker.HP += ability.HealAmount
		if attacker.HP > attacker.Class.HP {
			attacker.HP = attacker.Class.HP
		}
		entry.Heal = attacker.HP - before
		entry.Note = "debuffs and DoTs removed"
		g.log.Infof("  %s purifies (+%d HP)", attacker.Class.Name, entry.Heal)

	case Physical, Magic:
		dmg := g.damage(attacker, defender, ability)
		defender.HP -= dmg
		if defender.HP < 0 {
			defender.HP = 0
		}
		entry.Damage = dmg

		if ability.Debuff != nil {
			d := *ability.Debuff
			defender.Mods = append(defender.Mods, activeModifier{Stat: d.Stat, Amount: d.Amount, Turns: d.Turns})
			entry.Note = fmt.Sprintf("%s %+d for %d turns", d.Stat, d.Amount, d.Turns)
		}
		if ability.SelfDebuff != nil {
			d := *ability.SelfDebuff
			attacker.Mods = append(attacker.Mods, activeModifier{Stat: d.Stat, Amount: d.Amount, Turns: d.Turns})
		}
		if ability.DoT != nil {
			defender.DoTs = append(defender.DoTs, activeDoT{Name: ability.Name, Damage: ability.DoT.Damage, Turns: ability.DoT.Turns})
		}
		g.log.Infof("  %s uses %s for %d damage (%s HP %d)",
			attacker.Class.Name, ability.Name, dmg, defender.Class.Name, defender.HP)
	}

	entry.ActorHP = attacker.HP
	entry.TargetHP = defender.HP
	return entry
}

// damage computes the hit for a physical or magic ability. Physical scales
// with ATK against a fraction of DEF; magic is flatter and pierces more.
func (g *CombatGame) damage(attacker, defender *Fighter, ability Ability) int {
	base := float64(ability.Damage)
	atk := float64(attacker.Effective(StatAtk))
	def := float64(defender.Effective(StatDefense))

	var dmg int
	if ability.Kind == Physical {
		dmg = int(base*atk/15.0 - base*def/20.0*0.3)
	} else {
		dmg = int(base*0.9 + atk*0.2 - def*0.15)
	}
	if dmg < 1 {
		dmg = 1
	}
	if ability.SpeedBonus && attacker.Effective(StatSpeed) > defender.Effective(StatSpeed) {
		dmg = int(float64(dmg) * 1.4)
	}
	if defender.Defending {
		dmg /= 2
		if dmg < 1 {
			dmg = 1
		}
	}
	return dmg
}

package games

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obseasd/monadarena/arena/agent"
)

func pickAbility(name string) *scriptedProvider {
	return &scriptedProvider{
		combat: func(req agent.CombatRequest) (agent.CombatDecision, error) {
			return agent.CombatDecision{Ability: name, Confidence: 0.9}, nil
		},
	}
}

func testFighter(t *testing.T, key string) *Fighter {
	t.Helper()
	class, ok := ArchetypeByKey(key)
	require.True(t, ok)
	return newFighter("0xf", class)
}

func TestPhysicalDamageFormula(t *testing.T) {
	g := NewCombatGame(nil, CombatConfig{Seed: 1})
	warrior := testFighter(t, "warrior") // atk 18
	mage := testFighter(t, "mage")       // def 8

	slash := warrior.Class.Abilities[0]
	require.Equal(t, "slash", slash.Name)

	// 22*18/15 - 22*8/20*0.3 = 26.4 - 2.64, truncated.
	assert.Equal(t, 23, g.damage(warrior, mage, slash))
}

func TestMagicDamageFormula(t *testing.T) {
	g := NewCombatGame(nil, CombatConfig{Seed: 1})
	mage := testFighter(t, "mage")       // atk 10
	warrior := testFighter(t, "warrior") // def 14

	fireball := mage.Class.Abilities[0]
	require.Equal(t, "fireball", fireball.Name)

	// 30*0.9 + 10*0.2 - 14*0.15 = 26.9, truncated.
	assert.Equal(t, 26, g.damage(mage, warrior, fireball))
}

func TestBackstabSpeedBonus(t *testing.T) {
	g := NewCombatGame(nil, CombatConfig{Seed: 1})
	rogue := testFighter(t, "rogue")   // atk 16, speed 16
	healer := testFighter(t, "healer") // def 12, speed 9

	backstab := rogue.Class.Abilities[0]
	require.True(t, backstab.SpeedBonus)

	// 25*16/15 - 25*12/20*0.3 = 26.66 - 4.5 = 22.16 -> 22, then x1.4 -> 30.
	assert.Equal(t, 30, g.damage(rogue, healer, backstab))

	// Slowed below the defender, the bonus disappears.
	rogue.Mods = append(rogue.Mods, activeModifier{Stat: StatSpeed, Amount: -10, Turns: 2})
	assert.Equal(t, 22, g.damage(rogue, healer, backstab))
}

func TestDefendingHalvesDamage(t *testing.T) {
	g := NewCombatGame(nil, CombatConfig{Seed: 1})
	warrior := testFighter(t, "warrior")
	mage := testFighter(t, "mage")

	slash := warrior.Class.Abilities[0]
	full := g.damage(warrior, mage, slash)
	mage.Defending = true
	assert.Equal(t, full/2, g.damage(warrior, mage, slash))
}

func TestDamageFloorsAtOne(t *testing.T) {
	g := NewCombatGame(nil, CombatConfig{Seed: 1})
	healer := testFighter(t, "healer")
	warrior := testFighter(t, "warrior")
	warrior.Mods = append(warrior.Mods, activeModifier{Stat: StatDefense, Amount: 500, Turns: 3})

	smite := healer.Class.Abilities[0]
	assert.Equal(t, 1, g.damage(healer, warrior, smite))
}

func TestDoTsTickAndExpireIndependently(t *testing.T) {
	f := testFighter(t, "warrior")
	f.DoTs = append(f.DoTs,
		activeDoT{Name: "poison_blade", Damage: 8, Turns: 3},
		activeDoT{Name: "holy_fire", Damage: 6, Turns: 2},
	)
	start := f.HP

	assert.Equal(t, 14, f.tickEffects())
	assert.Equal(t, start-14, f.HP)
	require.Len(t, f.DoTs, 2)

	assert.Equal(t, 14, f.tickEffects())
	require.Len(t, f.DoTs, 1, "shorter entry expired")
	assert.Equal(t, "poison_blade", f.DoTs[0].Name)

	assert.Equal(t, 8, f.tickEffects())
	assert.Empty(t, f.DoTs)

	assert.Equal(t, 0, f.tickEffects())
}

func TestModifiersStackAndExpire(t *testing.T) {
	f := testFighter(t, "warrior") // base atk 18
	f.Mods = append(f.Mods,
		activeModifier{Stat: StatAtk, Amount: -3, Turns: 2},
		activeModifier{Stat: StatAtk, Amount: -3, Turns: 1},
	)
	assert.Equal(t, 12, f.Effective(StatAtk))

	f.tickEffects()
	assert.Equal(t, 15, f.Effective(StatAtk))
	f.tickEffects()
	assert.Equal(t, 18, f.Effective(StatAtk))
}

func TestEffectiveStatFloorsAtOne(t *testing.T) {
	f := testFighter(t, "mage")
	f.Mods = append(f.Mods, activeModifier{Stat: StatSpeed, Amount: -99, Turns: 2})
	assert.Equal(t, 1, f.Effective(StatSpeed))
}

func TestOutOfMPOnlyDefendOffered(t *testing.T) {
	f := testFighter(t, "mage")
	f.MP = 0
	affordable := f.Affordable()
	require.Len(t, affordable, 1)
	assert.Equal(t, "defend", affordable[0].Name)
}

func TestHealNeverExceedsMax(t *testing.T) {
	providers := map[string]agent.DecisionProvider{
		addrA: pickAbility("heal"),
		addrB: pickAbility("defend"),
	}
	g := NewCombatGame(providers, CombatConfig{ArchetypeA: "warrior", ArchetypeB: "mage", Seed: 2, MaxTurns: 3})
	res, err := g.Play(context.Background(), addrA, addrB, 0.5)
	require.NoError(t, err)

	details := res.Details.(CombatDetails)
	assert.LessOrEqual(t, details.FinalHPA, details.MaxHPA)
	assert.LessOrEqual(t, details.FinalHPB, details.MaxHPB)
	assert.GreaterOrEqual(t, details.FinalHPA, 0)
	assert.GreaterOrEqual(t, details.FinalHPB, 0)
}

func TestUnknownAbilityCoercedToAffordable(t *testing.T) {
	providers := map[string]agent.DecisionProvider{
		addrA: pickAbility("meteor_storm"),
		addrB: pickAbility("defend"),
	}
	g := NewCombatGame(providers, CombatConfig{ArchetypeA: "warrior", ArchetypeB: "mage", Seed: 3, MaxTurns: 2})
	res, err := g.Play(context.Background(), addrA, addrB, 0.5)
	require.NoError(t, err)

	found := false
	for _, d := range res.Decisions {
		if d.Player == addrA {
			require.NotEmpty(t, d.Coerced)
			found = true
		}
	}
	assert.True(t, found)
}

func TestBerserkDuelEndsInKnockout(t *testing.T) {
	providers := map[string]agent.DecisionProvider{
		addrA: pickAbility("slash"),
		addrB: pickAbility("fireball"),
	}
	g := NewCombatGame(providers, CombatConfig{ArchetypeA: "warrior", ArchetypeB: "mage", Seed: 4})
	res, err := g.Play(context.Background(), addrA, addrB, 0.5)
	require.NoError(t, err)

	details := res.Details.(CombatDetails)
	assert.Contains(t, []string{"KO", "HP advantage"}, details.WinMethod)
	assert.Equal(t, "KO", details.WinMethod, "trading attacks downs the mage first")
	assert.Contains(t, []string{addrA, addrB}, res.Winner)
	assert.NotEmpty(t, details.TurnLog)
	assert.Len(t, details.TurnLog, details.Turns, "turn count matches the action log")
	assert.Equal(t, details.Turns, res.RoundsPlayed)
}

func TestAllDefendDrawGoesToPlayerA(t *testing.T) {
	providers := map[string]agent.DecisionProvider{
		addrA: pickAbility("defend"),
		addrB: pickAbility("defend"),
	}
	g := NewCombatGame(providers, CombatConfig{ArchetypeA: "warrior", ArchetypeB: "warrior", Seed: 5})
	res, err := g.Play(context.Background(), addrA, addrB, 0.5)
	require.NoError(t, err)

	details := res.Details.(CombatDetails)
	assert.Equal(t, "HP advantage", details.WinMethod)
	assert.Equal(t, details.FinalHPA, details.FinalHPB)
	assert.Equal(t, addrA, res.Winner, "equal HP at the cap goes to player A")
	assert.Equal(t, 2*MaxCombatTurns, details.Turns, "both fighters act every turn")
	assert.Len(t, details.TurnLog, details.Turns)
}

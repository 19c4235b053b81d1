package games

import "fmt"

// Stat identifies a modifiable fighter statistic.
type Stat int

const (
	StatAtk Stat = iota
	StatDefense
	StatSpeed
)

func (s Stat) String() string {
	switch s {
	case StatAtk:
		return "atk"
	case StatDefense:
		return "defense"
	case StatSpeed:
		return "speed"
	}
	return "unknown"
}

// EffectKind tags the ability variants so the resolver can match them
// exhaustively.
type EffectKind int

const (
	Physical EffectKind = iota
	Magic
	Defend
	Heal
	Cleanse
)

func (k EffectKind) String() string {
	switch k {
	case Physical:
		return "physical"
	case Magic:
		return "magic"
	case Defend:
		return "defend"
	case Heal:
		return "heal"
	case Cleanse:
		return "cleanse"
	}
	return "unknown"
}

// Modifier is a timed stat delta template. Applied copies keep their own
// remaining-turns counter; multiple on one stat stack additively.
type Modifier struct {
	Stat   Stat
	Amount int
	Turns  int
}

// DoT is a damage-over-time template: Damage per turn for Turns turns.
type DoT struct {
	Damage int
	Turns  int
}

// Ability is static catalog data shared across matches. The payload fields
// used depend on Kind; Debuff/SelfDebuff/DoT attach only from damage
// abilities.
type Ability struct {
	Name        string
	Description string
	MPCost      int
	Kind        EffectKind
	Damage      int  // Physical, Magic
	HealAmount  int  // Heal, Cleanse
	MPRestore   int  // Defend
	SpeedBonus  bool // bonus multiplier when faster than the defender
	Debuff      *Modifier
	SelfDebuff  *Modifier
	DoT         *DoT
}

// Archetype is a fighter template: base stats plus five abilities in
// catalog order (the order offered to the decision provider).
type Archetype struct {
	Key       string
	Name      string
	HP        int
	MP        int
	Atk       int
	Defense   int
	Speed     int
	Abilities []Ability
}

// Archetypes in a fixed order so random picks are reproducible per seed.
var Archetypes = []Archetype{
	{
		Key: "warrior", Name: "Warrior", HP: 120, MP: 40, Atk: 18, Defense: 14, Speed: 8,
		Abilities: []Ability{
			{Name: "slash", Description: "Basic sword slash", Kind: Physical, Damage: 22},
			{Name: "shield_bash", Description: "Stun strike, reduces opponent ATK by 3 for 2 turns", Kind: Physical, Damage: 15, MPCost: 8,
				Debuff: &Modifier{Stat: StatAtk, Amount: -3, Turns: 2}},
			{Name: "berserk", Description: "Powerful attack but lowers own defense by 4 for 2 turns", Kind: Physical, Damage: 35, MPCost: 15,
				SelfDebuff: &Modifier{Stat: StatDefense, Amount: -4, Turns: 2}},
			{Name: "defend", Description: "Block stance, halves incoming damage this turn and restores 5 MP", Kind: Defend, MPRestore: 5},
			{Name: "heal", Description: "Bandage wounds, restore 25 HP", Kind: Heal, MPCost: 12, HealAmount: 25},
		},
	},
	{
		Key: "mage", Name: "Mage", HP: 80, MP: 100, Atk: 10, Defense: 8, Speed: 10,
		Abilities: []Ability{
			{Name: "fireball", Description: "Hurls a fireball dealing 30 magic damage", Kind: Magic, Damage: 30, MPCost: 15},
			{Name: "ice_shard", Description: "Ice projectile, slows opponent (speed -3 for 2 turns)", Kind: Magic, Damage: 18, MPCost: 8,
				Debuff: &Modifier{Stat: StatSpeed, Amount: -3, Turns: 2}},
			{Name: "arcane_burst", Description: "Devastating arcane explosion, very high damage", Kind: Magic, Damage: 45, MPCost: 30},
			{Name: "defend", Description: "Magical barrier, halves damage this turn and restores 8 MP", Kind: Defend, MPRestore: 8},
			{Name: "heal", Description: "Healing light, restore 20 HP", Kind: Heal, MPCost: 10, HealAmount: 20},
		},
	},
	{
		Key: "rogue", Name: "Rogue", HP: 90, MP: 60, Atk: 16, Defense: 10, Speed: 16,
		Abilities: []Ability{
			{Name: "backstab", Description: "Quick stab, bonus damage if faster than opponent", Kind: Physical, Damage: 25, MPCost: 5, SpeedBonus: true},
			{Name: "poison_blade", Description: "Poison strike, deals 8 damage per turn for 3 turns", Kind: Physical, Damage: 12, MPCost: 10,
				DoT: &DoT{Damage: 8, Turns: 3}},
			{Name: "shadow_strike", Description: "Critical strike from the shadows, high damage", Kind: Physical, Damage: 38, MPCost: 20},
			{Name: "defend", Description: "Evasive dodge, halves damage this turn and restores 6 MP", Kind: Defend, MPRestore: 6},
			{Name: "heal", Description: "Quick bandage, restore 18 HP", Kind: Heal, MPCost: 10, HealAmount: 18},
		},
	},
	{
		Key: "healer", Name: "Healer", HP: 100, MP: 90, Atk: 10, Defense: 12, Speed: 9,
		Abilities: []Ability{
			{Name: "smite", Description: "Holy damage strike", Kind: Magic, Damage: 16, MPCost: 5},
			{Name: "divine_heal", Description: "Powerful healing, restore 40 HP", Kind: Heal, MPCost: 15, HealAmount: 40},
			{Name: "holy_fire", Description: "Sacred fire, burns for 6 damage over 2 turns", Kind: Magic, Damage: 28, MPCost: 18,
				DoT: &DoT{Damage: 6, Turns: 2}},
			{Name: "defend", Description: "Prayer shield, halves damage and restores 8 MP", Kind: Defend, MPRestore: 8},
			{Name: "purify", Description: "Remove all debuffs and DoTs, restore 10 HP", Kind: Cleanse, MPCost: 10, HealAmount: 10},
		},
	},
}

// ArchetypeByKey looks an archetype up by its key ("warrior", ...).
func ArchetypeByKey(key string) (Archetype, bool) {
	for _, a := range Archetypes {
		if a.Key == key {
			return a, true
		}
	}
	return Archetype{}, false
}

// PersonalityArchetype maps an agent personality to its preferred archetype.
func PersonalityArchetype(personality string) string {
	switch personality {
	case "aggressive":
		return "warrior"
	case "conservative":
		return "healer"
	case "balanced":
		return "mage"
	case "adaptive":
		return "rogue"
	}
	return "mage"
}

func (a Ability) optionDescription() string {
	return fmt.Sprintf("%s (MP cost: %d, DMG: %d)", a.Description, a.MPCost, a.Damage)
}

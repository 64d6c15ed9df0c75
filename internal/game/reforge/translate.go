package reforge

import "github.com/emberfall/reforge/internal/game/item"

// UnitStat identifies an underlying character statistic that the external
// attribute-modifier service understands. One item attribute may fan out to
// several unit stats (a combined hit rating feeds melee, ranged, and spell
// hit).
type UnitStat string

const (
	StatMana              UnitStat = "unit.mana"
	StatHealth            UnitStat = "unit.health"
	StatStrength          UnitStat = "unit.strength"
	StatAgility           UnitStat = "unit.agility"
	StatIntellect         UnitStat = "unit.intellect"
	StatSpirit            UnitStat = "unit.spirit"
	StatStamina           UnitStat = "unit.stamina"
	StatAttackPower       UnitStat = "unit.attack_power"
	StatRangedAttackPower UnitStat = "unit.ranged_attack_power"
	StatSpellPower        UnitStat = "unit.spell_power"
	StatManaRegen         UnitStat = "unit.mana_regen"
	StatHealthRegen       UnitStat = "unit.health_regen"
	StatSpellPenetration  UnitStat = "unit.spell_penetration"
	StatBlockValue        UnitStat = "unit.block_value"
	RatingDefense         UnitStat = "rating.defense"
	RatingDodge           UnitStat = "rating.dodge"
	RatingParry           UnitStat = "rating.parry"
	RatingBlock           UnitStat = "rating.block"
	RatingHitMelee        UnitStat = "rating.hit_melee"
	RatingHitRanged       UnitStat = "rating.hit_ranged"
	RatingHitSpell        UnitStat = "rating.hit_spell"
	RatingCritMelee       UnitStat = "rating.crit_melee"
	RatingCritRanged      UnitStat = "rating.crit_ranged"
	RatingCritSpell       UnitStat = "rating.crit_spell"
	RatingHasteMelee      UnitStat = "rating.haste_melee"
	RatingHasteRanged     UnitStat = "rating.haste_ranged"
	RatingHasteSpell      UnitStat = "rating.haste_spell"
	RatingResilience      UnitStat = "rating.resilience"
	RatingExpertise       UnitStat = "rating.expertise"
	RatingArmorPen        UnitStat = "rating.armor_penetration"
)

// StatOp is one underlying-stat operation produced by translating an item
// attribute.
type StatOp struct {
	Stat  UnitStat
	Scale float64
}

// statOps maps every supported attribute kind to the unit-stat operations it
// drives. The table is total over the closed attribute set; an attribute
// missing here translates to no operations.
var statOps = map[item.Attribute][]StatOp{
	item.AttrMana:             {{StatMana, 1}},
	item.AttrHealth:           {{StatHealth, 1}},
	item.AttrAgility:          {{StatAgility, 1}},
	item.AttrStrength:         {{StatStrength, 1}},
	item.AttrIntellect:        {{StatIntellect, 1}},
	item.AttrSpirit:           {{StatSpirit, 1}},
	item.AttrStamina:          {{StatStamina, 1}},
	item.AttrDefenseRating:    {{RatingDefense, 1}},
	item.AttrDodgeRating:      {{RatingDodge, 1}},
	item.AttrParryRating:      {{RatingParry, 1}},
	item.AttrBlockRating:      {{RatingBlock, 1}},
	item.AttrHitRating:        {{RatingHitMelee, 1}, {RatingHitRanged, 1}, {RatingHitSpell, 1}},
	item.AttrCritRating:       {{RatingCritMelee, 1}, {RatingCritRanged, 1}, {RatingCritSpell, 1}},
	item.AttrHasteRating:      {{RatingHasteMelee, 1}, {RatingHasteRanged, 1}, {RatingHasteSpell, 1}},
	item.AttrResilience:       {{RatingResilience, 1}},
	item.AttrExpertiseRating:  {{RatingExpertise, 1}},
	item.AttrAttackPower:      {{StatAttackPower, 1}, {StatRangedAttackPower, 1}},
	item.AttrRangedAttack:     {{StatRangedAttackPower, 1}},
	item.AttrArmorPenetration: {{RatingArmorPen, 1}},
	item.AttrSpellPower:       {{StatSpellPower, 1}},
	item.AttrManaRegen:        {{StatManaRegen, 1}},
	item.AttrHealthRegen:      {{StatHealthRegen, 1}},
	item.AttrSpellPenetration: {{StatSpellPenetration, 1}},
	item.AttrBlockValue:       {{StatBlockValue, 1}},
}

// Expand returns the unit-stat operations for an attribute kind, or nil for
// an unrecognized kind (a no-op delta).
func Expand(attr item.Attribute) []StatOp {
	return statOps[attr]
}

// Delta is a signed attribute adjustment handed to the attribute-modifier
// service.
type Delta struct {
	Attribute item.Attribute
	Amount    int
}

// RecordDeltas returns the delta pair a record contributes on top of the
// item's base stats: -MovedValue on the decreased attribute and +MovedValue
// on the increased one.
func RecordDeltas(rec Record) []Delta {
	return []Delta{
		{Attribute: rec.Decreased, Amount: -rec.MovedValue},
		{Attribute: rec.Increased, Amount: rec.MovedValue},
	}
}

// EffectiveStats folds an optional record into an item's static stat
// snapshot: the decreased attribute is reduced by the moved value and one
// synthetic entry is appended for the increased attribute. With a nil record
// the result is a copy of the snapshot.
//
// Postcondition: the input slice is never mutated.
func EffectiveStats(snapshot []item.StatValue, rec *Record) []item.StatValue {
	if rec == nil {
		out := make([]item.StatValue, len(snapshot))
		copy(out, snapshot)
		return out
	}

	out := make([]item.StatValue, 0, len(snapshot)+1)
	for _, s := range snapshot {
		if s.Attribute == rec.Decreased {
			s.Value -= rec.MovedValue
		}
		out = append(out, s)
	}
	out = append(out, item.StatValue{Attribute: rec.Increased, Value: rec.MovedValue})
	return out
}

// Package item defines the item domain model: attribute kinds, quality tiers,
// static templates, and live item instances.
package item

import "fmt"

// Attribute identifies a category of numeric character stat an item can carry.
// The set is closed: every attribute the engine understands is listed here.
type Attribute string

const (
	AttrMana             Attribute = "mana"
	AttrHealth           Attribute = "health"
	AttrAgility          Attribute = "agility"
	AttrStrength         Attribute = "strength"
	AttrIntellect        Attribute = "intellect"
	AttrSpirit           Attribute = "spirit"
	AttrStamina          Attribute = "stamina"
	AttrDefenseRating    Attribute = "defense_rating"
	AttrDodgeRating      Attribute = "dodge_rating"
	AttrParryRating      Attribute = "parry_rating"
	AttrBlockRating      Attribute = "block_rating"
	AttrHitRating        Attribute = "hit_rating"
	AttrCritRating       Attribute = "crit_rating"
	AttrHasteRating      Attribute = "haste_rating"
	AttrResilience       Attribute = "resilience_rating"
	AttrExpertiseRating  Attribute = "expertise_rating"
	AttrAttackPower      Attribute = "attack_power"
	AttrRangedAttack     Attribute = "ranged_attack_power"
	AttrArmorPenetration Attribute = "armor_penetration"
	AttrSpellPower       Attribute = "spell_power"
	AttrManaRegen        Attribute = "mana_regen"
	AttrHealthRegen      Attribute = "health_regen"
	AttrSpellPenetration Attribute = "spell_penetration"
	AttrBlockValue       Attribute = "block_value"
)

// attributeDisplayNames maps every attribute kind to its human-readable label.
var attributeDisplayNames = map[Attribute]string{
	AttrMana:             "Mana",
	AttrHealth:           "Health",
	AttrAgility:          "Agility",
	AttrStrength:         "Strength",
	AttrIntellect:        "Intellect",
	AttrSpirit:           "Spirit",
	AttrStamina:          "Stamina",
	AttrDefenseRating:    "Defense Rating",
	AttrDodgeRating:      "Dodge Rating",
	AttrParryRating:      "Parry Rating",
	AttrBlockRating:      "Block Rating",
	AttrHitRating:        "Hit Rating",
	AttrCritRating:       "Critical Strike Rating",
	AttrHasteRating:      "Haste Rating",
	AttrResilience:       "Resilience Rating",
	AttrExpertiseRating:  "Expertise Rating",
	AttrAttackPower:      "Attack Power",
	AttrRangedAttack:     "Ranged Attack Power",
	AttrArmorPenetration: "Armor Penetration Rating",
	AttrSpellPower:       "Spell Power",
	AttrManaRegen:        "Mana Regeneration",
	AttrHealthRegen:      "Health Regeneration",
	AttrSpellPenetration: "Spell Penetration",
	AttrBlockValue:       "Block Value",
}

// Valid reports whether a is a known attribute kind.
func (a Attribute) Valid() bool {
	_, ok := attributeDisplayNames[a]
	return ok
}

// DisplayName returns the human-readable label for the attribute kind.
//
// Postcondition: returns the registered label, or "Unknown" for an
// unrecognized kind.
func (a Attribute) DisplayName() string {
	if label, ok := attributeDisplayNames[a]; ok {
		return label
	}
	return "Unknown"
}

// ParseAttribute resolves an attribute name to its kind.
//
// Postcondition: Returns the Attribute or an error for an unknown name.
func ParseAttribute(name string) (Attribute, error) {
	a := Attribute(name)
	if !a.Valid() {
		return "", fmt.Errorf("unknown attribute %q", name)
	}
	return a, nil
}

// Attributes returns all known attribute kinds in stable declaration order.
func Attributes() []Attribute {
	return []Attribute{
		AttrMana, AttrHealth, AttrAgility, AttrStrength, AttrIntellect,
		AttrSpirit, AttrStamina, AttrDefenseRating, AttrDodgeRating,
		AttrParryRating, AttrBlockRating, AttrHitRating, AttrCritRating,
		AttrHasteRating, AttrResilience, AttrExpertiseRating, AttrAttackPower,
		AttrRangedAttack, AttrArmorPenetration, AttrSpellPower, AttrManaRegen,
		AttrHealthRegen, AttrSpellPenetration, AttrBlockValue,
	}
}

package item

import "github.com/google/uuid"

// Equipment slot identifiers. An instance in any other location (bag, bank)
// is not equipped.
const (
	SlotHead     = "head"
	SlotNeck     = "neck"
	SlotShoulder = "shoulders"
	SlotChest    = "chest"
	SlotWaist    = "waist"
	SlotLegs     = "legs"
	SlotFeet     = "feet"
	SlotWrists   = "wrists"
	SlotHands    = "hands"
	SlotFinger1  = "finger_1"
	SlotFinger2  = "finger_2"
	SlotTrinket1 = "trinket_1"
	SlotTrinket2 = "trinket_2"
	SlotBack     = "back"
	SlotMainHand = "main_hand"
	SlotOffHand  = "off_hand"
	SlotRanged   = "ranged"

	// LocationBag and LocationBank are carried-but-not-equipped locations.
	LocationBag  = "bag"
	LocationBank = "bank"
)

// equipSlots is the set of slots that count as equipped.
var equipSlots = map[string]bool{
	SlotHead: true, SlotNeck: true, SlotShoulder: true, SlotChest: true,
	SlotWaist: true, SlotLegs: true, SlotFeet: true, SlotWrists: true,
	SlotHands: true, SlotFinger1: true, SlotFinger2: true,
	SlotTrinket1: true, SlotTrinket2: true, SlotBack: true,
	SlotMainHand: true, SlotOffHand: true, SlotRanged: true,
}

// EquipSlots returns all equipment slot identifiers in paper-doll order.
func EquipSlots() []string {
	return []string{
		SlotHead, SlotNeck, SlotShoulder, SlotChest, SlotWaist, SlotLegs,
		SlotFeet, SlotWrists, SlotHands, SlotFinger1, SlotFinger2,
		SlotTrinket1, SlotTrinket2, SlotBack, SlotMainHand, SlotOffHand,
		SlotRanged,
	}
}

// slotDisplayNames maps slot identifiers to human-readable labels.
var slotDisplayNames = map[string]string{
	SlotHead:     "Head",
	SlotNeck:     "Neck",
	SlotShoulder: "Shoulders",
	SlotChest:    "Chest",
	SlotWaist:    "Waist",
	SlotLegs:     "Legs",
	SlotFeet:     "Feet",
	SlotWrists:   "Wrists",
	SlotHands:    "Hands",
	SlotFinger1:  "Finger 1",
	SlotFinger2:  "Finger 2",
	SlotTrinket1: "Trinket 1",
	SlotTrinket2: "Trinket 2",
	SlotBack:     "Back",
	SlotMainHand: "Main Hand",
	SlotOffHand:  "Off Hand",
	SlotRanged:   "Ranged",
	LocationBag:  "Backpack",
	LocationBank: "Bank",
}

// SlotDisplayName returns the human-readable label for a slot identifier.
//
// Postcondition: returns the registered label, or slot itself if not found.
func SlotDisplayName(slot string) string {
	if label, ok := slotDisplayNames[slot]; ok {
		return label
	}
	return slot
}

// Instance is one live item owned by a character. The ID is stable for the
// lifetime of the item even as it moves between slots, bags, and the bank.
type Instance struct {
	// ID is the unique item instance identifier.
	ID uuid.UUID
	// TemplateID references the static Template this instance was cut from.
	TemplateID string
	// OwnerID is the owning character's ID.
	OwnerID int64
	// Slot is the current location: an equipment slot, LocationBag, or LocationBank.
	Slot string
}

// Equipped reports whether the instance currently occupies an equipment slot.
func (i *Instance) Equipped() bool {
	return equipSlots[i.Slot]
}

// Banked reports whether the instance is stored in the bank.
func (i *Instance) Banked() bool {
	return i.Slot == LocationBank
}

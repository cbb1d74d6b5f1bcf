package data

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultStackCap is the per-pile quantity cap for stackable items.
const DefaultStackCap int32 = 100

// Group is the stacking category of an item type.
// Two types with the same group can be transformed into each other in place.
type Group int32

const (
	GroupNone Group = iota
	GroupGround
	GroupContainer
	GroupWeapon
	GroupAmmo
	GroupArmor
	GroupCharges
	GroupSplash
	GroupMagicField
	GroupCoin
)

var groupNames = map[Group]string{
	GroupNone:       "none",
	GroupGround:     "ground",
	GroupContainer:  "container",
	GroupWeapon:     "weapon",
	GroupAmmo:       "ammo",
	GroupArmor:      "armor",
	GroupCharges:    "charges",
	GroupSplash:     "splash",
	GroupMagicField: "magicfield",
	GroupCoin:       "coin",
}

// String returns the catalog name of the group.
func (g Group) String() string {
	if name, ok := groupNames[g]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int32(g))
}

// UnmarshalYAML decodes a group from its catalog name.
func (g *Group) UnmarshalYAML(node *yaml.Node) error {
	for group, name := range groupNames {
		if strings.EqualFold(node.Value, name) {
			*g = group
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown item group %q", node.Line, node.Value)
}

// Layer is the render layer of an item on a map tile.
// Lower layers are drawn first and sort before higher ones.
type Layer int32

const (
	LayerGround Layer = iota
	LayerBorder
	LayerBottom
	LayerTop
	LayerCommon
)

var layerNames = map[Layer]string{
	LayerGround: "ground",
	LayerBorder: "border",
	LayerBottom: "bottom",
	LayerTop:    "top",
	LayerCommon: "common",
}

// String returns the catalog name of the layer.
func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int32(l))
}

// UnmarshalYAML decodes a layer from its catalog name.
func (l *Layer) UnmarshalYAML(node *yaml.Node) error {
	for layer, name := range layerNames {
		if strings.EqualFold(node.Value, name) {
			*l = layer
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown render layer %q", node.Line, node.Value)
}

// SlotMask lists the creature inventory slots an item type may be worn in.
type SlotMask uint32

const (
	SlotHead SlotMask = 1 << iota
	SlotNecklace
	SlotBackpack
	SlotArmor
	SlotHand
	SlotLegs
	SlotFeet
	SlotRing
	SlotAmmo
)

var slotNames = map[string]SlotMask{
	"head":     SlotHead,
	"necklace": SlotNecklace,
	"backpack": SlotBackpack,
	"armor":    SlotArmor,
	"hand":     SlotHand,
	"legs":     SlotLegs,
	"feet":     SlotFeet,
	"ring":     SlotRing,
	"ammo":     SlotAmmo,
}

// Has reports whether every bit of other is set in m.
func (m SlotMask) Has(other SlotMask) bool {
	return m&other == other
}

// UnmarshalYAML decodes a list of slot names.
func (m *SlotMask) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return err
	}
	var mask SlotMask
	for _, name := range names {
		bit, ok := slotNames[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("line %d: unknown inventory slot %q", node.Line, name)
		}
		mask |= bit
	}
	*m = mask
	return nil
}

// ItemType holds the static properties shared by every item of one type id.
type ItemType struct {
	ID    int32  `yaml:"id"`
	Name  string `yaml:"name"`
	Group Group  `yaml:"group"`
	Layer Layer  `yaml:"layer"`

	// Stacking
	Stackable bool  `yaml:"stackable"`
	StackCap  int32 `yaml:"stack_cap"` // 0 = DefaultStackCap
	Charges   int32 `yaml:"charges"`   // default charges of a charged kind

	// Containers
	Capacity int32 `yaml:"capacity"` // child slots

	Weight   int32    `yaml:"weight"` // per unit
	Slots    SlotMask `yaml:"slots"`
	Fixed    bool     `yaml:"fixed"`    // cannot be moved by players
	Blocking bool     `yaml:"blocking"` // blocks a map tile for other items
	Worth    int32    `yaml:"worth"`    // coin value per unit

	// Decay
	DecayTo   int32         `yaml:"decay_to"` // 0 = vanish
	DecayTime time.Duration `yaml:"decay_time"`
}

// IsContainer reports whether items of this type carry a container payload.
func (t *ItemType) IsContainer() bool {
	return t.Group == GroupContainer
}

// HasCharges reports whether the quantity of a non-stackable item counts charges.
func (t *ItemType) HasCharges() bool {
	return !t.Stackable && t.Charges > 0
}

// HasSubType reports whether the item quantity carries meaning.
func (t *ItemType) HasSubType() bool {
	return t.Stackable || t.HasCharges()
}

// IsMoveable reports whether players may move items of this type.
func (t *ItemType) IsMoveable() bool {
	return !t.Fixed
}

// Decays reports whether items of this type are scheduled on the decay wheel.
func (t *ItemType) Decays() bool {
	return t.DecayTime > 0
}

// MaxStack returns the per-pile cap.
func (t *ItemType) MaxStack() int32 {
	if !t.Stackable {
		return 1
	}
	if t.StackCap > 0 {
		return t.StackCap
	}
	return DefaultStackCap
}

// validate checks the internal consistency of one definition.
func (t *ItemType) validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("item type id must be > 0, got %d", t.ID)
	}
	if t.Stackable && t.Charges > 0 {
		return fmt.Errorf("item type %d: stackable items cannot carry charges", t.ID)
	}
	if t.StackCap < 0 || t.StackCap > DefaultStackCap {
		return fmt.Errorf("item type %d: stack_cap must be within 0..%d, got %d", t.ID, DefaultStackCap, t.StackCap)
	}
	if t.IsContainer() && t.Capacity <= 0 {
		return fmt.Errorf("item type %d: container capacity must be > 0", t.ID)
	}
	if t.IsContainer() && t.Stackable {
		return fmt.Errorf("item type %d: containers cannot stack", t.ID)
	}
	if t.Weight < 0 {
		return fmt.Errorf("item type %d: weight cannot be negative", t.ID)
	}
	if t.DecayTime < 0 {
		return fmt.Errorf("item type %d: decay_time cannot be negative", t.ID)
	}
	return nil
}

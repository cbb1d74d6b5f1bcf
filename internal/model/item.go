package model

import (
	"fmt"
	"time"

	"github.com/udisondev/worldobj/internal/data"
)

// DecayState tracks an item's membership in the decay wheel.
type DecayState uint8

const (
	NotDecaying DecayState = iota
	DecayScheduled
	DecayProcessed
)

// String returns human-readable decay state name.
func (s DecayState) String() string {
	switch s {
	case NotDecaying:
		return "NOT_DECAYING"
	case DecayScheduled:
		return "SCHEDULED"
	case DecayProcessed:
		return "PROCESSED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
}

// Item is a concrete object instance: a weapon, a coin pile, a backpack.
// It lives in exactly one Holder once committed.
//
// Items are owned by the world goroutine; they carry no locks.
type Item struct {
	handle Handle
	typ    *data.ItemType
	count  int32 // pile quantity, charges, or 1

	parent Holder
	refs   int32

	destroyed bool // pending reclamation
	freed     bool // reclaimed; must not be touched

	container *Container // non-nil for container types

	decayState DecayState
	duration   time.Duration // remaining decay time

	uniqueID uint32
	ownerTag uint32 // creature that created a field item
	text     string
	attrs    map[string]string
	bound    bool
}

// NewItem creates a free-floating item with validation.
//
// count is the pile size for stackable types (1..MaxStack), the charge
// count for charged types (<= 0 means the catalog default), and is ignored
// otherwise.
func NewItem(typ *data.ItemType, count int32) (*Item, error) {
	if typ == nil {
		return nil, fmt.Errorf("item type cannot be nil")
	}

	switch {
	case typ.Stackable:
		if count <= 0 || count > typ.MaxStack() {
			return nil, fmt.Errorf("count for type %d must be within 1..%d, got %d", typ.ID, typ.MaxStack(), count)
		}
	case typ.HasCharges():
		if count <= 0 {
			count = typ.Charges
		}
	default:
		count = 1
	}

	item := &Item{
		typ:      typ,
		count:    count,
		refs:     1,
		duration: typ.DecayTime,
	}
	if typ.IsContainer() {
		item.container = newContainer(item)
	}
	return item, nil
}

// Handle returns the registry handle (zero until registered).
func (i *Item) Handle() Handle {
	return i.handle
}

// SetHandle assigns the registry handle.
func (i *Item) SetHandle(h Handle) {
	i.handle = h
}

// ID returns the registry object id.
func (i *Item) ID() uint32 {
	return i.handle.ID
}

// TypeID returns the catalog type id.
func (i *Item) TypeID() int32 {
	return i.typ.ID
}

// Type returns the static item properties (immutable).
func (i *Item) Type() *data.ItemType {
	return i.typ
}

// Count returns the pile quantity (or charges, or 1).
func (i *Item) Count() int32 {
	return i.count
}

// SubType returns the quantity when it carries meaning, 0 otherwise.
func (i *Item) SubType() int32 {
	if i.typ.HasSubType() {
		return i.count
	}
	return 0
}

// IsStackable reports whether the item is a quantity-bearing pile.
func (i *Item) IsStackable() bool {
	return i.typ.Stackable
}

// Container returns the container payload, or nil.
func (i *Item) Container() *Container {
	return i.container
}

// Parent returns the owning holder (nil while free-floating).
func (i *Item) Parent() Holder {
	return i.parent
}

func (i *Item) setParent(h Holder) {
	i.parent = h
}

// TopHolder returns the outermost holder of the item's chain, or nil.
func (i *Item) TopHolder() Holder {
	if i.parent == nil {
		return nil
	}
	return TopHolder(i.parent)
}

// IsRemoved reports whether the item is detached from the graph:
// free-floating, destroyed, or inside a removed container.
func (i *Item) IsRemoved() bool {
	if i.destroyed || i.parent == nil {
		return true
	}
	return i.parent.IsRemoved()
}

// IsDestroyed reports whether the item is pending reclamation.
func (i *Item) IsDestroyed() bool {
	return i.destroyed
}

// MarkDestroyed flags the item as pending reclamation.
func (i *Item) MarkDestroyed() {
	i.destroyed = true
}

// IsFreed reports whether the item was reclaimed.
func (i *Item) IsFreed() bool {
	return i.freed
}

// MarkFreed flags the item as reclaimed.
func (i *Item) MarkFreed() {
	i.freed = true
}

// Use takes a reference.
func (i *Item) Use() {
	i.refs++
}

// Unuse drops a reference and returns the remaining count.
func (i *Item) Unuse() int32 {
	i.refs--
	return i.refs
}

// Refs returns the current reference count.
func (i *Item) Refs() int32 {
	return i.refs
}

// Weight returns the total weight, including container contents.
func (i *Item) Weight() int32 {
	switch {
	case i.container != nil:
		return i.typ.Weight + i.container.weight
	case i.typ.Stackable:
		return i.typ.Weight * i.count
	default:
		return i.typ.Weight
	}
}

// WeightOf returns the weight count units of this item would have.
func (i *Item) WeightOf(count int32) int32 {
	if i.typ.Stackable {
		return i.typ.Weight * count
	}
	return i.Weight()
}

// deepCount returns 1 plus the number of nested items.
func (i *Item) deepCount() int {
	if i.container != nil {
		return 1 + i.container.deep
	}
	return 1
}

// SetCount sets the quantity of a free-floating item. Committed items
// change quantity through their holder's CommitUpdate.
func (i *Item) SetCount(count int32) {
	if i.parent != nil {
		return
	}
	i.count = count
}

// CanMergeWith reports whether item can be merged into other.
func (i *Item) CanMergeWith(other *Item) bool {
	return i.canMergeWith(other)
}

// canMergeWith reports whether other is a same-type pile with room left.
func (i *Item) canMergeWith(other *Item) bool {
	return other != nil && other != i &&
		i.typ.Stackable && other.typ.ID == i.typ.ID &&
		other.count < other.typ.MaxStack()
}

// update changes type and quantity in place.
func (i *Item) update(typ *data.ItemType, count int32) {
	if typ.ID != i.typ.ID {
		i.duration = typ.DecayTime
	}
	i.typ = typ
	if typ.HasSubType() {
		i.count = count
	} else {
		i.count = 1
	}
}

// DecayState returns the item's wheel membership state.
func (i *Item) DecayState() DecayState {
	return i.decayState
}

// SetDecayState sets the item's wheel membership state.
func (i *Item) SetDecayState(s DecayState) {
	i.decayState = s
}

// Duration returns the remaining decay time.
func (i *Item) Duration() time.Duration {
	return i.duration
}

// SetDuration sets the remaining decay time.
func (i *Item) SetDuration(d time.Duration) {
	i.duration = d
}

// DecreaseDuration subtracts d from the remaining decay time.
func (i *Item) DecreaseDuration(d time.Duration) {
	i.duration -= d
}

// CanDecay reports whether the item may stay on the decay wheel.
func (i *Item) CanDecay() bool {
	return !i.IsRemoved() && i.decayState != NotDecaying && i.typ.Decays()
}

// UniqueID returns the unique-instance attribute (0 = none).
func (i *Item) UniqueID() uint32 {
	return i.uniqueID
}

// SetUniqueID sets the unique-instance attribute.
func (i *Item) SetUniqueID(id uint32) {
	i.uniqueID = id
}

// OwnerTag returns the creature that created a field item (0 = none).
func (i *Item) OwnerTag() uint32 {
	return i.ownerTag
}

// SetOwnerTag sets the creature that created a field item.
func (i *Item) SetOwnerTag(id uint32) {
	i.ownerTag = id
}

// Text returns the written text.
func (i *Item) Text() string {
	return i.text
}

// SetText sets the written text.
func (i *Item) SetText(text string) {
	i.text = text
}

// Attribute returns a custom attribute.
func (i *Item) Attribute(key string) (string, bool) {
	v, ok := i.attrs[key]
	return v, ok
}

// SetAttribute sets a custom attribute.
func (i *Item) SetAttribute(key, value string) {
	if i.attrs == nil {
		i.attrs = make(map[string]string, 1)
	}
	i.attrs[key] = value
}

// Attributes returns a copy of all custom attributes.
func (i *Item) Attributes() map[string]string {
	if len(i.attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(i.attrs))
	for k, v := range i.attrs {
		out[k] = v
	}
	return out
}

// IsBound reports whether the item refuses removal (trade lock, quest item).
func (i *Item) IsBound() bool {
	return i.bound
}

// SetBound sets the removal lock.
func (i *Item) SetBound(bound bool) {
	i.bound = bound
}

// CopyAttributesFrom copies the attributes that survive a transformation:
// owner tag, text and custom attributes.
func (i *Item) CopyAttributesFrom(other *Item) {
	i.ownerTag = other.ownerTag
	i.text = other.text
	i.attrs = other.Attributes()
}

// String returns "type#id xcount" for logs.
func (i *Item) String() string {
	return fmt.Sprintf("%s#%d x%d", i.typ.Name, i.handle.ID, i.count)
}

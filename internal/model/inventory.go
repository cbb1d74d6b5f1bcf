package model

import (
	"math"

	"github.com/udisondev/worldobj/internal/data"
)

// Inventory slots of a creature.
const (
	SlotHead = iota
	SlotNecklace
	SlotBackpack
	SlotArmor
	SlotRight
	SlotLeft
	SlotLegs
	SlotFeet
	SlotRing
	SlotAmmo
	SlotCount
)

// slotMasks maps inventory slots to the catalog slot bit an item needs.
// Hands and ammo accept anything.
var slotMasks = [SlotCount]data.SlotMask{
	SlotHead:     data.SlotHead,
	SlotNecklace: data.SlotNecklace,
	SlotBackpack: data.SlotBackpack,
	SlotArmor:    data.SlotArmor,
	SlotLegs:     data.SlotLegs,
	SlotFeet:     data.SlotFeet,
	SlotRing:     data.SlotRing,
}

// Inventory: инвентарь существа: фиксированные слоты с единственным
// владельцем каждого слота и лимитом веса.
//
// Inventory is a top-level holder. Containers worn in it (the backpack)
// count toward its weight.
type Inventory struct {
	ownerID  ActorID
	slots    [SlotCount]*Item
	capacity int32 // weight limit, 0 = unlimited
	dirty    bool
}

// NewInventory создаёт пустой инвентарь.
func NewInventory(ownerID ActorID, capacity int32) *Inventory {
	return &Inventory{
		ownerID:  ownerID,
		capacity: capacity,
	}
}

// OwnerID возвращает владельца инвентаря.
func (inv *Inventory) OwnerID() ActorID {
	return inv.ownerID
}

// Capacity returns the weight limit (0 = unlimited).
func (inv *Inventory) Capacity() int32 {
	return inv.capacity
}

// Weight returns the total weight of everything worn, container contents included.
func (inv *Inventory) Weight() int32 {
	var w int32
	for _, it := range inv.slots {
		if it != nil {
			w += it.Weight()
		}
	}
	return w
}

// FreeCapacity returns the weight still available, or math.MaxInt32 when unlimited.
func (inv *Inventory) FreeCapacity() int32 {
	if inv.capacity <= 0 {
		return math.MaxInt32
	}
	return max(inv.capacity-inv.Weight(), 0)
}

// Dirty reports whether the inventory changed since the last ClearDirty.
func (inv *Inventory) Dirty() bool {
	return inv.dirty
}

// ClearDirty resets the change marker.
func (inv *Inventory) ClearDirty() {
	inv.dirty = false
}

// SlotAccepts reports whether an item of typ may be worn in slot.
func SlotAccepts(slot int, typ *data.ItemType) bool {
	switch {
	case slot < 0 || slot >= SlotCount:
		return false
	case slot == SlotRight || slot == SlotLeft || slot == SlotAmmo:
		return true
	default:
		return typ.Slots.Has(slotMasks[slot])
	}
}

func (inv *Inventory) Parent() Holder {
	return nil
}

func (inv *Inventory) IsRemoved() bool {
	return false
}

func (inv *Inventory) IndexOf(item *Item) int {
	for i, it := range inv.slots {
		if it != nil && it == item {
			return i
		}
	}
	return -1
}

func (inv *Inventory) ItemAt(slot int) *Item {
	if slot < 0 || slot >= SlotCount {
		return nil
	}
	return inv.slots[slot]
}

// Len returns the number of slots, occupied or not.
func (inv *Inventory) Len() int {
	return SlotCount
}

// ResolveDestination with IndexAnywhere prefers a mergeable pile, then the
// backpack container, then the first free compatible slot. A slot holding a
// container redirects into it.
func (inv *Inventory) ResolveDestination(slot int, item *Item, _ Flags) (Holder, int, *Item) {
	if slot == IndexAnywhere {
		if item.IsStackable() {
			for i, occ := range inv.slots {
				if item.canMergeWith(occ) {
					return inv, i, occ
				}
			}
		}
		if bp := inv.slots[SlotBackpack]; bp != nil && bp != item && bp.container != nil {
			return bp.container, IndexAnywhere, nil
		}
		for i, occ := range inv.slots {
			if occ == nil && SlotAccepts(i, item.typ) {
				return inv, i, nil
			}
		}
		return inv, IndexAnywhere, nil
	}

	occ := inv.ItemAt(slot)
	switch {
	case occ == nil || occ == item:
		return inv, slot, occ
	case occ.container != nil:
		return occ.container, IndexAnywhere, nil
	default:
		return inv, slot, occ
	}
}

func (inv *Inventory) QueryAdd(slot int, item *Item, count int32, flags Flags, _ ActorID) Outcome {
	if item == nil {
		return NotPossible
	}
	if slot == IndexAnywhere {
		return NotEnoughRoom
	}
	if !SlotAccepts(slot, item.typ) {
		return NotPossible
	}

	if occ := inv.slots[slot]; occ != nil && occ != item && !item.canMergeWith(occ) && !flags.Has(FlagSwap) {
		return NeedExchange
	}

	if flags.Has(FlagNoLimit) {
		return Allowed
	}
	return inv.checkWeight(item, count, swapOut(inv.slots[slot], item, flags))
}

func (inv *Inventory) QueryMaxCount(slot int, item *Item, count int32, flags Flags) (int32, Outcome) {
	if flags.Has(FlagNoLimit) {
		return count, Allowed
	}

	occ := inv.ItemAt(slot)
	free := occ == nil || occ == item || flags.Has(FlagSwap)

	n, out := count, Allowed
	if item.IsStackable() {
		n = pileMaxCount(item, occ, count, free)
	} else if !free {
		n = 0
	}
	if n < count {
		out = NotEnoughRoom
	}

	if w := inv.maxByWeight(item, swapOut(occ, item, flags)); w < n {
		n, out = w, NotEnoughCapacity
	}
	return n, out
}

func (inv *Inventory) QueryRemove(item *Item, count int32, flags Flags, _ ActorID) Outcome {
	return queryRemoveCommon(inv, item, count, flags)
}

func (inv *Inventory) CommitAdd(slot int, item *Item) {
	if slot < 0 || slot >= SlotCount || inv.slots[slot] != nil {
		slot = inv.firstFreeSlot(item)
	}
	if slot < 0 {
		return
	}
	inv.slots[slot] = item
	item.setParent(inv)
}

func (inv *Inventory) CommitRemove(item *Item, count int32) {
	idx := inv.IndexOf(item)
	if idx < 0 {
		return
	}
	if item.IsStackable() && count < item.count {
		item.count -= count
		return
	}
	inv.slots[idx] = nil
	item.setParent(nil)
}

func (inv *Inventory) CommitUpdate(item *Item, typ *data.ItemType, count int32) {
	item.update(typ, count)
}

func (inv *Inventory) CommitReplace(slot int, item *Item) {
	old := inv.ItemAt(slot)
	if old == nil {
		return
	}
	inv.slots[slot] = item
	old.setParent(nil)
	item.setParent(inv)
}

func (inv *Inventory) PostAdd(_ *Item, _ Holder, _ int) {
	inv.dirty = true
}

func (inv *Inventory) PostRemove(_ *Item, _ Holder, _ int, _ bool) {
	inv.dirty = true
}

// checkWeight refuses items heavier than the remaining capacity.
// Items already inside this inventory's tree do not change its weight.
// out is the item leaving in a swap; its weight is freed first.
func (inv *Inventory) checkWeight(item *Item, count int32, out *Item) Outcome {
	if inv.capacity <= 0 || item.TopHolder() == Holder(inv) {
		return Allowed
	}
	if item.WeightOf(count) > inv.freeAfter(out) {
		return NotEnoughCapacity
	}
	return Allowed
}

// maxByWeight returns how many units of item the remaining capacity carries.
func (inv *Inventory) maxByWeight(item *Item, out *Item) int32 {
	if inv.capacity <= 0 || item.TopHolder() == Holder(inv) {
		return math.MaxInt32
	}
	free := inv.freeAfter(out)
	if !item.IsStackable() {
		if item.Weight() > free {
			return 0
		}
		return math.MaxInt32
	}
	if item.typ.Weight == 0 {
		return math.MaxInt32
	}
	return free / item.typ.Weight
}

// freeAfter is the free capacity once out has left the inventory.
func (inv *Inventory) freeAfter(out *Item) int32 {
	free := inv.FreeCapacity()
	if out != nil && out.TopHolder() == Holder(inv) {
		free += out.Weight()
	}
	return free
}

func (inv *Inventory) firstFreeSlot(item *Item) int {
	for i, occ := range inv.slots {
		if occ == nil && SlotAccepts(i, item.typ) {
			return i
		}
	}
	return -1
}

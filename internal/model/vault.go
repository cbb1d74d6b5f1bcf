package model

import "github.com/udisondev/worldobj/internal/data"

// Vault is a storage depot owned by one actor. The item limit counts nested
// container contents too.
type Vault struct {
	id       uint32
	ownerID  ActorID
	items    itemList
	maxItems int // 0 = unlimited
	dirty    bool
}

// NewVault creates an empty depot.
func NewVault(id uint32, ownerID ActorID, maxItems int) *Vault {
	return &Vault{id: id, ownerID: ownerID, maxItems: maxItems}
}

// ID returns the depot id.
func (v *Vault) ID() uint32 {
	return v.id
}

// OwnerID returns the actor allowed to use the depot.
func (v *Vault) OwnerID() ActorID {
	return v.ownerID
}

// MaxItems returns the item limit (0 = unlimited).
func (v *Vault) MaxItems() int {
	return v.maxItems
}

// DeepCount returns the number of stored items at any depth.
func (v *Vault) DeepCount() int {
	return v.items.deepCount()
}

// Items returns a copy of the top-level items, front first.
func (v *Vault) Items() []*Item {
	out := make([]*Item, len(v.items))
	copy(out, v.items)
	return out
}

func (v *Vault) Dirty() bool {
	return v.dirty
}

func (v *Vault) ClearDirty() {
	v.dirty = false
}

func (v *Vault) Parent() Holder {
	return nil
}

func (v *Vault) IsRemoved() bool {
	return false
}

func (v *Vault) IndexOf(item *Item) int {
	return v.items.indexOf(item)
}

func (v *Vault) ItemAt(slot int) *Item {
	return v.items.at(slot)
}

func (v *Vault) Len() int {
	return len(v.items)
}

func (v *Vault) ResolveDestination(slot int, item *Item, _ Flags) (Holder, int, *Item) {
	return resolveInList(v, v.items, slot, item)
}

func (v *Vault) QueryAdd(slot int, item *Item, count int32, flags Flags, actor ActorID) Outcome {
	if item == nil {
		return NotPossible
	}
	if out := v.checkAccess(actor); out != Allowed {
		return out
	}
	if flags.Has(FlagNoLimit) || item.IsStackable() {
		return Allowed
	}
	return v.checkRoom(item, count, swapOut(v.items.at(slot), item, flags))
}

func (v *Vault) QueryMaxCount(slot int, item *Item, count int32, flags Flags) (int32, Outcome) {
	if flags.Has(FlagNoLimit) {
		return count, Allowed
	}

	free := v.checkRoom(item, count, swapOut(v.items.at(slot), item, flags)) == Allowed
	n := count
	if item.IsStackable() {
		n = pileMaxCount(item, v.items.at(slot), count, free)
	} else if !free {
		n = 0
	}
	if n < count {
		return n, ContainerNotEnoughRoom
	}
	return n, Allowed
}

func (v *Vault) QueryRemove(item *Item, count int32, flags Flags, actor ActorID) Outcome {
	if out := queryRemoveCommon(v, item, count, flags); out != Allowed {
		return out
	}
	return v.checkAccess(actor)
}

func (v *Vault) CommitAdd(slot int, item *Item) {
	v.items.insert(slot, item)
	item.setParent(v)
}

func (v *Vault) CommitRemove(item *Item, count int32) {
	idx := v.items.indexOf(item)
	if idx < 0 {
		return
	}
	if item.IsStackable() && count < item.count {
		item.count -= count
		return
	}
	v.items.removeAt(idx)
	item.setParent(nil)
}

func (v *Vault) CommitUpdate(item *Item, typ *data.ItemType, count int32) {
	item.update(typ, count)
}

func (v *Vault) CommitReplace(slot int, item *Item) {
	old := v.items.at(slot)
	if old == nil {
		return
	}
	v.items[slot] = item
	old.setParent(nil)
	item.setParent(v)
}

func (v *Vault) PostAdd(_ *Item, _ Holder, _ int) {
	v.dirty = true
}

func (v *Vault) PostRemove(_ *Item, _ Holder, _ int, _ bool) {
	v.dirty = true
}

func (v *Vault) checkAccess(actor ActorID) Outcome {
	if actor == SystemActor || actor == v.ownerID {
		return Allowed
	}
	return NotPossible
}

// checkRoom refuses items that would push the depot over its limit.
// Items already stored do not count twice, but splitting count units off a
// stored pile creates one more item. out is the item leaving in a swap.
func (v *Vault) checkRoom(item *Item, count int32, out *Item) Outcome {
	if v.maxItems <= 0 {
		return Allowed
	}
	added := item.deepCount()
	if item.TopHolder() == Holder(v) {
		if !item.IsStackable() || count >= item.count {
			return Allowed
		}
		added = 1
	}
	if out != nil && out.TopHolder() == Holder(v) {
		added -= out.deepCount()
	}
	if v.DeepCount()+added > v.maxItems {
		return ContainerNotEnoughRoom
	}
	return Allowed
}

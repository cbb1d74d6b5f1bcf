package model

import "github.com/udisondev/worldobj/internal/data"

// Holder is anything that can contain items: a map tile, a creature
// inventory, a container, a storage vault.
//
// Every mutation goes through two phases. Query* methods validate and never
// mutate; Commit* methods mutate and may only be called after the matching
// query succeeded. Post* hooks run after the commit.
type Holder interface {
	// Parent returns the enclosing holder (nil for top-level holders).
	Parent() Holder
	// IsRemoved reports whether the holder is detached from the world.
	IsRemoved() bool

	IndexOf(item *Item) int
	ItemAt(slot int) *Item
	Len() int

	// ResolveDestination returns the holder that will really receive item,
	// the slot inside it, and the occupant of that slot: a same-type pile
	// to merge into, a different item blocking a single-occupancy slot, or
	// item itself for a self-move. A returned holder different from the
	// receiver means the caller must resolve again on it.
	ResolveDestination(slot int, item *Item, flags Flags) (Holder, int, *Item)

	QueryAdd(slot int, item *Item, count int32, flags Flags, actor ActorID) Outcome
	// QueryMaxCount returns how many of count units commit would accept at slot.
	QueryMaxCount(slot int, item *Item, count int32, flags Flags) (int32, Outcome)
	QueryRemove(item *Item, count int32, flags Flags, actor ActorID) Outcome

	CommitAdd(slot int, item *Item)
	CommitRemove(item *Item, count int32)
	CommitUpdate(item *Item, typ *data.ItemType, count int32)
	CommitReplace(slot int, item *Item)

	PostAdd(item *Item, from Holder, slot int)
	PostRemove(item *Item, to Holder, slot int, removed bool)
}

// TopHolder returns the outermost holder of h's chain.
func TopHolder(h Holder) Holder {
	for steps := 0; h.Parent() != nil && steps < MaxLayers*MaxLayers; steps++ {
		h = h.Parent()
	}
	return h
}

// isInside reports whether h is c or nested anywhere below c.
func isInside(h Holder, c *Container) bool {
	for ; h != nil; h = h.Parent() {
		if hc, ok := h.(*Container); ok && hc == c {
			return true
		}
	}
	return false
}

// ancestorQueryAdd applies the limits of every holder enclosing h:
// the weight capacity of an inventory, the item limit and owner of a vault.
// out is the item leaving h in a swap, or nil.
func ancestorQueryAdd(h Holder, item *Item, count int32, flags Flags, actor ActorID, out *Item) Outcome {
	for p := h.Parent(); p != nil; p = p.Parent() {
		switch p := p.(type) {
		case *Inventory:
			if flags.Has(FlagNoLimit) {
				continue
			}
			if res := p.checkWeight(item, count, out); res != Allowed {
				return res
			}
		case *Vault:
			if res := p.checkAccess(actor); res != Allowed {
				return res
			}
			if !flags.Has(FlagNoLimit) && !item.IsStackable() {
				if res := p.checkRoom(item, count, out); res != Allowed {
					return res
				}
			}
		}
	}
	return Allowed
}

// ancestorMaxCount caps count by the weight limit of every enclosing inventory.
func ancestorMaxCount(h Holder, item *Item, count int32, flags Flags, out *Item) (int32, Outcome) {
	if flags.Has(FlagNoLimit) {
		return count, Allowed
	}
	res := Allowed
	for p := h.Parent(); p != nil; p = p.Parent() {
		if inv, ok := p.(*Inventory); ok {
			if n := inv.maxByWeight(item, out); n < count {
				count, res = n, NotEnoughCapacity
			}
		}
	}
	return count, res
}

// ancestorAllowsNewPile reports whether every enclosing vault has room for
// the pile count units of item would form.
func ancestorAllowsNewPile(h Holder, item *Item, count int32, flags Flags, out *Item) bool {
	if flags.Has(FlagNoLimit) {
		return true
	}
	for p := h.Parent(); p != nil; p = p.Parent() {
		if v, ok := p.(*Vault); ok && v.checkRoom(item, count, out) != Allowed {
			return false
		}
	}
	return true
}

// swapOut returns the occupant that leaves its slot when item takes it in
// a swap, or nil when nothing leaves.
func swapOut(occupant, item *Item, flags Flags) *Item {
	if !flags.Has(FlagSwap) || occupant == item {
		return nil
	}
	return occupant
}

// ancestorQueryRemove applies the permission checks of enclosing holders.
func ancestorQueryRemove(h Holder, actor ActorID) Outcome {
	for p := h.Parent(); p != nil; p = p.Parent() {
		if v, ok := p.(*Vault); ok {
			if out := v.checkAccess(actor); out != Allowed {
				return out
			}
		}
	}
	return Allowed
}

// queryRemoveCommon holds the checks every holder applies before removal.
func queryRemoveCommon(h Holder, item *Item, count int32, flags Flags) Outcome {
	if item == nil || h.IndexOf(item) < 0 {
		return NotPossible
	}
	if count <= 0 || count > item.count {
		return NotPossible
	}
	if !item.typ.IsMoveable() && !flags.Has(FlagIgnoreNotMoveable) {
		return NotMoveable
	}
	if item.bound {
		return NotPossible
	}
	return Allowed
}

// pileMaxCount computes how many units of a stackable fit: the merge room
// of the occupant plus one new pile when a free place exists.
func pileMaxCount(item, occupant *Item, count int32, hasFreePlace bool) int32 {
	var room int32
	if item.canMergeWith(occupant) {
		room = occupant.typ.MaxStack() - occupant.count
	}
	if hasFreePlace {
		room += item.typ.MaxStack()
	}
	return min(count, room)
}

// itemList is an ordered slice of items shared by list-backed holders.
type itemList []*Item

func (l itemList) indexOf(item *Item) int {
	for i, it := range l {
		if it == item {
			return i
		}
	}
	return -1
}

func (l itemList) at(slot int) *Item {
	if slot < 0 || slot >= len(l) {
		return nil
	}
	return l[slot]
}

// insert places item at slot, clamped to the list bounds.
func (l *itemList) insert(slot int, item *Item) {
	if slot < 0 || slot > len(*l) {
		slot = 0
	}
	*l = append(*l, nil)
	copy((*l)[slot+1:], (*l)[slot:])
	(*l)[slot] = item
}

func (l *itemList) removeAt(slot int) {
	copy((*l)[slot:], (*l)[slot+1:])
	(*l)[len(*l)-1] = nil
	*l = (*l)[:len(*l)-1]
}

// mergeTarget returns the first pile item can merge into.
func (l itemList) mergeTarget(item *Item) (int, *Item) {
	if !item.IsStackable() {
		return IndexAnywhere, nil
	}
	for i, it := range l {
		if item.canMergeWith(it) {
			return i, it
		}
	}
	return IndexAnywhere, nil
}

// deepCount sums the items of the list including nested contents.
func (l itemList) deepCount() int {
	n := 0
	for _, it := range l {
		n += it.deepCount()
	}
	return n
}

// resolveInList implements ResolveDestination for list-backed holders:
// a slot naming a child container redirects into it, a slot naming a
// mergeable pile reports it, IndexAnywhere picks the first mergeable pile.
func resolveInList(self Holder, l itemList, slot int, item *Item) (Holder, int, *Item) {
	if occ := l.at(slot); occ != nil {
		if occ == item {
			return self, slot, occ
		}
		if occ.container != nil {
			return occ.container, IndexAnywhere, nil
		}
		if item.canMergeWith(occ) {
			return self, slot, occ
		}
		return self, slot, nil
	}
	idx, occ := l.mergeTarget(item)
	return self, idx, occ
}

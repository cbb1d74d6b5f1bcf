package model

import "github.com/udisondev/worldobj/internal/data"

// Tile is one map square. Items are kept in render order: ground first,
// then border, bottom and top layer items, then common items newest first.
type Tile struct {
	pos      Position
	items    itemList
	maxItems int // 0 = unlimited
	dirty    bool
}

// NewTile creates an empty tile. maxItems limits the number of items on the
// tile (0 = unlimited); FlagNoLimit ignores it.
func NewTile(pos Position, maxItems int) *Tile {
	return &Tile{pos: pos, maxItems: maxItems}
}

// Position returns the tile coordinates.
func (t *Tile) Position() Position {
	return t.pos
}

// Ground returns the ground item, or nil.
func (t *Tile) Ground() *Item {
	if len(t.items) > 0 && t.items[0].typ.Layer == data.LayerGround {
		return t.items[0]
	}
	return nil
}

// Items returns a copy of the tile items in render order.
func (t *Tile) Items() []*Item {
	out := make([]*Item, len(t.items))
	copy(out, t.items)
	return out
}

// Dirty reports whether the tile changed since the last ClearDirty.
func (t *Tile) Dirty() bool {
	return t.dirty
}

// ClearDirty resets the change marker.
func (t *Tile) ClearDirty() {
	t.dirty = false
}

// Parent returns nil: tiles are top-level holders.
func (t *Tile) Parent() Holder {
	return nil
}

func (t *Tile) IsRemoved() bool {
	return false
}

func (t *Tile) Len() int {
	return len(t.items)
}

func (t *Tile) ItemAt(slot int) *Item {
	return t.items.at(slot)
}

func (t *Tile) IndexOf(item *Item) int {
	return t.items.indexOf(item)
}

// ResolveDestination merges stackables into the newest same-type pile and
// redirects a slot naming a container into that container.
func (t *Tile) ResolveDestination(slot int, item *Item, _ Flags) (Holder, int, *Item) {
	return resolveInList(t, t.items, slot, item)
}

func (t *Tile) QueryAdd(_ int, item *Item, _ int32, flags Flags, _ ActorID) Outcome {
	if item == nil {
		return NotPossible
	}
	if item.typ.Layer == data.LayerGround && t.Ground() != nil && t.Ground() != item {
		return NotPossible
	}
	if flags.Has(FlagNoLimit) {
		return Allowed
	}

	if !flags.Has(FlagIgnoreBlocking) && t.isBlocked(item) {
		return NotEnoughRoom
	}
	if !item.IsStackable() && !t.hasFreePlace(flags) {
		return NotEnoughRoom
	}
	return Allowed
}

func (t *Tile) QueryMaxCount(slot int, item *Item, count int32, flags Flags) (int32, Outcome) {
	if flags.Has(FlagNoLimit) {
		return count, Allowed
	}

	var n int32
	switch {
	case item.IsStackable():
		n = pileMaxCount(item, t.items.at(slot), count, t.hasFreePlace(flags))
	case t.hasFreePlace(flags):
		n = count
	}
	if n < count {
		return n, NotEnoughRoom
	}
	return n, Allowed
}

func (t *Tile) QueryRemove(item *Item, count int32, flags Flags, _ ActorID) Outcome {
	return queryRemoveCommon(t, item, count, flags)
}

// CommitAdd places item by render layer; the slot is ignored.
func (t *Tile) CommitAdd(_ int, item *Item) {
	t.items.insert(t.insertIndex(item), item)
	item.setParent(t)
}

func (t *Tile) CommitRemove(item *Item, count int32) {
	idx := t.items.indexOf(item)
	if idx < 0 {
		return
	}
	if item.IsStackable() && count < item.count {
		item.count -= count
		return
	}
	t.items.removeAt(idx)
	item.setParent(nil)
}

func (t *Tile) CommitUpdate(item *Item, typ *data.ItemType, count int32) {
	item.update(typ, count)
}

func (t *Tile) CommitReplace(slot int, item *Item) {
	old := t.items.at(slot)
	if old == nil {
		return
	}
	t.items[slot] = item
	old.setParent(nil)
	item.setParent(t)
}

func (t *Tile) PostAdd(_ *Item, _ Holder, _ int) {
	t.dirty = true
}

func (t *Tile) PostRemove(_ *Item, _ Holder, _ int, _ bool) {
	t.dirty = true
}

// insertIndex returns the render-order position for a new item.
func (t *Tile) insertIndex(item *Item) int {
	layer := item.typ.Layer
	idx := 0
	for idx < len(t.items) && t.items[idx].typ.Layer != data.LayerCommon {
		if layer != data.LayerCommon && t.items[idx].typ.Layer > layer {
			break
		}
		idx++
	}
	return idx
}

func (t *Tile) isBlocked(item *Item) bool {
	for _, it := range t.items {
		if it != item && it.typ.Blocking {
			return true
		}
	}
	return false
}

func (t *Tile) hasFreePlace(flags Flags) bool {
	if t.maxItems <= 0 {
		return true
	}
	if flags.Has(FlagSwap) {
		return len(t.items) <= t.maxItems
	}
	return len(t.items) < t.maxItems
}

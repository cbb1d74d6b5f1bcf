package engine

import "github.com/udisondev/worldobj/internal/model"

// AddItem places a free-floating item into to.
//
// A stackable item fully merged into an existing pile is destroyed. When
// only part of it fits, the part that fits is placed and a new remainder
// item holding the rest is returned with the capacity outcome; the caller
// decides its fate. testOnly runs the queries and commits nothing.
func (e *Engine) AddItem(to model.Holder, item *model.Item, slot int, flags model.Flags, testOnly bool) (*model.Item, model.Outcome) {
	if to == nil || item == nil || item.Parent() != nil || item.IsDestroyed() {
		return nil, model.NotPossible
	}
	if !e.enter() {
		return nil, model.NotPossible
	}
	defer e.leave()

	dest, dslot, occ, out := e.resolve(to, slot, item, flags)
	if !out.OK() {
		return nil, out
	}

	count := item.Count()
	if out = dest.QueryAdd(dslot, item, count, flags, model.SystemActor); !out.OK() {
		return nil, out
	}
	n, capOut := dest.QueryMaxCount(dslot, item, count, flags)
	if n <= 0 {
		if capOut.OK() {
			capOut = model.NotPossible
		}
		return nil, capOut
	}
	if testOnly {
		return nil, capOut
	}

	var remainder *model.Item
	if n < count {
		rem, err := e.split(item, count-n)
		if err != nil {
			e.log.Error("creating remainder", "item", item.ID(), "error", err)
			return nil, model.NotPossible
		}
		remainder = rem
		item.SetCount(n)
	}

	if item.CanMergeWith(occ) {
		merged, leftover := ResolveStack(occ.Count(), n, occ.Type().MaxStack())
		dest.CommitUpdate(occ, occ.Type(), occ.Count()+merged)
		if leftover == 0 {
			e.destroy(item)
			e.notifyAdd(dest, occ, nil, dest.IndexOf(occ))
			return remainder, capOut
		}
		item.SetCount(leftover)
		dest.CommitAdd(dslot, item)
		e.notifyAdd(dest, item, nil, dest.IndexOf(item))
		e.notifyAdd(dest, occ, nil, dest.IndexOf(occ))
		e.wheel.Start(item)
		return remainder, capOut
	}

	dest.CommitAdd(dslot, item)
	e.notifyAdd(dest, item, nil, dest.IndexOf(item))
	e.wheel.Start(item)
	return remainder, capOut
}

// PlaceInInventory adds item to inv. Whatever does not fit is dropped on
// tile without limits. Returns the outcome of the inventory add.
func (e *Engine) PlaceInInventory(inv *model.Inventory, tile *model.Tile, item *model.Item, slot int) model.Outcome {
	remainder, out := e.AddItem(inv, item, slot, 0, false)
	if remainder != nil {
		e.drop(tile, remainder)
	}
	if !out.OK() && item.Parent() == nil && !item.IsDestroyed() {
		e.drop(tile, item)
	}
	return out
}

// drop places item on tile ignoring limits, destroying it when that fails.
func (e *Engine) drop(tile *model.Tile, item *model.Item) {
	if tile != nil {
		if _, out := e.AddItem(tile, item, model.IndexAnywhere, model.FlagNoLimit, false); out.OK() {
			return
		}
	}
	e.log.Warn("dropping item without a place", "item", item.ID(), "type", item.TypeID(), "count", item.Count())
	e.destroy(item)
}

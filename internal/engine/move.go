package engine

import "github.com/udisondev/worldobj/internal/model"

// Moved reports the result of MoveItem.
type Moved struct {
	// Item is what now sits at the destination: the moved item, the pile it
	// was merged into, or the new pile split off a partially moved stack.
	Item  *model.Item
	Count int32
	// Exchanged is the former occupant relocated into the source.
	Exchanged *model.Item
}

// MoveItem moves count units of item from its holder to slot of to.
//
// Nothing is mutated before every query has passed. When fewer units than
// requested fit, the units that fit are moved and the capacity outcome is
// returned together with Moved.Count > 0.
func (e *Engine) MoveItem(from, to model.Holder, slot int, item *model.Item, count int32, actor model.ActorID) (Moved, model.Outcome) {
	return e.moveItem(from, to, slot, item, count, 0, actor)
}

func (e *Engine) moveItem(from, to model.Holder, slot int, item *model.Item, count int32, flags model.Flags, actor model.ActorID) (Moved, model.Outcome) {
	if from == nil || to == nil || item == nil || item.Parent() != from {
		return Moved{}, model.NotPossible
	}
	if !item.IsStackable() {
		count = item.Count()
	} else if count <= 0 || count > item.Count() {
		return Moved{}, model.NotPossible
	}
	if !e.enter() {
		e.log.Warn("transaction nesting too deep", "item", item.ID(), "depth", e.depth)
		return Moved{}, model.NotPossible
	}
	defer e.leave()

	dest, dslot, occ, out := e.resolve(to, slot, item, flags)
	if !out.OK() {
		return Moved{}, out
	}
	if occ == item {
		return Moved{Item: item}, model.Allowed
	}

	out = dest.QueryAdd(dslot, item, count, flags, actor)
	if out == model.NeedExchange {
		if occ == nil || count < item.Count() {
			return Moved{}, model.NotEnoughRoom
		}
		if out = e.queryExchange(from, dest, dslot, item, occ, flags, actor); !out.OK() {
			return Moved{}, out
		}
		e.commitExchange(from, dest, dslot, item, occ)
		return Moved{Item: item, Count: count, Exchanged: occ}, model.Allowed
	}
	if !out.OK() {
		return Moved{}, out
	}

	n, capOut := dest.QueryMaxCount(dslot, item, count, flags)
	if n <= 0 {
		if capOut.OK() {
			capOut = model.NotPossible
		}
		return Moved{}, capOut
	}

	if out = from.QueryRemove(item, n, flags, actor); !out.OK() {
		return Moved{}, out
	}

	moved, out := e.commitMove(from, dest, dslot, item, occ, n)
	if out.OK() && n < count {
		out = capOut
	}
	return moved, out
}

// queryExchange validates both halves of a swap: occ into the source at
// the item's slot, item into the destination in place of occ.
func (e *Engine) queryExchange(from, dest model.Holder, dslot int, item, occ *model.Item, flags model.Flags, actor model.ActorID) model.Outcome {
	fslot := from.IndexOf(item)
	swap := flags | model.FlagSwap

	if out := from.QueryAdd(fslot, occ, occ.Count(), swap, actor); !out.OK() {
		return out
	}
	if n, out := from.QueryMaxCount(fslot, occ, occ.Count(), swap); n < occ.Count() {
		if out.OK() {
			out = model.NotEnoughRoom
		}
		return out
	}
	if out := dest.QueryRemove(occ, occ.Count(), flags, actor); !out.OK() {
		return out
	}
	if out := dest.QueryAdd(dslot, item, item.Count(), swap, actor); !out.OK() {
		return out
	}
	if n, out := dest.QueryMaxCount(dslot, item, item.Count(), swap); n < item.Count() {
		if out.OK() {
			out = model.NotEnoughRoom
		}
		return out
	}
	return from.QueryRemove(item, item.Count(), flags, actor)
}

func (e *Engine) commitExchange(from, dest model.Holder, dslot int, item, occ *model.Item) {
	fslot := from.IndexOf(item)
	oslot := dest.IndexOf(occ)

	dest.CommitRemove(occ, occ.Count())
	from.CommitRemove(item, item.Count())
	from.CommitAdd(fslot, occ)
	dest.CommitAdd(dslot, item)

	e.notifyRemove(dest, occ, from, oslot, false)
	e.notifyAdd(from, occ, dest, from.IndexOf(occ))
	e.notifyRemove(from, item, dest, fslot, false)
	e.notifyAdd(dest, item, from, dest.IndexOf(item))

	e.wheel.Start(occ)
	e.wheel.Start(item)
}

// commitMove removes n units from the source and lands them at the
// destination: merged into occ, as a new pile, or as the item itself.
// The split pile is created before anything is committed.
func (e *Engine) commitMove(from, dest model.Holder, dslot int, item, occ *model.Item, n int32) (Moved, model.Outcome) {
	complete := n == item.Count()
	merged, remaining := int32(0), n
	if item.CanMergeWith(occ) {
		merged, remaining = ResolveStack(occ.Count(), n, occ.Type().MaxStack())
	}

	moving := item
	switch {
	case remaining == 0:
		moving = nil
	case !complete:
		split, err := e.split(item, remaining)
		if err != nil {
			e.log.Error("splitting pile", "item", item.ID(), "error", err)
			return Moved{}, model.NotPossible
		}
		moving = split
	}

	fslot := from.IndexOf(item)
	from.CommitRemove(item, n)
	if merged > 0 {
		dest.CommitUpdate(occ, occ.Type(), occ.Count()+merged)
	}
	if moving == item {
		item.SetCount(remaining)
	}
	if moving != nil {
		dest.CommitAdd(dslot, moving)
	}
	gone := complete && moving != item
	if gone {
		e.destroy(item)
	}

	e.notifyRemove(from, item, dest, fslot, gone)
	if moving != nil {
		e.notifyAdd(dest, moving, from, dest.IndexOf(moving))
		e.wheel.Start(moving)
	}
	if merged > 0 {
		e.notifyAdd(dest, occ, from, dest.IndexOf(occ))
	}

	res := Moved{Item: moving, Count: n}
	if moving == nil {
		res.Item = occ
	}
	return res, model.Allowed
}

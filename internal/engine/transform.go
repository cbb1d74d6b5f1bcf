package engine

import (
	"github.com/udisondev/worldobj/internal/data"
	"github.com/udisondev/worldobj/internal/model"
)

// KeepCount asks TransformItem to keep the current quantity.
const KeepCount int32 = -1

// TransformItem changes item into newTypeID with newCount units
// (KeepCount keeps the quantity or uses the catalog default).
//
// Types of the same group and render layer are updated in place. A
// different layer removes the item and adds a new one to the same holder;
// a different group replaces it at the same slot. Zero units of a
// stackable remove it; zero charges follow the decay target, or remove the
// item when there is none. Returns the resulting item, the pile it merged
// into when a relayered stackable merges, or nil when removed.
func (e *Engine) TransformItem(item *model.Item, newTypeID int32, newCount int32) (*model.Item, model.Outcome) {
	if item == nil {
		return nil, model.NotPossible
	}
	if item.TypeID() == newTypeID && (newCount == KeepCount || (newCount == item.SubType() && newCount != 0)) {
		return item, model.Allowed
	}

	parent := item.Parent()
	if parent == nil {
		return nil, model.NotPossible
	}
	slot := parent.IndexOf(item)
	if slot < 0 {
		e.log.Warn("transforming item missing from its holder", "item", item.ID(), "type", item.TypeID())
		return item, model.NotPossible
	}

	newType, ok := e.catalog.Lookup(newTypeID)
	if !ok {
		e.log.Warn("transforming into unknown type", "item", item.ID(), "type", item.TypeID(), "newType", newTypeID)
		return item, model.NotPossible
	}
	cur := item.Type()

	if !e.enter() {
		return item, model.NotPossible
	}
	defer e.leave()

	switch {
	case cur.Layer != newType.Layer:
		return e.transformRelayer(item, parent, newType, newCount)
	case cur.Group == newType.Group:
		return e.transformInPlace(item, parent, slot, newType, newCount)
	default:
		return e.transformReplace(item, parent, slot, newType, newCount)
	}
}

// transformRelayer removes item and adds a new item so the holder can
// place it by its new render layer.
func (e *Engine) transformRelayer(item *model.Item, parent model.Holder, newType *data.ItemType, newCount int32) (*model.Item, model.Outcome) {
	next, err := e.createTransformed(newType, newCount)
	if err != nil {
		e.log.Warn("transforming item", "item", item.ID(), "newType", newType.ID, "error", err)
		return item, model.NotPossible
	}
	if out := e.RemoveItem(item, KeepCount, false); !out.OK() {
		e.destroy(next)
		return item, out
	}
	next.CopyAttributesFrom(item)

	_, _, pile, _ := e.resolve(parent, model.IndexAnywhere, next, model.FlagNoLimit)
	if _, out := e.AddItem(parent, next, model.IndexAnywhere, model.FlagNoLimit, false); !out.OK() {
		e.log.Warn("re-adding transformed item", "item", item.ID(), "newType", newType.ID, "outcome", out)
		e.destroy(next)
		return nil, out
	}
	if next.IsDestroyed() {
		// Fully merged into the pile already there.
		if pile == nil || pile.IsRemoved() {
			return nil, model.Allowed
		}
		return pile, model.Allowed
	}
	return next, model.Allowed
}

func (e *Engine) transformInPlace(item *model.Item, parent model.Holder, slot int, newType *data.ItemType, newCount int32) (*model.Item, model.Outcome) {
	cur := item.Type()

	if newCount == 0 && (cur.Stackable || cur.HasCharges()) {
		if cur.Stackable {
			return nil, e.RemoveItem(item, KeepCount, false)
		}
		target := newType.ID
		if cur.ID == newType.ID {
			target = cur.DecayTo
		}
		switch {
		case target == 0:
			return nil, e.RemoveItem(item, KeepCount, false)
		case target != newType.ID:
			targetType, ok := e.catalog.Lookup(target)
			if !ok {
				e.log.Warn("charges run out into unknown type", "item", item.ID(), "type", cur.ID, "decayTo", target)
				return nil, e.RemoveItem(item, KeepCount, false)
			}
			return e.transformReplace(item, parent, slot, targetType, KeepCount)
		default:
			return e.TransformItem(item, target, KeepCount)
		}
	}

	count := item.SubType()
	if newCount != KeepCount && newType.HasSubType() {
		count = newCount
	}
	if newType.Stackable && (count < 1 || count > newType.MaxStack()) {
		return item, model.NotPossible
	}

	e.notifyRemove(parent, item, parent, slot, false)
	changed := cur.ID != newType.ID
	parent.CommitUpdate(item, newType, count)
	e.notifyAdd(parent, item, parent, slot)
	if changed {
		// The remaining time was reset for the new type.
		e.wheel.Evict(item)
		e.wheel.Start(item)
	}
	return item, model.Allowed
}

// transformReplace puts a new item at the slot of item and destroys item.
func (e *Engine) transformReplace(item *model.Item, parent model.Holder, slot int, newType *data.ItemType, newCount int32) (*model.Item, model.Outcome) {
	next, err := e.createTransformed(newType, newCount)
	if err != nil {
		e.log.Warn("transforming item", "item", item.ID(), "newType", newType.ID, "error", err)
		return item, model.NotPossible
	}
	next.CopyAttributesFrom(item)

	parent.CommitReplace(slot, next)
	e.notifyAdd(parent, next, parent, slot)
	e.notifyRemove(parent, item, parent, slot, true)
	e.destroy(item)
	e.wheel.Start(next)
	return next, model.Allowed
}

func (e *Engine) createTransformed(typ *data.ItemType, count int32) (*model.Item, error) {
	if count == KeepCount || !typ.HasSubType() {
		count = 0
		if typ.Stackable {
			count = 1
		}
	}
	return e.CreateItem(typ.ID, count)
}

// DecayItem runs the terminal decay action: transform into the decay
// target, or remove when there is none. An unknown target removes the item.
func (e *Engine) DecayItem(item *model.Item) {
	if item.IsRemoved() {
		return
	}
	typ := item.Type()

	if typ.DecayTo != 0 {
		if _, ok := e.catalog.Lookup(typ.DecayTo); ok {
			next, out := e.TransformItem(item, typ.DecayTo, KeepCount)
			if !out.OK() {
				e.log.Warn("decay transform failed", "item", item.ID(), "type", typ.ID, "decayTo", typ.DecayTo, "outcome", out)
				e.removeDecayed(item)
				return
			}
			if next != nil && !next.IsDestroyed() {
				e.wheel.Start(next)
			}
			return
		}
		e.log.Warn("item decays into unknown type", "item", item.ID(), "type", typ.ID, "decayTo", typ.DecayTo)
	}
	e.removeDecayed(item)
}

func (e *Engine) removeDecayed(item *model.Item) {
	if item.IsRemoved() {
		return
	}
	if out := e.RemoveItem(item, KeepCount, false); !out.OK() {
		e.log.Warn("removing decayed item", "item", item.ID(), "type", item.TypeID(), "outcome", out)
	}
}

package engine

import "github.com/udisondev/worldobj/internal/model"

// RemoveItem removes count units of item from its holder; count -1 removes
// all. Fixed items may be removed, bound items may not. An item removed
// entirely is destroyed and leaves the decay wheel.
func (e *Engine) RemoveItem(item *model.Item, count int32, testOnly bool) model.Outcome {
	if item == nil {
		return model.NotPossible
	}
	parent := item.Parent()
	if parent == nil {
		return model.NotPossible
	}
	if count < 0 || !item.IsStackable() {
		count = item.Count()
	}

	if out := parent.QueryRemove(item, count, model.FlagIgnoreNotMoveable, model.SystemActor); !out.OK() {
		return out
	}
	if testOnly {
		return model.Allowed
	}
	if !e.enter() {
		return model.NotPossible
	}
	defer e.leave()

	slot := parent.IndexOf(item)
	parent.CommitRemove(item, count)
	complete := item.Parent() == nil
	if complete {
		e.destroy(item)
	}
	e.notifyRemove(parent, item, nil, slot, complete)
	return model.Allowed
}

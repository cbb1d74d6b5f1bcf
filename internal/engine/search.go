package engine

import "github.com/udisondev/worldobj/internal/model"

// AnySubType matches items of any quantity in searches.
const AnySubType int32 = -1

// walk visits the items of h breadth-first, descending into containers when
// deep is set, until fn returns false. Reclamation is held off for the walk.
func (e *Engine) walk(h model.Holder, deep bool, fn func(item *model.Item) bool) {
	if h == nil {
		return
	}
	e.world.BeginIteration()
	defer e.world.EndIteration()

	queue := []model.Holder{h}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for i := range cur.Len() {
			item := cur.ItemAt(i)
			if item == nil {
				continue
			}
			if !fn(item) {
				return
			}
			if c := item.Container(); deep && c != nil {
				queue = append(queue, c)
			}
		}
	}
}

func matches(item *model.Item, typeID, subType int32) bool {
	return item.TypeID() == typeID && (subType == AnySubType || item.SubType() == subType)
}

// FindItemOfType returns the first item of typeID in h, nearest level first.
// subType AnySubType matches any quantity.
func (e *Engine) FindItemOfType(h model.Holder, typeID int32, deep bool, subType int32) *model.Item {
	var found *model.Item
	e.walk(h, deep, func(item *model.Item) bool {
		if matches(item, typeID, subType) {
			found = item
			return false
		}
		return true
	})
	return found
}

// CountItemsOfType returns the number of units of typeID in h and its
// containers. Non-stackable items count as one.
func (e *Engine) CountItemsOfType(h model.Holder, typeID int32, subType int32) int32 {
	var n int32
	e.walk(h, true, func(item *model.Item) bool {
		if matches(item, typeID, subType) {
			n += unitsOf(item)
		}
		return true
	})
	return n
}

// RemoveItemOfType removes count units of typeID from h and its containers.
// Nothing is removed unless all count units are present; bound piles do not count.
func (e *Engine) RemoveItemOfType(h model.Holder, typeID int32, count int32, subType int32) bool {
	if count <= 0 {
		return true
	}

	var (
		found []*model.Item
		total int32
	)
	e.walk(h, true, func(item *model.Item) bool {
		if matches(item, typeID, subType) && e.RemoveItem(item, unitsOf(item), true).OK() {
			found = append(found, item)
			total += unitsOf(item)
		}
		return total < count
	})
	if total < count {
		return false
	}

	for _, item := range found {
		n := min(unitsOf(item), count)
		if out := e.RemoveItem(item, n, false); !out.OK() {
			e.log.Warn("removing item of type", "item", item.ID(), "type", typeID, "outcome", out)
			return false
		}
		count -= n
		if count == 0 {
			break
		}
	}
	return count == 0
}

func unitsOf(item *model.Item) int32 {
	if item.IsStackable() {
		return item.Count()
	}
	return 1
}

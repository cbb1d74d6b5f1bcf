package model

import "github.com/udisondev/worldobj/internal/data"

// Container is the payload of a container item (backpack, bag, corpse).
// It is both part of an Item and a Holder for its children.
//
// Aggregate weight and nested item count are kept up to date on every
// commit so weight checks never walk the tree.
type Container struct {
	item   *Item
	items  itemList
	weight int32 // sum of children weights
	deep   int   // number of nested items at any depth
}

func newContainer(item *Item) *Container {
	return &Container{item: item}
}

// Item returns the item carrying this container.
func (c *Container) Item() *Item {
	return c.item
}

// Capacity returns the number of child slots.
func (c *Container) Capacity() int {
	return int(c.item.typ.Capacity)
}

// Items returns a copy of the children, front first.
func (c *Container) Items() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Weight returns the summed weight of the children.
func (c *Container) Weight() int32 {
	return c.weight
}

// DeepCount returns the number of nested items at any depth.
func (c *Container) DeepCount() int {
	return c.deep
}

// IsFull reports whether every slot is taken.
func (c *Container) IsFull() bool {
	return len(c.items) >= c.Capacity()
}

func (c *Container) Parent() Holder {
	return c.item.parent
}

func (c *Container) IsRemoved() bool {
	return c.item.IsRemoved()
}

func (c *Container) IndexOf(item *Item) int {
	return c.items.indexOf(item)
}

func (c *Container) ItemAt(slot int) *Item {
	return c.items.at(slot)
}

func (c *Container) Len() int {
	return len(c.items)
}

func (c *Container) ResolveDestination(slot int, item *Item, _ Flags) (Holder, int, *Item) {
	return resolveInList(c, c.items, slot, item)
}

func (c *Container) QueryAdd(slot int, item *Item, count int32, flags Flags, actor ActorID) Outcome {
	if item == nil {
		return NotPossible
	}
	// A container cannot end up inside itself.
	if item.container != nil && isInside(c, item.container) {
		return NotPossible
	}

	if !flags.Has(FlagNoLimit) && !item.IsStackable() && !c.hasFreePlace(flags) {
		return ContainerNotEnoughRoom
	}

	return ancestorQueryAdd(c, item, count, flags, actor, swapOut(c.items.at(slot), item, flags))
}

func (c *Container) QueryMaxCount(slot int, item *Item, count int32, flags Flags) (int32, Outcome) {
	if flags.Has(FlagNoLimit) {
		return count, Allowed
	}

	leaving := swapOut(c.items.at(slot), item, flags)
	n, out := count, Allowed
	if item.IsStackable() {
		free := c.hasFreePlace(flags) && ancestorAllowsNewPile(c, item, count, flags, leaving)
		n = pileMaxCount(item, c.items.at(slot), count, free)
	} else if !c.hasFreePlace(flags) {
		n = 0
	}
	if n < count {
		out = ContainerNotEnoughRoom
	}

	if capped, capOut := ancestorMaxCount(c, item, n, flags, leaving); capped < n {
		n, out = capped, capOut
	}
	return n, out
}

func (c *Container) QueryRemove(item *Item, count int32, flags Flags, actor ActorID) Outcome {
	if out := queryRemoveCommon(c, item, count, flags); out != Allowed {
		return out
	}
	return ancestorQueryRemove(c, actor)
}

// CommitAdd inserts item at slot; an out-of-range slot inserts at the front.
func (c *Container) CommitAdd(slot int, item *Item) {
	c.items.insert(slot, item)
	item.setParent(c)
	c.adjust(item.Weight(), item.deepCount())
}

func (c *Container) CommitRemove(item *Item, count int32) {
	idx := c.items.indexOf(item)
	if idx < 0 {
		return
	}

	if item.IsStackable() && count < item.count {
		before := item.Weight()
		item.count -= count
		c.adjust(item.Weight()-before, 0)
		return
	}

	c.items.removeAt(idx)
	item.setParent(nil)
	c.adjust(-item.Weight(), -item.deepCount())
}

func (c *Container) CommitUpdate(item *Item, typ *data.ItemType, count int32) {
	before := item.Weight()
	item.update(typ, count)
	c.adjust(item.Weight()-before, 0)
}

func (c *Container) CommitReplace(slot int, item *Item) {
	old := c.items.at(slot)
	if old == nil {
		return
	}
	c.items[slot] = item
	old.setParent(nil)
	item.setParent(c)
	c.adjust(item.Weight()-old.Weight(), item.deepCount()-old.deepCount())
}

// PostAdd bubbles the change to the enclosing holder so top-level holders
// learn their contents changed.
func (c *Container) PostAdd(item *Item, from Holder, _ int) {
	if p := c.Parent(); p != nil {
		p.PostAdd(item, from, IndexAnywhere)
	}
}

func (c *Container) PostRemove(item *Item, to Holder, _ int, removed bool) {
	if p := c.Parent(); p != nil {
		p.PostRemove(item, to, IndexAnywhere, removed)
	}
}

func (c *Container) hasFreePlace(flags Flags) bool {
	if flags.Has(FlagSwap) {
		return len(c.items) <= c.Capacity()
	}
	return len(c.items) < c.Capacity()
}

// adjust propagates weight and count deltas up the container chain.
func (c *Container) adjust(dw int32, dn int) {
	for cur := c; cur != nil; {
		cur.weight += dw
		cur.deep += dn
		parent, ok := cur.item.parent.(*Container)
		if !ok {
			return
		}
		cur = parent
	}
}

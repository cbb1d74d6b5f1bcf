package world

import "github.com/udisondev/worldobj/internal/model"

// FirstItemID is the first object ID handed out to items.
// IDs below it stay reserved for creatures, so logs never mix the ranges.
const FirstItemID = 0x30000000

// Registry is the arena of live items. Each slot carries a generation
// counter that is bumped when the slot is freed, so a stale handle stops
// resolving even after its ID is recycled.
//
// Not safe for concurrent use: the registry belongs to the world goroutine.
type Registry struct {
	slots []registrySlot
	free  []uint32 // recycled slot indexes, LIFO
	live  int
}

type registrySlot struct {
	item *model.Item
	gen  uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register assigns item a fresh handle and stores it.
func (r *Registry) Register(item *model.Item) model.Handle {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, registrySlot{gen: 1})
	}

	s := &r.slots[idx]
	s.item = item
	h := model.Handle{ID: FirstItemID + idx, Gen: s.gen}
	item.SetHandle(h)
	r.live++
	return h
}

// Resolve returns the item behind h, or false when the handle is stale.
func (r *Registry) Resolve(h model.Handle) (*model.Item, bool) {
	s := r.slot(h)
	if s == nil {
		return nil, false
	}
	return s.item, true
}

// Free releases the slot of h. Returns false for stale or unknown handles.
func (r *Registry) Free(h model.Handle) bool {
	s := r.slot(h)
	if s == nil {
		return false
	}
	s.item = nil
	s.gen++
	r.free = append(r.free, h.ID-FirstItemID)
	r.live--
	return true
}

// Len returns the number of live items.
func (r *Registry) Len() int {
	return r.live
}

func (r *Registry) slot(h model.Handle) *registrySlot {
	if h.ID < FirstItemID {
		return nil
	}
	idx := h.ID - FirstItemID
	if int(idx) >= len(r.slots) {
		return nil
	}
	s := &r.slots[idx]
	if s.item == nil || s.gen != h.Gen {
		return nil
	}
	return s
}

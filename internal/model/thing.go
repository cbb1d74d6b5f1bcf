package model

// Handle is a generation-checked reference to an item in the world registry.
// A handle whose slot was reclaimed no longer resolves.
type Handle struct {
	ID  uint32
	Gen uint32
}

// IsZero reports whether the handle was never assigned.
func (h Handle) IsZero() bool {
	return h.ID == 0
}

// Thing is anything occupying a position in the ownership graph.
type Thing interface {
	Handle() Handle
	Parent() Holder
	IsRemoved() bool

	// Use takes a reference; Unuse drops one and returns the remaining count.
	Use()
	Unuse() int32
}

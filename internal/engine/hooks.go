package engine

import "github.com/udisondev/worldobj/internal/model"

//go:generate go tool mockgen -destination=mocks/subscriber.go -package=mocks github.com/udisondev/worldobj/internal/engine Subscriber

// Event describes one committed change of a holder.
type Event struct {
	Item   *model.Item
	Holder model.Holder // holder that changed
	Other  model.Holder // the other side of a move, nil for create and destroy
	Slot   int
	// Removed is set on OnRemove when the item left the graph entirely.
	Removed bool
}

// Subscriber observes committed changes. Hooks run synchronously on the
// world goroutine after the holder's own post hook, in registration order.
// They may start new transactions; nesting is bounded by model.MaxLayers.
type Subscriber interface {
	OnAdd(ev Event)
	OnRemove(ev Event)
}

// Subscribe registers s for all later notifications.
func (e *Engine) Subscribe(s Subscriber) {
	e.subs = append(e.subs, s)
}

func (e *Engine) notifyAdd(h model.Holder, item *model.Item, from model.Holder, slot int) {
	h.PostAdd(item, from, slot)
	ev := Event{Item: item, Holder: h, Other: from, Slot: slot}
	for _, s := range e.subs {
		s.OnAdd(ev)
	}
}

func (e *Engine) notifyRemove(h model.Holder, item *model.Item, to model.Holder, slot int, removed bool) {
	h.PostRemove(item, to, slot, removed)
	ev := Event{Item: item, Holder: h, Other: to, Slot: slot, Removed: removed}
	for _, s := range e.subs {
		s.OnRemove(ev)
	}
}

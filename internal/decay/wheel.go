// Package decay implements the time wheel that expires items.
package decay

import (
	"time"

	"github.com/udisondev/worldobj/internal/model"
)

// Decayer выполняет терминальное действие над истёкшим предметом:
// превращение в decayTo или удаление.
type Decayer interface {
	DecayItem(item *model.Item)
}

// Releaser принимает ссылку, которую колесо держало на предмет.
type Releaser interface {
	Release(item *model.Item)
}

// Stats summarises one Tick.
type Stats struct {
	Fired   int // terminal actions run
	Dropped int // items no longer eligible, removed lazily
}

// Wheel: кольцевой массив корзин. Каждый Tick обрабатывается одна корзина,
// полный оборот занимает interval * len(buckets).
//
// Предмет в колесе держит одну ссылку (Use) до выхода из колеса. Evict
// только снимает флаг: сам предмет выбрасывается из корзины при следующем
// посещении.
type Wheel struct {
	buckets  [][]entry
	current  int // last processed bucket
	interval time.Duration
	pending  []entry // started since the last flush

	// enrolled maps each scheduled item to the seq of its live entry.
	// Entries left behind by Evict or a restart no longer match.
	enrolled map[*model.Item]uint64
	seq      uint64

	decayer  Decayer
	releaser Releaser
}

// NewWheel создаёт колесо. interval и buckets должны быть > 0.
func NewWheel(interval time.Duration, buckets int, d Decayer, r Releaser) *Wheel {
	return &Wheel{
		buckets:  make([][]entry, buckets),
		interval: interval,
		enrolled: make(map[*model.Item]uint64),
		decayer:  d,
		releaser: r,
	}
}

// Interval returns the period of one Tick.
func (w *Wheel) Interval() time.Duration {
	return w.interval
}

// Rotation returns the time of one full turn.
func (w *Wheel) Rotation() time.Duration {
	return w.interval * time.Duration(len(w.buckets))
}

// Len returns the number of scheduled items.
func (w *Wheel) Len() int {
	return len(w.enrolled)
}

// Scheduled reports whether item is enrolled in the wheel.
func (w *Wheel) Scheduled(item *model.Item) bool {
	_, ok := w.enrolled[item]
	return ok
}

// Start schedules item. Items whose type does not decay are ignored; an
// already scheduled item keeps its place. An item with no time left runs
// its terminal action right away.
func (w *Wheel) Start(item *model.Item) {
	if item == nil || item.IsDestroyed() || !item.Type().Decays() {
		return
	}
	if item.DecayState() == model.DecayScheduled {
		return
	}
	if item.Duration() <= 0 {
		item.SetDecayState(model.DecayProcessed)
		w.decayer.DecayItem(item)
		return
	}

	w.seq++
	w.enrolled[item] = w.seq
	item.Use()
	item.SetDecayState(model.DecayScheduled)
	w.pending = append(w.pending, entry{item: item, seq: w.seq})
}

// Evict stops decay of item. The wheel drops its entry on the next visit.
func (w *Wheel) Evict(item *model.Item) {
	if _, ok := w.enrolled[item]; !ok {
		return
	}
	delete(w.enrolled, item)
	item.SetDecayState(model.NotDecaying)
}

// Tick advances one bucket and processes it.
func (w *Wheel) Tick() Stats {
	var st Stats
	st.Dropped += w.flush()

	w.current = (w.current + 1) % len(w.buckets)
	bucket := w.buckets[w.current]
	w.buckets[w.current] = nil

	rotation := w.Rotation()
	var stay []entry
	for _, e := range bucket {
		item := e.item
		if !w.eligible(e) {
			w.drop(e)
			st.Dropped++
			continue
		}

		item.DecreaseDuration(min(rotation, item.Duration()))
		dur := item.Duration()

		switch {
		case dur <= 0:
			w.fire(item)
			st.Fired++
		case dur < rotation:
			offset := int((dur + w.interval/2) / w.interval)
			switch offset {
			case 0:
				w.fire(item)
				st.Fired++
			case len(w.buckets):
				stay = append(stay, e)
			default:
				idx := (w.current + offset) % len(w.buckets)
				w.buckets[idx] = append(w.buckets[idx], e)
			}
		default:
			stay = append(stay, e)
		}
	}
	w.buckets[w.current] = stay

	st.Dropped += w.flush()
	return st
}

// flush places pending items relative to the current bucket.
func (w *Wheel) flush() int {
	dropped := 0
	pending := w.pending
	w.pending = nil
	for _, e := range pending {
		if !w.eligible(e) {
			w.drop(e)
			dropped++
			continue
		}
		idx := (w.current + w.offset(e.item.Duration())) % len(w.buckets)
		w.buckets[idx] = append(w.buckets[idx], e)
	}
	return dropped
}

// eligible reports whether e is the live entry of an item that may still decay.
func (w *Wheel) eligible(e entry) bool {
	seq, ok := w.enrolled[e.item]
	return ok && seq == e.seq && e.item.CanDecay()
}

// offset returns ceil(d/interval) clamped to one rotation.
func (w *Wheel) offset(d time.Duration) int {
	n := int((d + w.interval - 1) / w.interval)
	return min(max(n, 1), len(w.buckets))
}

func (w *Wheel) fire(item *model.Item) {
	delete(w.enrolled, item)
	item.SetDecayState(model.DecayProcessed)
	w.decayer.DecayItem(item)
	w.releaser.Release(item)
}

// drop releases the reference held by a stale or ineligible entry.
func (w *Wheel) drop(e entry) {
	if seq, ok := w.enrolled[e.item]; ok && seq == e.seq {
		delete(w.enrolled, e.item)
		e.item.SetDecayState(model.NotDecaying)
	}
	w.releaser.Release(e.item)
}

type entry struct {
	item *model.Item
	seq  uint64
}

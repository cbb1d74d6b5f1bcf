// Package engine implements the item transaction protocol: move, add,
// remove and transform, stack resolution, decay actions and reclamation.
//
// The engine is not safe for concurrent use. Every call must come from the
// world goroutine; other goroutines submit work through gameloop.Loop.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/worldobj/internal/data"
	"github.com/udisondev/worldobj/internal/decay"
	"github.com/udisondev/worldobj/internal/model"
	"github.com/udisondev/worldobj/internal/world"
)

// Default decay wheel geometry: one bucket per second, 16 buckets.
const (
	DefaultDecayInterval = time.Second
	DefaultDecayBuckets  = 16
)

// TileLocator returns the map tile under a top-level holder that is not a
// tile itself (a creature inventory), or nil. Overflow that does not fit the
// holder is dropped there.
type TileLocator func(h model.Holder) *model.Tile

// Engine is the only sanctioned mutator of the object graph.
type Engine struct {
	catalog *data.Catalog
	world   *world.World
	wheel   *decay.Wheel
	subs    []Subscriber
	locate  TileLocator
	log     *slog.Logger

	depth int // nesting of transactions started from hooks
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	log      *slog.Logger
	interval time.Duration
	buckets  int
	locate   TileLocator
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.log = l }
}

// WithDecayWheel sets the decay wheel period and bucket count.
func WithDecayWheel(interval time.Duration, buckets int) Option {
	return func(o *engineOptions) {
		o.interval = interval
		o.buckets = buckets
	}
}

// WithTileLocator sets how overflow finds a tile for non-tile holders.
func WithTileLocator(fn TileLocator) Option {
	return func(o *engineOptions) { o.locate = fn }
}

// New creates an engine over w using catalog for item types.
func New(catalog *data.Catalog, w *world.World, opts ...Option) *Engine {
	o := engineOptions{
		log:      slog.Default(),
		interval: DefaultDecayInterval,
		buckets:  DefaultDecayBuckets,
	}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		catalog: catalog,
		world:   w,
		locate:  o.locate,
		log:     o.log,
	}
	e.wheel = decay.NewWheel(o.interval, o.buckets, e, w)
	return e
}

// Catalog returns the item catalog.
func (e *Engine) Catalog() *data.Catalog {
	return e.catalog
}

// World returns the world the engine mutates.
func (e *Engine) World() *world.World {
	return e.world
}

// Wheel returns the decay wheel.
func (e *Engine) Wheel() *decay.Wheel {
	return e.wheel
}

// CreateItem constructs a free-floating item and registers it.
// count follows model.NewItem.
func (e *Engine) CreateItem(typeID int32, count int32) (*model.Item, error) {
	typ, ok := e.catalog.Lookup(typeID)
	if !ok {
		return nil, fmt.Errorf("unknown item type %d", typeID)
	}
	item, err := model.NewItem(typ, count)
	if err != nil {
		return nil, fmt.Errorf("creating item of type %d: %w", typeID, err)
	}
	e.world.Registry().Register(item)
	return item, nil
}

// Resolve returns the live item behind h.
func (e *Engine) Resolve(h model.Handle) (*model.Item, bool) {
	return e.world.Registry().Resolve(h)
}

// StartDecay enrolls item in the decay wheel when its type decays.
func (e *Engine) StartDecay(item *model.Item) {
	e.wheel.Start(item)
}

// Release queues one reference of item for end-of-tick reclamation.
// Collaborators destroying an item they still reference mid-tick use it.
func (e *Engine) Release(item *model.Item) {
	e.world.Release(item)
}

// TickStats summarises one Tick.
type TickStats struct {
	Decay decay.Stats
	Freed int
}

// Tick advances the decay wheel one bucket, then drains reclamation.
// Call it once per wheel interval after all other work of the tick.
func (e *Engine) Tick() TickStats {
	st := TickStats{Decay: e.wheel.Tick()}
	st.Freed = e.world.Drain()
	return st
}

// enter bounds transactions nested through notification hooks.
func (e *Engine) enter() bool {
	if e.depth >= model.MaxLayers {
		return false
	}
	e.depth++
	return true
}

func (e *Engine) leave() {
	e.depth--
}

// split creates a registered copy of src holding count units.
func (e *Engine) split(src *model.Item, count int32) (*model.Item, error) {
	item, err := e.CreateItem(src.TypeID(), count)
	if err != nil {
		return nil, err
	}
	item.CopyAttributesFrom(src)
	item.SetDuration(src.Duration())
	return item, nil
}

// destroy detaches item from decay and queues its release.
func (e *Engine) destroy(item *model.Item) {
	item.MarkDestroyed()
	e.wheel.Evict(item)
	e.world.Release(item)
}

// resolve follows destination redirects until a holder keeps the item.
func (e *Engine) resolve(to model.Holder, slot int, item *model.Item, flags model.Flags) (model.Holder, int, *model.Item, model.Outcome) {
	for range model.MaxLayers {
		next, nslot, occ := to.ResolveDestination(slot, item, flags)
		if next == to {
			return to, nslot, occ, model.Allowed
		}
		to, slot = next, nslot
	}
	e.log.Warn("destination redirect loop", "item", item.ID(), "type", item.TypeID())
	return nil, model.IndexAnywhere, nil, model.NotPossible
}

// tileFor returns the tile overflow from h is dropped on, or nil.
func (e *Engine) tileFor(h model.Holder) *model.Tile {
	top := model.TopHolder(h)
	if t, ok := top.(*model.Tile); ok {
		return t
	}
	if e.locate != nil {
		return e.locate(top)
	}
	return nil
}

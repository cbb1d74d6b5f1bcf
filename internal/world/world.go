package world

import (
	"log/slog"

	"github.com/udisondev/worldobj/internal/model"
)

// World holds the map tiles, the item registry and the reclamation queue.
//
// World is owned by a single goroutine (see gameloop). Items removed from
// the graph are not freed immediately: Release queues them and Drain frees
// them at the end of the tick, so code still holding a pointer during the
// tick never sees a recycled item.
type World struct {
	registry     *Registry
	tiles        map[model.Position]*model.Tile
	tileMaxItems int

	pending   []*model.Item
	iterating int // active holder walks; Drain waits for zero

	log *slog.Logger
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger for reclamation diagnostics (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(w *World) { w.log = l }
}

// New creates an empty world. tileMaxItems limits items per tile (0 = unlimited).
func New(tileMaxItems int, opts ...Option) *World {
	w := &World{
		registry:     NewRegistry(),
		tiles:        make(map[model.Position]*model.Tile),
		tileMaxItems: tileMaxItems,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Registry returns the item arena.
func (w *World) Registry() *Registry {
	return w.registry
}

// Tile returns the tile at pos, creating it on first access.
func (w *World) Tile(pos model.Position) *model.Tile {
	if t, ok := w.tiles[pos]; ok {
		return t
	}
	t := model.NewTile(pos, w.tileMaxItems)
	w.tiles[pos] = t
	return t
}

// TileAt returns the tile at pos without creating it.
func (w *World) TileAt(pos model.Position) (*model.Tile, bool) {
	t, ok := w.tiles[pos]
	return t, ok
}

// TileCount returns the number of materialised tiles.
func (w *World) TileCount() int {
	return len(w.tiles)
}

// DirtyTiles returns the tiles changed since their last ClearDirty.
func (w *World) DirtyTiles() []*model.Tile {
	var out []*model.Tile
	for _, t := range w.tiles {
		if t.Dirty() {
			out = append(out, t)
		}
	}
	return out
}

// Release queues one reference of item for reclamation at Drain.
func (w *World) Release(item *model.Item) {
	if item == nil {
		return
	}
	w.pending = append(w.pending, item)
}

// Pending returns the number of queued releases.
func (w *World) Pending() int {
	return len(w.pending)
}

// BeginIteration marks the start of a holder walk. While any walk is active,
// Drain keeps the queue intact.
func (w *World) BeginIteration() {
	w.iterating++
}

// EndIteration marks the end of a holder walk started by BeginIteration.
func (w *World) EndIteration() {
	if w.iterating > 0 {
		w.iterating--
	}
}

// Iterating reports whether a holder walk is active.
func (w *World) Iterating() bool {
	return w.iterating > 0
}

// Drain drops the queued references and frees every item whose count
// reaches zero. Container children are released together with their
// container. Returns the number of freed items, 0 while iterating.
func (w *World) Drain() int {
	if w.iterating > 0 {
		return 0
	}

	freed := 0
	for len(w.pending) > 0 {
		batch := w.pending
		w.pending = nil
		for _, item := range batch {
			if item.IsFreed() {
				w.log.Warn("release of freed item", "item", item.ID(), "type", item.TypeID())
				continue
			}
			if item.Unuse() > 0 {
				continue
			}
			freed += w.free(item)
		}
	}
	return freed
}

func (w *World) free(item *model.Item) int {
	n := 1
	if c := item.Container(); c != nil {
		for _, child := range c.Items() {
			if child.Unuse() <= 0 {
				n += w.free(child)
			}
		}
	}
	w.registry.Free(item.Handle())
	item.MarkFreed()
	return n
}

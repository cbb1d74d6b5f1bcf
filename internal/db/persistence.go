package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/udisondev/worldobj/internal/engine"
	"github.com/udisondev/worldobj/internal/model"
	"github.com/udisondev/worldobj/internal/world"
)

const tileKeyPrefix = "tile:"

// WorldPersistenceService сохраняет и загружает содержимое тайлов карты,
// инвентарей и хранилищ.
type WorldPersistenceService struct {
	items *ItemRepository
}

// NewWorldPersistenceService создаёт новый сервис.
func NewWorldPersistenceService(items *ItemRepository) *WorldPersistenceService {
	return &WorldPersistenceService{items: items}
}

// CollectDirtyTiles flattens every changed tile and clears its dirty flag.
// Must run on the world goroutine; the result may be saved from any goroutine.
func CollectDirtyTiles(w *world.World) map[string][]Row {
	dirty := w.DirtyTiles()
	if len(dirty) == 0 {
		return nil
	}
	out := make(map[string][]Row, len(dirty))
	for _, t := range dirty {
		out[TileKey(t.Position())] = Flatten(t)
		t.ClearDirty()
	}
	return out
}

// SaveTiles writes the collected tiles in a single transaction.
// Either every tile is saved or none.
func (s *WorldPersistenceService) SaveTiles(ctx context.Context, tiles map[string][]Row) error {
	if len(tiles) == 0 {
		return nil
	}
	if err := s.items.SaveAll(ctx, tiles); err != nil {
		return fmt.Errorf("saving %d tiles: %w", len(tiles), err)
	}

	items := 0
	for _, rows := range tiles {
		items += len(rows)
	}
	slog.Info("tiles saved", "tiles", len(tiles), "items", items)
	return nil
}

// LoadTiles restores every stored tile into the world of e.
// Must run before the world goroutine starts or on it.
func (s *WorldPersistenceService) LoadTiles(ctx context.Context, e *engine.Engine) (int, error) {
	keys, err := s.items.Keys(ctx, tileKeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("listing stored tiles: %w", err)
	}

	total := 0
	for _, key := range keys {
		pos, err := ParseTileKey(key)
		if err != nil {
			slog.Warn("skipping stored tile", "key", key, "error", err)
			continue
		}
		rows, err := s.items.Load(ctx, key)
		if err != nil {
			return total, fmt.Errorf("loading tile %s: %w", key, err)
		}
		tile := e.World().Tile(pos)
		total += Restore(e, tile, rows)
		tile.ClearDirty()
	}

	slog.Info("tiles loaded", "tiles", len(keys), "items", total)
	return total, nil
}

// SaveHolder replaces the stored contents of one inventory or vault.
// rows come from Flatten on the world goroutine.
func (s *WorldPersistenceService) SaveHolder(ctx context.Context, key string, rows []Row) error {
	if err := s.items.Save(ctx, key, rows); err != nil {
		return fmt.Errorf("saving holder %s: %w", key, err)
	}
	slog.Debug("holder saved", "key", key, "items", len(rows))
	return nil
}

// LoadHolder restores the stored contents of key into h and returns the
// number of items recreated. Must run on the world goroutine.
func (s *WorldPersistenceService) LoadHolder(ctx context.Context, e *engine.Engine, key string, h model.Holder) (int, error) {
	rows, err := s.items.Load(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("loading holder %s: %w", key, err)
	}
	return Restore(e, h, rows), nil
}

// ParseTileKey is the inverse of TileKey.
func ParseTileKey(key string) (model.Position, error) {
	if !strings.HasPrefix(key, tileKeyPrefix) {
		return model.Position{}, fmt.Errorf("not a tile key: %q", key)
	}
	var x, y, z uint32
	if _, err := fmt.Sscanf(key, "tile:%d:%d:%d", &x, &y, &z); err != nil {
		return model.Position{}, fmt.Errorf("parsing tile key %q: %w", key, err)
	}
	if x > 0xFFFF || y > 0xFFFF || z >= model.MaxLayers {
		return model.Position{}, fmt.Errorf("tile key %q out of range", key)
	}
	return model.NewPosition(uint16(x), uint16(y), uint8(z)), nil
}

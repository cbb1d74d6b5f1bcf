package world

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/worldobj/internal/data"
	"github.com/udisondev/worldobj/internal/model"
)

var catalog = data.TestCatalog()

func newItem(t *testing.T, id int32, count int32) *model.Item {
	t.Helper()
	typ, ok := catalog.Lookup(id)
	require.True(t, ok)
	item, err := model.NewItem(typ, count)
	require.NoError(t, err)
	return item
}

func TestRegistry_RegisterResolve(t *testing.T) {
	r := NewRegistry()
	a := newItem(t, data.TestSword, 1)
	b := newItem(t, data.TestShield, 1)

	ha := r.Register(a)
	hb := r.Register(b)
	assert.Equal(t, uint32(FirstItemID), ha.ID)
	assert.Equal(t, uint32(FirstItemID+1), hb.ID)
	assert.Equal(t, ha, a.Handle())
	assert.Equal(t, 2, r.Len())

	got, ok := r.Resolve(ha)
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = r.Resolve(model.Handle{})
	assert.False(t, ok, "zero handle never resolves")
	_, ok = r.Resolve(model.Handle{ID: FirstItemID + 99, Gen: 1})
	assert.False(t, ok)
}

func TestRegistry_StaleHandle(t *testing.T) {
	r := NewRegistry()
	a := newItem(t, data.TestSword, 1)
	ha := r.Register(a)

	require.True(t, r.Free(ha))
	assert.False(t, r.Free(ha), "double free is refused")
	_, ok := r.Resolve(ha)
	assert.False(t, ok)

	b := newItem(t, data.TestShield, 1)
	hb := r.Register(b)
	assert.Equal(t, ha.ID, hb.ID, "IDs are recycled")
	assert.NotEqual(t, ha.Gen, hb.Gen)

	_, ok = r.Resolve(ha)
	assert.False(t, ok, "old generation stays stale after reuse")
	got, ok := r.Resolve(hb)
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestWorld_Tile(t *testing.T) {
	w := New(5)
	pos := model.NewPosition(100, 200, 7)

	_, ok := w.TileAt(pos)
	assert.False(t, ok)

	tile := w.Tile(pos)
	assert.Same(t, tile, w.Tile(pos))
	assert.Equal(t, pos, tile.Position())
	assert.Equal(t, 1, w.TileCount())

	assert.Empty(t, w.DirtyTiles())
	tile.PostAdd(nil, nil, 0)
	assert.Equal(t, []*model.Tile{tile}, w.DirtyTiles())
}

func TestWorld_Drain(t *testing.T) {
	w := New(0)
	item := newItem(t, data.TestSword, 1)
	h := w.Registry().Register(item)

	item.Use() // held by someone else
	w.Release(item)
	assert.Equal(t, 0, w.Drain())
	assert.False(t, item.IsFreed())

	w.Release(item)
	assert.Equal(t, 1, w.Drain())
	assert.True(t, item.IsFreed())
	_, ok := w.Registry().Resolve(h)
	assert.False(t, ok)
	assert.Zero(t, w.Pending())
}

func TestWorld_DrainRefusedWhileIterating(t *testing.T) {
	w := New(0)
	item := newItem(t, data.TestSword, 1)
	w.Registry().Register(item)
	w.Release(item)

	w.BeginIteration()
	w.BeginIteration()
	assert.Equal(t, 0, w.Drain())
	assert.Equal(t, 1, w.Pending())

	w.EndIteration()
	assert.True(t, w.Iterating())
	assert.Equal(t, 0, w.Drain())

	w.EndIteration()
	assert.Equal(t, 1, w.Drain())
	assert.True(t, item.IsFreed())
}

func TestWorld_DrainFreesContainerChildren(t *testing.T) {
	w := New(0)
	bp := newItem(t, data.TestBackpack, 1)
	coins := newItem(t, data.TestGoldCoin, 10)
	torch := newItem(t, data.TestTorchLit, 1)
	w.Registry().Register(bp)
	w.Registry().Register(coins)
	w.Registry().Register(torch)

	bp.Container().CommitAdd(model.IndexAnywhere, coins)
	bp.Container().CommitAdd(model.IndexAnywhere, torch)
	torch.Use() // still enrolled elsewhere

	w.Release(bp)
	assert.Equal(t, 2, w.Drain())
	assert.True(t, bp.IsFreed())
	assert.True(t, coins.IsFreed())
	assert.False(t, torch.IsFreed())
	assert.Equal(t, 1, w.Registry().Len())

	w.Release(torch)
	assert.Equal(t, 1, w.Drain())
	assert.Equal(t, 0, w.Registry().Len())
}

func TestWorld_ReleaseFreedItemIsIgnored(t *testing.T) {
	var buf bytes.Buffer
	w := New(0, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	item := newItem(t, data.TestSword, 1)
	w.Registry().Register(item)
	w.Release(item)
	require.Equal(t, 1, w.Drain())
	assert.Empty(t, buf.String())

	w.Release(item)
	assert.Equal(t, 0, w.Drain())
	assert.Equal(t, int32(0), item.Refs())
	assert.Contains(t, buf.String(), "release of freed item")
}

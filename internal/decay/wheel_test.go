package decay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/worldobj/internal/data"
	"github.com/udisondev/worldobj/internal/model"
)

var catalog = data.TestCatalog()

// recorder counts terminal actions and released references.
type recorder struct {
	fired    map[*model.Item][]int
	released map[*model.Item]int
	tick     int
	onDecay  func(item *model.Item)
}

func newRecorder() *recorder {
	return &recorder{
		fired:    make(map[*model.Item][]int),
		released: make(map[*model.Item]int),
	}
}

func (r *recorder) DecayItem(item *model.Item) {
	r.fired[item] = append(r.fired[item], r.tick)
	if r.onDecay != nil {
		r.onDecay(item)
	}
}

func (r *recorder) Release(item *model.Item) {
	r.released[item]++
	item.Unuse()
}

func (r *recorder) run(w *Wheel, ticks int) {
	for range ticks {
		r.tick++
		w.Tick()
	}
}

// placed returns an item committed to a tile so it counts as part of the world.
func placed(t *testing.T, id int32) *model.Item {
	t.Helper()
	typ, ok := catalog.Lookup(id)
	require.True(t, ok)
	item, err := model.NewItem(typ, 1)
	require.NoError(t, err)
	model.NewTile(model.NewPosition(1, 1, 7), 0).CommitAdd(model.IndexAnywhere, item)
	return item
}

func TestWheel_FiresOnTime(t *testing.T) {
	tests := []struct {
		name   string
		typeID int32
		want   int
	}{
		{"3s torch", data.TestTorchLit, 3},
		{"5s field", data.TestFireField, 5},
		{"20s rotten corpse spans a rotation", data.TestCorpseRotten, 20},
		{"40s corpse spans two rotations", data.TestCorpse, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder()
			w := NewWheel(time.Second, 16, rec, rec)
			item := placed(t, tt.typeID)

			w.Start(item)
			assert.Equal(t, model.DecayScheduled, item.DecayState())
			assert.Equal(t, int32(2), item.Refs())
			assert.True(t, w.Scheduled(item))

			rec.run(w, tt.want+2)
			require.Len(t, rec.fired[item], 1)
			assert.InDelta(t, tt.want, rec.fired[item][0], 1)
			assert.Equal(t, model.DecayProcessed, item.DecayState())
			assert.Equal(t, 1, rec.released[item])
			assert.Equal(t, int32(1), item.Refs())
			assert.Zero(t, w.Len())
		})
	}
}

func TestWheel_ChainFiresOnceEach(t *testing.T) {
	rec := newRecorder()
	w := NewWheel(time.Second, 16, rec, rec)
	burnt, ok := catalog.Lookup(data.TestTorchBurnt)
	require.True(t, ok)

	torch := placed(t, data.TestTorchLit)
	rec.onDecay = func(item *model.Item) {
		if item.TypeID() == data.TestTorchLit {
			// in-place transform, as the engine does for same-group types
			item.Parent().CommitUpdate(item, burnt, 1)
			w.Start(item)
		}
	}

	w.Start(torch)
	rec.run(w, 10)

	require.Len(t, rec.fired[torch], 2, "lit then burnt")
	assert.InDelta(t, 3, rec.fired[torch][0], 1)
	assert.InDelta(t, 5, rec.fired[torch][1], 1)
	assert.Equal(t, 2, rec.released[torch])
}

func TestWheel_EvictDropsLazily(t *testing.T) {
	rec := newRecorder()
	w := NewWheel(time.Second, 16, rec, rec)
	item := placed(t, data.TestFireField)

	w.Start(item)
	rec.run(w, 1)
	w.Evict(item)
	assert.Equal(t, model.NotDecaying, item.DecayState())
	assert.Zero(t, w.Len())
	assert.Zero(t, rec.released[item], "reference held until the bucket is visited")

	rec.run(w, 20)
	assert.Empty(t, rec.fired[item])
	assert.Equal(t, 1, rec.released[item])
	assert.Equal(t, int32(1), item.Refs())
}

func TestWheel_RestartAfterEvict(t *testing.T) {
	rec := newRecorder()
	w := NewWheel(time.Second, 16, rec, rec)
	item := placed(t, data.TestFireField)

	w.Start(item)
	rec.run(w, 1)
	w.Evict(item)
	w.Start(item)
	assert.Equal(t, int32(3), item.Refs(), "stale entry still holds its reference")

	rec.run(w, 10)
	require.Len(t, rec.fired[item], 1, "the stale entry never fires")
	assert.Equal(t, 2, rec.released[item])
	assert.Equal(t, int32(1), item.Refs())
}

func TestWheel_RemovedItemIsDropped(t *testing.T) {
	rec := newRecorder()
	w := NewWheel(time.Second, 16, rec, rec)
	item := placed(t, data.TestTorchLit)

	w.Start(item)
	item.Parent().CommitRemove(item, 1)
	require.True(t, item.IsRemoved())

	rec.run(w, 5)
	assert.Empty(t, rec.fired[item])
	assert.Equal(t, 1, rec.released[item])
	assert.Equal(t, model.NotDecaying, item.DecayState())
}

func TestWheel_StartIgnoresNonDecaying(t *testing.T) {
	rec := newRecorder()
	w := NewWheel(time.Second, 16, rec, rec)
	sword := placed(t, data.TestSword)

	w.Start(sword)
	assert.Equal(t, model.NotDecaying, sword.DecayState())
	assert.Zero(t, w.Len())
	assert.Equal(t, int32(1), sword.Refs())
}

func TestWheel_StartIgnoresDestroyed(t *testing.T) {
	rec := newRecorder()
	w := NewWheel(time.Second, 16, rec, rec)
	item := placed(t, data.TestTorchLit)
	item.MarkDestroyed()

	w.Start(item)
	assert.False(t, w.Scheduled(item))
	assert.Zero(t, w.Len())
	assert.Equal(t, model.NotDecaying, item.DecayState())
}

func TestWheel_StartTwiceKeepsPlace(t *testing.T) {
	rec := newRecorder()
	w := NewWheel(time.Second, 16, rec, rec)
	item := placed(t, data.TestTorchLit)

	w.Start(item)
	w.Start(item)
	assert.Equal(t, int32(2), item.Refs())
	assert.Equal(t, 1, w.Len())
}

func TestWheel_ExpiredRunsImmediately(t *testing.T) {
	rec := newRecorder()
	w := NewWheel(time.Second, 16, rec, rec)
	item := placed(t, data.TestTorchLit)
	item.SetDuration(0)

	w.Start(item)
	assert.Len(t, rec.fired[item], 1)
	assert.Zero(t, w.Len())
	assert.Equal(t, int32(1), item.Refs(), "no reference taken")
}

func TestWheel_Rotation(t *testing.T) {
	w := NewWheel(500*time.Millisecond, 8, newRecorder(), newRecorder())
	assert.Equal(t, 4*time.Second, w.Rotation())
	assert.Equal(t, 500*time.Millisecond, w.Interval())
}

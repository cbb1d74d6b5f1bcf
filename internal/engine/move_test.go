package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/worldobj/internal/data"
	"github.com/udisondev/worldobj/internal/model"
)

// snapshot records where every reachable item sits and how many units it holds.
type snapshot map[*model.Item]placement

type placement struct {
	parent model.Holder
	slot   int
	count  int32
}

func (f *fixture) snapshot(holders ...model.Holder) snapshot {
	s := make(snapshot)
	for _, h := range holders {
		f.e.walk(h, true, func(item *model.Item) bool {
			s[item] = placement{parent: item.Parent(), slot: item.Parent().IndexOf(item), count: item.Count()}
			return true
		})
	}
	return s
}

func TestMoveItem_MergeOverflow(t *testing.T) {
	f := newFixture(t)
	bag := f.put(t, f.tile, data.TestBag, 1)
	pile := f.put(t, bag.Container(), data.TestGoldCoin, 80)
	coins := f.put(t, f.tile, data.TestGoldCoin, 40)

	moved, out := f.e.MoveItem(f.tile, bag.Container(), model.IndexAnywhere, coins, 40, model.SystemActor)
	require.Equal(t, model.Allowed, out)

	assert.Equal(t, int32(40), moved.Count)
	assert.Same(t, coins, moved.Item, "the leftover keeps the moving pile")
	assert.Equal(t, int32(100), pile.Count())
	assert.Equal(t, int32(20), coins.Count())
	assert.Equal(t, bag.Container(), coins.Parent())
	assert.Equal(t, 2, bag.Container().Len())
	assert.Equal(t, []*model.Item{bag}, f.tile.Items())
	assert.Equal(t, int64(120), f.e.Money(f.tile))
	assert.False(t, coins.IsDestroyed())
}

func TestMoveItem_PartialStack(t *testing.T) {
	f := newFixture(t)
	bag := f.put(t, f.tile, data.TestBag, 1)
	coins := f.put(t, f.tile, data.TestGoldCoin, 50)

	moved, out := f.e.MoveItem(f.tile, bag.Container(), model.IndexAnywhere, coins, 20, model.SystemActor)
	require.Equal(t, model.Allowed, out)
	require.NotNil(t, moved.Item)

	assert.NotSame(t, coins, moved.Item)
	assert.NotEqual(t, coins.ID(), moved.Item.ID())
	assert.Equal(t, int32(30), coins.Count())
	assert.Equal(t, model.Holder(f.tile), coins.Parent())
	assert.Equal(t, int32(20), moved.Item.Count())
	assert.Equal(t, bag.Container(), moved.Item.Parent())
	assert.Equal(t, int64(50), f.e.Money(f.tile))
}

func TestMoveItem_PartialByRoom(t *testing.T) {
	f := newFixture(t)
	bag := f.put(t, f.tile, data.TestBag, 1)
	c := bag.Container()
	for range c.Capacity() - 1 {
		f.put(t, c, data.TestSword, 1)
	}
	pile := f.put(t, c, data.TestGoldCoin, 90)
	require.True(t, c.IsFull())
	coins := f.put(t, f.tile, data.TestGoldCoin, 30)

	moved, out := f.e.MoveItem(f.tile, c, model.IndexAnywhere, coins, 30, model.SystemActor)
	assert.Equal(t, model.ContainerNotEnoughRoom, out)
	assert.Equal(t, int32(10), moved.Count)
	assert.Same(t, pile, moved.Item)
	assert.Equal(t, int32(100), pile.Count())
	assert.Equal(t, int32(20), coins.Count())
	assert.Equal(t, model.Holder(f.tile), coins.Parent())
}

func TestMoveItem_SelfMove(t *testing.T) {
	f := newFixture(t)
	bag := f.put(t, f.tile, data.TestBag, 1)
	sword := f.put(t, bag.Container(), data.TestSword, 1)
	f.put(t, bag.Container(), data.TestShield, 1)
	before := f.snapshot(f.tile)

	moved, out := f.e.MoveItem(bag.Container(), bag.Container(), bag.Container().IndexOf(sword), sword, 1, model.SystemActor)
	require.Equal(t, model.Allowed, out)
	assert.Same(t, sword, moved.Item)
	assert.Zero(t, moved.Count)
	assert.Equal(t, before, f.snapshot(f.tile))
}

func TestMoveItem_ExchangeRoundTrip(t *testing.T) {
	f := newFixture(t)
	inv := model.NewInventory(7, 400)
	sword := f.putAt(t, inv, model.SlotRight, data.TestSword, 1)
	shield := f.put(t, f.tile, data.TestShield, 1)

	moved, out := f.e.MoveItem(f.tile, inv, model.SlotRight, shield, 1, 7)
	require.Equal(t, model.Allowed, out)
	assert.Same(t, sword, moved.Exchanged)
	assert.Same(t, shield, inv.ItemAt(model.SlotRight))
	assert.Equal(t, model.Holder(f.tile), sword.Parent())

	moved, out = f.e.MoveItem(f.tile, inv, model.SlotRight, sword, 1, 7)
	require.Equal(t, model.Allowed, out)
	assert.Same(t, shield, moved.Exchanged)
	assert.Same(t, sword, inv.ItemAt(model.SlotRight))
	assert.Equal(t, []*model.Item{shield}, f.tile.Items())
	assert.False(t, sword.IsDestroyed())
	assert.False(t, shield.IsDestroyed())
}

func TestMoveItem_ExchangeAtWeightBoundary(t *testing.T) {
	f := newFixture(t)
	inv := model.NewInventory(7, 60)
	shield := f.putAt(t, inv, model.SlotLeft, data.TestShield, 1)
	sword := f.put(t, f.tile, data.TestSword, 1)

	// The shield leaves before the sword is weighed.
	moved, out := f.e.MoveItem(f.tile, inv, model.SlotLeft, sword, 1, 7)
	require.Equal(t, model.Allowed, out)
	assert.Same(t, shield, moved.Exchanged)
	assert.Same(t, sword, inv.ItemAt(model.SlotLeft))
	assert.Equal(t, int32(35), inv.Weight())
	assert.Equal(t, []*model.Item{shield}, f.tile.Items())

	moved, out = f.e.MoveItem(f.tile, inv, model.SlotLeft, shield, 1, 7)
	require.Equal(t, model.Allowed, out)
	assert.Same(t, sword, moved.Exchanged)
	assert.Same(t, shield, inv.ItemAt(model.SlotLeft))
	assert.Equal(t, int32(50), inv.Weight())
	assert.Equal(t, []*model.Item{sword}, f.tile.Items())
}

func TestMoveItem_ExchangeOverWeight(t *testing.T) {
	f := newFixture(t)
	inv := model.NewInventory(7, 40)
	f.putAt(t, inv, model.SlotLeft, data.TestSword, 1)
	shield := f.put(t, f.tile, data.TestShield, 1)
	before := f.snapshot(f.tile, inv)

	moved, out := f.e.MoveItem(f.tile, inv, model.SlotLeft, shield, 1, 7)
	assert.Equal(t, model.NotEnoughCapacity, out)
	assert.Nil(t, moved.Exchanged)
	assert.Equal(t, int32(35), inv.Weight())
	assert.Equal(t, before, f.snapshot(f.tile, inv))
}

func TestMoveItem_ExchangeBetweenFullInventories(t *testing.T) {
	f := newFixture(t)
	a := model.NewInventory(7, 50)
	b := model.NewInventory(7, 50)
	shield := f.putAt(t, a, model.SlotLeft, data.TestShield, 1)
	sword := f.putAt(t, b, model.SlotLeft, data.TestSword, 1)

	moved, out := f.e.MoveItem(a, b, model.SlotLeft, shield, 1, 7)
	require.Equal(t, model.Allowed, out)
	assert.Same(t, sword, moved.Exchanged)
	assert.Same(t, sword, a.ItemAt(model.SlotLeft))
	assert.Same(t, shield, b.ItemAt(model.SlotLeft))
	assert.Equal(t, int32(35), a.Weight())
	assert.Equal(t, int32(50), b.Weight())
}

func TestMoveItem_ExchangeRefused(t *testing.T) {
	f := newFixture(t)
	inv := model.NewInventory(7, 400)
	f.putAt(t, inv, model.SlotRight, data.TestSword, 1)
	coins := f.put(t, f.tile, data.TestGoldCoin, 50)
	before := f.snapshot(f.tile, inv)

	// Only a whole pile may displace the occupant.
	moved, out := f.e.MoveItem(f.tile, inv, model.SlotRight, coins, 20, 7)
	assert.Equal(t, model.NotEnoughRoom, out)
	assert.Zero(t, moved.Count)
	assert.Equal(t, before, f.snapshot(f.tile, inv))
}

func TestMoveItem_Refusals(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, f *fixture) (from, to model.Holder, slot int, item *model.Item, count int32, actor model.ActorID)
		want  model.Outcome
	}{
		{
			name: "wrong slot kind",
			setup: func(t *testing.T, f *fixture) (model.Holder, model.Holder, int, *model.Item, int32, model.ActorID) {
				inv := model.NewInventory(7, 0)
				sword := f.put(t, f.tile, data.TestSword, 1)
				return f.tile, inv, model.SlotHead, sword, 1, 7
			},
			want: model.NotPossible,
		},
		{
			name: "full container",
			setup: func(t *testing.T, f *fixture) (model.Holder, model.Holder, int, *model.Item, int32, model.ActorID) {
				bag := f.put(t, f.tile, data.TestBag, 1)
				for range bag.Container().Capacity() {
					f.put(t, bag.Container(), data.TestSword, 1)
				}
				shield := f.put(t, f.tile, data.TestShield, 1)
				return f.tile, bag.Container(), model.IndexAnywhere, shield, 1, model.SystemActor
			},
			want: model.ContainerNotEnoughRoom,
		},
		{
			name: "container into itself",
			setup: func(t *testing.T, f *fixture) (model.Holder, model.Holder, int, *model.Item, int32, model.ActorID) {
				bp := f.put(t, f.tile, data.TestBackpack, 1)
				bag := f.put(t, bp.Container(), data.TestBag, 1)
				return f.tile, bag.Container(), model.IndexAnywhere, bp, 1, model.SystemActor
			},
			want: model.NotPossible,
		},
		{
			name: "fixed item",
			setup: func(t *testing.T, f *fixture) (model.Holder, model.Holder, int, *model.Item, int32, model.ActorID) {
				bag := f.put(t, f.tile, data.TestBag, 1)
				field := f.put(t, f.tile, data.TestFireField, 1)
				return f.tile, bag.Container(), model.IndexAnywhere, field, 1, model.SystemActor
			},
			want: model.NotMoveable,
		},
		{
			name: "too heavy",
			setup: func(t *testing.T, f *fixture) (model.Holder, model.Holder, int, *model.Item, int32, model.ActorID) {
				inv := model.NewInventory(7, 100)
				f.putAt(t, inv, model.SlotBackpack, data.TestBackpack, 1)
				coins := f.put(t, f.tile, data.TestGoldCoin, 100)
				return f.tile, inv, model.IndexAnywhere, coins, 100, 7
			},
			want: model.NotEnoughCapacity,
		},
		{
			name: "foreign vault",
			setup: func(t *testing.T, f *fixture) (model.Holder, model.Holder, int, *model.Item, int32, model.ActorID) {
				v := model.NewVault(1, 7, 0)
				sword := f.put(t, f.tile, data.TestSword, 1)
				return f.tile, v, model.IndexAnywhere, sword, 1, 8
			},
			want: model.NotPossible,
		},
		{
			name: "count out of range",
			setup: func(t *testing.T, f *fixture) (model.Holder, model.Holder, int, *model.Item, int32, model.ActorID) {
				bag := f.put(t, f.tile, data.TestBag, 1)
				coins := f.put(t, f.tile, data.TestGoldCoin, 10)
				return f.tile, bag.Container(), model.IndexAnywhere, coins, 11, model.SystemActor
			},
			want: model.NotPossible,
		},
		{
			name: "item not in source",
			setup: func(t *testing.T, f *fixture) (model.Holder, model.Holder, int, *model.Item, int32, model.ActorID) {
				bag := f.put(t, f.tile, data.TestBag, 1)
				sword := f.put(t, f.tile, data.TestSword, 1)
				return bag.Container(), f.tile, model.IndexAnywhere, sword, 1, model.SystemActor
			},
			want: model.NotPossible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			from, to, slot, item, count, actor := tt.setup(t, f)
			before := f.snapshot(f.tile, from, to)

			moved, out := f.e.MoveItem(from, to, slot, item, count, actor)
			assert.Equal(t, tt.want, out)
			assert.Zero(t, moved.Count)
			assert.Equal(t, before, f.snapshot(f.tile, from, to), "a refused move changes nothing")
		})
	}
}

func TestMoveItem_WeightBoundary(t *testing.T) {
	f := newFixture(t)
	inv := model.NewInventory(7, 100)
	bp := f.putAt(t, inv, model.SlotBackpack, data.TestBackpack, 1)
	coins := f.put(t, f.tile, data.TestGoldCoin, 100)

	moved, out := f.e.MoveItem(f.tile, inv, model.IndexAnywhere, coins, 82, 7)
	require.Equal(t, model.Allowed, out)
	assert.Equal(t, int32(82), moved.Count)
	assert.Equal(t, bp.Container(), moved.Item.Parent())
	assert.Equal(t, int32(100), inv.Weight())
	assert.Equal(t, int32(18), coins.Count())

	// Moving within the inventory does not count its weight twice.
	moved, out = f.e.MoveItem(bp.Container(), inv, model.SlotAmmo, moved.Item, 82, 7)
	require.Equal(t, model.Allowed, out)
	assert.Same(t, moved.Item, inv.ItemAt(model.SlotAmmo))
	assert.Equal(t, int32(100), inv.Weight())
}

func TestMoveItem_VaultOwner(t *testing.T) {
	f := newFixture(t)
	v := model.NewVault(1, 7, 2)
	sword := f.put(t, f.tile, data.TestSword, 1)
	shield := f.put(t, f.tile, data.TestShield, 1)
	bag := f.put(t, f.tile, data.TestBag, 1)

	_, out := f.e.MoveItem(f.tile, v, model.IndexAnywhere, sword, 1, 7)
	require.Equal(t, model.Allowed, out)
	_, out = f.e.MoveItem(f.tile, v, model.IndexAnywhere, shield, 1, 7)
	require.Equal(t, model.Allowed, out)

	_, out = f.e.MoveItem(f.tile, v, model.IndexAnywhere, bag, 1, 7)
	assert.Equal(t, model.ContainerNotEnoughRoom, out)

	_, out = f.e.MoveItem(v, f.tile, model.IndexAnywhere, sword, 1, 8)
	assert.Equal(t, model.NotPossible, out)
	_, out = f.e.MoveItem(v, f.tile, model.IndexAnywhere, sword, 1, 7)
	assert.Equal(t, model.Allowed, out)
}

func TestMoveItem_SplitInsideFullVault(t *testing.T) {
	f := newFixture(t)
	v := model.NewVault(1, 7, 1)
	gold := f.put(t, v, data.TestGoldCoin, 50)
	before := f.snapshot(v)

	// A split forms a new pile even though the coins never leave the vault.
	moved, out := f.e.MoveItem(v, v, model.IndexAnywhere, gold, 10, 7)
	assert.Equal(t, model.ContainerNotEnoughRoom, out)
	assert.Zero(t, moved.Count)
	assert.Equal(t, 1, v.DeepCount())
	assert.Equal(t, before, f.snapshot(v))
}

func TestMoveItem_SplitInsideContainerInFullVault(t *testing.T) {
	f := newFixture(t)
	v := model.NewVault(1, 7, 2)
	bag := f.put(t, v, data.TestBag, 1)
	gold := f.put(t, bag.Container(), data.TestGoldCoin, 50)
	require.Equal(t, 2, v.DeepCount())

	moved, out := f.e.MoveItem(bag.Container(), bag.Container(), model.IndexAnywhere, gold, 10, 7)
	assert.Equal(t, model.ContainerNotEnoughRoom, out)
	assert.Zero(t, moved.Count)
	assert.Equal(t, 2, v.DeepCount())

	_, out = f.e.MoveItem(bag.Container(), v, model.IndexAnywhere, gold, 10, 7)
	assert.Equal(t, model.ContainerNotEnoughRoom, out)

	// The whole pile relocates without adding an item.
	moved, out = f.e.MoveItem(bag.Container(), v, model.IndexAnywhere, gold, 50, 7)
	require.Equal(t, model.Allowed, out)
	assert.Same(t, gold, moved.Item)
	assert.Equal(t, model.Holder(v), gold.Parent())
	assert.Equal(t, 2, v.DeepCount())
}

func TestMoveItem_RedirectsIntoContainerSlot(t *testing.T) {
	f := newFixture(t)
	inv := model.NewInventory(7, 0)
	bp := f.putAt(t, inv, model.SlotBackpack, data.TestBackpack, 1)
	sword := f.put(t, f.tile, data.TestSword, 1)

	_, out := f.e.MoveItem(f.tile, inv, model.SlotBackpack, sword, 1, 7)
	require.Equal(t, model.Allowed, out)
	assert.Equal(t, bp.Container(), sword.Parent())
	assert.Same(t, bp, inv.ItemAt(model.SlotBackpack))
}

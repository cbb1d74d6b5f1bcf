package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/worldobj/internal/data"
	"github.com/udisondev/worldobj/internal/model"
)

func TestAddItem_Remainder(t *testing.T) {
	f := newFixture(t)
	bag := f.put(t, f.tile, data.TestBag, 1)
	c := bag.Container()
	for range c.Capacity() - 1 {
		f.put(t, c, data.TestSword, 1)
	}
	pile := f.put(t, c, data.TestGoldCoin, 90)
	coins := f.create(t, data.TestGoldCoin, 30)

	rem, out := f.e.AddItem(c, coins, model.IndexAnywhere, 0, false)
	assert.Equal(t, model.ContainerNotEnoughRoom, out)
	require.NotNil(t, rem)
	assert.Equal(t, int32(20), rem.Count())
	assert.Nil(t, rem.Parent())
	assert.Equal(t, int32(100), pile.Count())
	assert.True(t, coins.IsDestroyed(), "fully merged pile is destroyed")
}

func TestAddItem_TestOnly(t *testing.T) {
	f := newFixture(t)
	sword := f.create(t, data.TestSword, 1)

	rem, out := f.e.AddItem(f.tile, sword, model.IndexAnywhere, 0, true)
	assert.Equal(t, model.Allowed, out)
	assert.Nil(t, rem)
	assert.Nil(t, sword.Parent())
	assert.Zero(t, f.tile.Len())
}

func TestAddItem_Refusals(t *testing.T) {
	f := newFixture(t)
	placed := f.put(t, f.tile, data.TestSword, 1)

	_, out := f.e.AddItem(f.tile, placed, model.IndexAnywhere, 0, false)
	assert.Equal(t, model.NotPossible, out, "item already has a holder")

	_, out = f.e.AddItem(nil, f.create(t, data.TestSword, 1), model.IndexAnywhere, 0, false)
	assert.Equal(t, model.NotPossible, out)

	f.put(t, f.tile, data.TestStone, 1)
	_, out = f.e.AddItem(f.tile, f.create(t, data.TestShield, 1), model.IndexAnywhere, 0, false)
	assert.Equal(t, model.NotEnoughRoom, out, "tile is blocked")

	_, out = f.e.AddItem(f.tile, f.create(t, data.TestShield, 1), model.IndexAnywhere, model.FlagIgnoreBlocking, false)
	assert.Equal(t, model.Allowed, out)
}

func TestAddItem_MergesOnTile(t *testing.T) {
	f := newFixture(t)
	older := f.put(t, f.tile, data.TestGoldCoin, 100)
	newer := f.put(t, f.tile, data.TestGoldCoin, 10)
	coins := f.create(t, data.TestGoldCoin, 95)

	rem, out := f.e.AddItem(f.tile, coins, model.IndexAnywhere, 0, false)
	require.Equal(t, model.Allowed, out)
	assert.Nil(t, rem)

	assert.Equal(t, int32(100), older.Count())
	assert.Equal(t, int32(100), newer.Count())
	assert.Equal(t, int32(5), coins.Count())
	assert.Equal(t, model.Holder(f.tile), coins.Parent())
	assert.Equal(t, int64(205), f.e.Money(f.tile))
}

func TestPlaceInInventory_DropsOverflow(t *testing.T) {
	f := newFixture(t)
	inv := model.NewInventory(7, 10)
	coins := f.create(t, data.TestGoldCoin, 50)

	out := f.e.PlaceInInventory(inv, f.tile, coins, model.IndexAnywhere)
	assert.Equal(t, model.NotEnoughCapacity, out)
	assert.Equal(t, model.Holder(f.tile), coins.Parent())
	assert.Zero(t, inv.Weight())

	sword := f.create(t, data.TestSword, 1)
	out = f.e.PlaceInInventory(model.NewInventory(8, 0), f.tile, sword, model.SlotRight)
	assert.Equal(t, model.Allowed, out)
	assert.NotEqual(t, model.Holder(f.tile), sword.Parent())
}

func TestRemoveItem(t *testing.T) {
	t.Run("part of a pile", func(t *testing.T) {
		f := newFixture(t)
		coins := f.put(t, f.tile, data.TestGoldCoin, 50)

		require.Equal(t, model.Allowed, f.e.RemoveItem(coins, 20, false))
		assert.Equal(t, int32(30), coins.Count())
		assert.False(t, coins.IsDestroyed())
	})

	t.Run("whole item", func(t *testing.T) {
		f := newFixture(t)
		coins := f.put(t, f.tile, data.TestGoldCoin, 50)

		require.Equal(t, model.Allowed, f.e.RemoveItem(coins, KeepCount, false))
		assert.True(t, coins.IsDestroyed())
		assert.Zero(t, f.tile.Len())
		assert.Equal(t, 1, f.w.Drain())
	})

	t.Run("test only", func(t *testing.T) {
		f := newFixture(t)
		coins := f.put(t, f.tile, data.TestGoldCoin, 50)

		require.Equal(t, model.Allowed, f.e.RemoveItem(coins, 50, true))
		assert.Equal(t, int32(50), coins.Count())
		assert.Equal(t, model.Holder(f.tile), coins.Parent())
	})

	t.Run("fixed item", func(t *testing.T) {
		f := newFixture(t)
		field := f.put(t, f.tile, data.TestFireField, 1)

		require.Equal(t, model.Allowed, f.e.RemoveItem(field, KeepCount, false))
		assert.False(t, f.e.Wheel().Scheduled(field))
	})

	t.Run("bound item", func(t *testing.T) {
		f := newFixture(t)
		sword := f.put(t, f.tile, data.TestSword, 1)
		sword.SetBound(true)

		assert.Equal(t, model.NotPossible, f.e.RemoveItem(sword, KeepCount, false))
		assert.Equal(t, model.Holder(f.tile), sword.Parent())
	})

	t.Run("free-floating", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, model.NotPossible, f.e.RemoveItem(f.create(t, data.TestSword, 1), KeepCount, false))
	})
}

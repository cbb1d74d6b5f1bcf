package engine

import (
	"cmp"
	"slices"

	"github.com/udisondev/worldobj/internal/model"
)

// Money returns the total coin worth in h and its containers.
func (e *Engine) Money(h model.Holder) int64 {
	var total int64
	e.walk(h, true, func(item *model.Item) bool {
		total += worthOf(item)
		return true
	})
	return total
}

// RemoveMoney takes amount worth of coins from h. Piles are spent from the
// smallest total worth up; change from the last pile is added back to h.
// Nothing is removed when h holds less than amount.
func (e *Engine) RemoveMoney(h model.Holder, amount int64, flags model.Flags) bool {
	if h == nil {
		return false
	}
	if amount <= 0 {
		return true
	}

	var (
		coins []*model.Item
		total int64
	)
	e.walk(h, true, func(item *model.Item) bool {
		if w := worthOf(item); w > 0 && e.RemoveItem(item, KeepCount, true).OK() {
			coins = append(coins, item)
			total += w
		}
		return true
	})
	if total < amount {
		return false
	}

	slices.SortStableFunc(coins, func(a, b *model.Item) int {
		return cmp.Compare(worthOf(a), worthOf(b))
	})
	for _, item := range coins {
		if amount <= 0 {
			break
		}
		worth := worthOf(item)
		if out := e.RemoveItem(item, KeepCount, false); !out.OK() {
			e.log.Warn("removing coins", "item", item.ID(), "outcome", out)
			return false
		}
		if worth > amount {
			e.AddMoney(h, worth-amount, flags)
			amount = 0
			break
		}
		amount -= worth
	}
	return amount == 0
}

// AddMoney adds amount worth of coins to h using the largest coins first.
// Piles that do not fit are dropped on the tile under h. A remainder
// smaller than the smallest coin is lost.
func (e *Engine) AddMoney(h model.Holder, amount int64, flags model.Flags) {
	if h == nil || amount <= 0 {
		return
	}
	for _, coin := range e.catalog.Coins() {
		worth := int64(coin.Worth)
		units := amount / worth
		amount -= units * worth
		for units > 0 {
			n := min(units, int64(coin.MaxStack()))
			units -= n
			item, err := e.CreateItem(coin.ID, int32(n))
			if err != nil {
				e.log.Error("creating coins", "type", coin.ID, "count", n, "error", err)
				continue
			}
			e.addOrDrop(h, item, flags)
		}
	}
	if amount > 0 {
		e.log.Debug("money remainder below smallest coin", "amount", amount)
	}
}

// addOrDrop adds item to h and drops whatever does not fit on the tile
// under h.
func (e *Engine) addOrDrop(h model.Holder, item *model.Item, flags model.Flags) {
	remainder, out := e.AddItem(h, item, model.IndexAnywhere, flags, false)
	if remainder != nil {
		e.drop(e.tileFor(h), remainder)
	}
	if !out.OK() && item.Parent() == nil && !item.IsDestroyed() {
		e.drop(e.tileFor(h), item)
	}
}

func worthOf(item *model.Item) int64 {
	if item.Container() != nil {
		return 0
	}
	return int64(item.Type().Worth) * int64(item.Count())
}

package db

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/udisondev/worldobj/internal/engine"
	"github.com/udisondev/worldobj/internal/model"
)

// Row is one persisted item. Items are numbered depth-first from 1;
// ParentSeq 0 means the item sits directly in the saved holder.
type Row struct {
	Seq        int32
	ParentSeq  int32
	Slot       int32
	TypeID     int32
	Count      int32
	Duration   time.Duration // remaining decay time
	OwnerTag   uint32
	UniqueID   uint32
	Text       string
	Attributes map[string]string
	Bound      bool
}

// TileKey returns the holder key of a map tile.
func TileKey(pos model.Position) string {
	return fmt.Sprintf("tile:%d:%d:%d", pos.X, pos.Y, pos.Z)
}

// InventoryKey returns the holder key of a creature inventory.
func InventoryKey(owner model.ActorID) string {
	return fmt.Sprintf("inventory:%d", owner)
}

// VaultKey returns the holder key of a storage vault.
func VaultKey(id uint32) string {
	return fmt.Sprintf("vault:%d", id)
}

// Flatten lists the contents of h depth-first. Must run on the world goroutine.
func Flatten(h model.Holder) []Row {
	var rows []Row
	var seq int32
	var visit func(h model.Holder, parent int32)
	visit = func(h model.Holder, parent int32) {
		for slot := range h.Len() {
			item := h.ItemAt(slot)
			if item == nil {
				continue
			}
			seq++
			rows = append(rows, Row{
				Seq:        seq,
				ParentSeq:  parent,
				Slot:       int32(slot),
				TypeID:     item.TypeID(),
				Count:      item.Count(),
				Duration:   item.Duration(),
				OwnerTag:   item.OwnerTag(),
				UniqueID:   item.UniqueID(),
				Text:       item.Text(),
				Attributes: item.Attributes(),
				Bound:      item.IsBound(),
			})
			if c := item.Container(); c != nil {
				visit(c, seq)
			}
		}
	}
	visit(h, 0)
	return rows
}

// Restore recreates rows inside h and returns the number of items placed.
// Rows of unknown types are skipped together with their contents. Must run
// on the world goroutine.
func Restore(e *engine.Engine, h model.Holder, rows []Row) int {
	children := make(map[int32][]Row)
	for _, r := range rows {
		children[r.ParentSeq] = append(children[r.ParentSeq], r)
	}

	restored := 0
	var place func(h model.Holder, parent int32)
	place = func(h model.Holder, parent int32) {
		kids := children[parent]
		// List holders insert at the front: add the last slot first.
		slices.SortFunc(kids, func(a, b Row) int { return int(b.Slot - a.Slot) })

		for _, r := range kids {
			item, err := e.CreateItem(r.TypeID, r.Count)
			if err != nil {
				slog.Warn("skipping persisted item", "seq", r.Seq, "type", r.TypeID, "error", err)
				continue
			}
			if r.Duration > 0 {
				item.SetDuration(r.Duration)
			}
			item.SetOwnerTag(r.OwnerTag)
			item.SetUniqueID(r.UniqueID)
			item.SetText(r.Text)
			for k, v := range r.Attributes {
				item.SetAttribute(k, v)
			}
			item.SetBound(r.Bound)

			slot := model.IndexAnywhere
			if _, ok := h.(*model.Inventory); ok {
				slot = int(r.Slot)
			}
			_, out := e.AddItem(h, item, slot, model.FlagNoLimit, false)
			switch {
			case item.IsDestroyed():
				// Merged into a pile restored before it.
				restored++
				continue
			case !out.OK():
				slog.Warn("persisted item does not fit", "seq", r.Seq, "type", r.TypeID, "outcome", out)
				e.Release(item)
				continue
			}
			restored++

			if c := item.Container(); c != nil {
				place(c, r.Seq)
			}
		}
	}
	place(h, 0)
	return restored
}

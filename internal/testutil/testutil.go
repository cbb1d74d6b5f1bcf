package testutil

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/worldobj/internal/data"
	"github.com/udisondev/worldobj/internal/engine"
	"github.com/udisondev/worldobj/internal/model"
	"github.com/udisondev/worldobj/internal/world"
)

// ErrSimulated is returned by jobs and fakes that exercise error paths.
var ErrSimulated = errors.New("simulated error for testing")

// ContextWithTimeout returns a context canceled after d or when the test ends.
func ContextWithTimeout(t testing.TB, d time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}

// NewTestEngine builds an engine over an empty world and the test catalog.
// Diagnostics are discarded unless opts supply a logger.
func NewTestEngine(t testing.TB, opts ...engine.Option) *engine.Engine {
	t.Helper()
	discard := slog.New(slog.DiscardHandler)
	opts = append([]engine.Option{engine.WithLogger(discard)}, opts...)
	return engine.New(data.TestCatalog(), world.New(0, world.WithLogger(discard)), opts...)
}

// PutItem creates an item and adds it to h, failing the test unless it fits whole.
func PutItem(t testing.TB, e *engine.Engine, h model.Holder, slot int, typeID int32, count int32) *model.Item {
	t.Helper()
	item, err := e.CreateItem(typeID, count)
	require.NoError(t, err)
	rem, out := e.AddItem(h, item, slot, 0, false)
	require.True(t, out.OK(), "adding type %d: %s", typeID, out)
	require.Nil(t, rem, "adding type %d left a remainder", typeID)
	return item
}

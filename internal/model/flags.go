package model

// IndexAnywhere lets the holder pick the slot.
const IndexAnywhere = -1

// MaxLayers bounds destination redirection and nested transactions.
// It equals the number of map floors: no legitimate holder chain is deeper.
const MaxLayers = 16

// Flags modify query and commit behaviour.
type Flags uint32

const (
	// FlagNoLimit skips slot-count, weight and blocking limits.
	// Used for drops onto the map and for loading persisted state.
	FlagNoLimit Flags = 1 << iota
	// FlagIgnoreNotMoveable lets fixed items be removed.
	FlagIgnoreNotMoveable
	// FlagIgnoreBlocking lets items be placed on a tile with a blocking item.
	FlagIgnoreBlocking
	// FlagSwap marks that one item vacates the target in the same transaction,
	// so a full single-occupancy slot or a full container counts as free.
	FlagSwap
)

// Has reports whether every bit of other is set in f.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// ActorID identifies who initiated a transaction. Holders use it for
// permission checks; the engine only threads it through.
type ActorID uint32

// SystemActor is the server itself; holders never refuse it.
const SystemActor ActorID = 0

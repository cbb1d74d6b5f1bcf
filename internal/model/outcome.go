package model

import "fmt"

// Outcome is the result code of every query and transaction.
// Callers branch on it; the engine never panics or errors for a refused move.
type Outcome uint8

const (
	Allowed Outcome = iota
	// NeedExchange: a single-occupancy slot already holds a different item
	// that must be displaced first.
	NeedExchange
	NotEnoughCapacity
	NotEnoughRoom
	ContainerNotEnoughRoom
	// NotPossible: null holder, non-removable item, depth bound exceeded,
	// permission refused.
	NotPossible
	NotMoveable
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "ALLOWED"
	case NeedExchange:
		return "NEED_EXCHANGE"
	case NotEnoughCapacity:
		return "NOT_ENOUGH_CAPACITY"
	case NotEnoughRoom:
		return "NOT_ENOUGH_ROOM"
	case ContainerNotEnoughRoom:
		return "CONTAINER_NOT_ENOUGH_ROOM"
	case NotPossible:
		return "NOT_POSSIBLE"
	case NotMoveable:
		return "NOT_MOVEABLE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(o))
	}
}

// OK reports whether the outcome is Allowed.
func (o Outcome) OK() bool {
	return o == Allowed
}

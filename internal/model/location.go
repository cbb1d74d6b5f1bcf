package model

import "fmt"

// Position is the map coordinate of a tile.
// Value type, passed by value (immutable).
type Position struct {
	X uint16
	Y uint16
	Z uint8 // floor, 0..MaxLayers-1
}

// NewPosition creates a Position with the given coordinates.
func NewPosition(x, y uint16, z uint8) Position {
	return Position{X: x, Y: y, Z: z}
}

// String returns the position as "(x, y, z)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// IsValid reports whether the floor lies inside the map.
func (p Position) IsValid() bool {
	return int(p.Z) < MaxLayers
}

package toast

import "strings"

// Position represents a toast container position on screen.
type Position string

const (
	PositionTopRight     Position = "top-right"
	PositionTopLeft      Position = "top-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionTopCenter    Position = "top-center"
	PositionBottomCenter Position = "bottom-center"
)

// DefaultPosition is used when no position, or an unknown one, is given.
const DefaultPosition = PositionTopRight

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopRight,
		PositionTopLeft,
		PositionBottomRight,
		PositionBottomLeft,
		PositionTopCenter,
		PositionBottomCenter,
	}
}

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	for _, v := range ValidPositions() {
		if p == v {
			return true
		}
	}
	return false
}

// IsTop reports whether toasts at p stack newest-first.
func (p Position) IsTop() bool {
	return strings.HasPrefix(string(p), "top")
}

// ParsePosition converts s to a Position, substituting DefaultPosition for
// anything that is not a known position.
func ParsePosition(s string) Position {
	p := Position(strings.TrimSpace(s))
	if !p.Valid() {
		return DefaultPosition
	}
	return p
}

package scrub

import "strconv"

// Direction is a directional input.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Cursor is an optional index into a collection. The zero value is unset.
type Cursor struct {
	index int
	set   bool
}

// At returns a cursor set to i.
func At(i int) Cursor {
	return Cursor{index: i, set: true}
}

// Index returns the cursor position and whether it is set.
func (c Cursor) Index() (int, bool) {
	return c.index, c.set
}

// IsSet reports whether the cursor points at an element.
func (c Cursor) IsSet() bool {
	return c.set
}

// Move applies a directional input over a collection of length n.
// An empty collection always yields an unset cursor.
func (c Cursor) Move(d Direction, n int) Cursor {
	if n <= 0 {
		return Cursor{}
	}
	last := n - 1

	switch d {
	case Left:
		if !c.set {
			return At(0)
		}
		return At(min(max(c.index-1, 0), last))
	case Right:
		if !c.set {
			return At(0)
		}
		return At(min(c.index+1, last))
	case Up:
		return At(0)
	case Down:
		return At(last)
	}
	return c
}

// String renders the cursor as its index, or "None" when unset.
func (c Cursor) String() string {
	if !c.set {
		return "None"
	}
	return strconv.Itoa(c.index)
}

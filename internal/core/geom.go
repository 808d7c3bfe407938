// Package core provides fundamental types shared by the engine and the
// transports: grid coordinates, directions, boundary validation helpers and
// a character screen buffer. It has no dependency on Bubble Tea or on any
// transport so the simulation stays pure and testable.
package core

// Coord is an integer grid coordinate. Coordinates grow right (x) and down (y).
type Coord struct {
	X, Y int
}

// C is shorthand for Coord{X: x, Y: y}.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// Step returns the neighbouring cell one step in the given direction.
func (c Coord) Step(d Direction) Coord {
	switch d {
	case Up:
		return Coord{X: c.X, Y: c.Y - 1}
	case Down:
		return Coord{X: c.X, Y: c.Y + 1}
	case Left:
		return Coord{X: c.X - 1, Y: c.Y}
	case Right:
		return Coord{X: c.X + 1, Y: c.Y}
	}
	return c
}

// InBounds reports whether the coordinate lies inside a width x height grid
// anchored at the origin.
func (c Coord) InBounds(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// Pair returns the coordinate as an [x, y] pair, the wire form used by snapshots.
func (c Coord) Pair() [2]int {
	return [2]int{c.X, c.Y}
}

// FromPair builds a Coord from an [x, y] pair.
func FromPair(p [2]int) Coord {
	return Coord{X: p[0], Y: p[1]}
}

// Direction is the facing of a snake. The string values are the wire format.
type Direction string

const (
	Up    Direction = "UP"
	Down  Direction = "DOWN"
	Left  Direction = "LEFT"
	Right Direction = "RIGHT"
)

// Directions lists all directions in the stable order used for tie breaking.
var Directions = [4]Direction{Up, Down, Left, Right}

// clockwise is the rotation order used by Clockwise.
var clockwise = [4]Direction{Up, Right, Down, Left}

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Clockwise rotates d by the given number of quarter turns.
// Negative steps rotate counter-clockwise.
func (d Direction) Clockwise(steps int) Direction {
	for i, dir := range clockwise {
		if dir == d {
			n := ((i+steps)%4 + 4) % 4
			return clockwise[n]
		}
	}
	return d
}

// Opposite returns the reverse direction (UP<->DOWN, LEFT<->RIGHT).
func (d Direction) Opposite() Direction {
	return d.Clockwise(2)
}

// String returns the wire value of the direction.
func (d Direction) String() string {
	return string(d)
}

// ParseDirection validates a raw direction received from a client.
// Only the exact wire values are accepted.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(s)
	if !d.Valid() {
		return "", false
	}
	return d, true
}

// Rect represents an axis-aligned rectangle on a Screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

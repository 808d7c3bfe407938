package game

import "github.com/vovakirdan/snakearena/internal/core"

// Snake is one player's chain of segments. Index 0 of segments is the head.
type Snake struct {
	id       string
	segments []core.Coord
	facing   core.Direction
	color    string
	name     string
}

// NewSnake builds a snake from an explicit head-first segment list.
// The segment slice is copied. At least one segment is required.
func NewSnake(id string, segments []core.Coord, facing core.Direction, color, name string) *Snake {
	if len(segments) == 0 {
		panic("game: NewSnake: snake needs at least one segment")
	}
	return &Snake{
		id:       id,
		segments: append([]core.Coord(nil), segments...),
		facing:   facing,
		color:    color,
		name:     name,
	}
}

// SpawnSnake builds a freshly spawned snake: length segments stacked on pos.
// The stack unfolds over the following ticks as the head moves away.
func SpawnSnake(id string, pos core.Coord, length int, facing core.Direction, color, name string) *Snake {
	segments := make([]core.Coord, max(1, length))
	for i := range segments {
		segments[i] = pos
	}
	return NewSnake(id, segments, facing, color, name)
}

// ID returns the owning player's id.
func (s *Snake) ID() string { return s.id }

// Name returns the display name.
func (s *Snake) Name() string { return s.name }

// Color returns the display colour.
func (s *Snake) Color() string { return s.color }

// Facing returns the direction the head moves on the next tick.
func (s *Snake) Facing() core.Direction { return s.facing }

// Score is always the segment count.
func (s *Snake) Score() int { return len(s.segments) }

// Len returns the segment count.
func (s *Snake) Len() int { return len(s.segments) }

// Head returns the head segment.
func (s *Snake) Head() core.Coord { return s.segments[0] }

// Segments returns a copy of the segments, head first.
func (s *Snake) Segments() []core.Coord {
	return append([]core.Coord(nil), s.segments...)
}

// CanFace reports whether the snake may turn to d. Only the exact reversal
// of the current facing is refused; keeping the same facing is allowed.
func (s *Snake) CanFace(d core.Direction) bool {
	return d != s.facing.Opposite()
}

// SetFacing assigns the facing unconditionally. Callers check CanFace first.
func (s *Snake) SetFacing(d core.Direction) {
	s.facing = d
}

// Advance moves the snake one cell: the head steps in the facing direction,
// every other segment takes the previous position of its predecessor and the
// old tail drops off. The new chain is built from a copy of the prior state.
func (s *Snake) Advance() {
	prev := s.segments
	next := make([]core.Coord, len(prev))
	next[0] = prev[0].Step(s.facing)
	copy(next[1:], prev[:len(prev)-1])
	s.segments = next
}

// Grow appends a copy of the tail. The extra segment becomes visible once
// the snake next moves.
func (s *Snake) Grow() {
	s.segments = append(s.segments, s.segments[len(s.segments)-1])
}

// HeadOverlapsBody reports whether c is on any segment except the head.
func (s *Snake) HeadOverlapsBody(c core.Coord) bool {
	for _, seg := range s.segments[1:] {
		if seg == c {
			return true
		}
	}
	return false
}

// BodyIncludes reports whether c is on any segment, head included.
func (s *Snake) BodyIncludes(c core.Coord) bool {
	for _, seg := range s.segments {
		if seg == c {
			return true
		}
	}
	return false
}

// WithinBounds reports whether every segment is on the board.
func (s *Snake) WithinBounds(b Board) bool {
	for _, seg := range s.segments {
		if !b.Contains(seg) {
			return false
		}
	}
	return true
}

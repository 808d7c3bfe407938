package game

import (
	"testing"

	"github.com/vovakirdan/snakearena/internal/core"
)

func TestSnakeCanFace(t *testing.T) {
	tests := []struct {
		facing   core.Direction
		dir      core.Direction
		expected bool
	}{
		{core.Up, core.Up, true},
		{core.Up, core.Left, true},
		{core.Up, core.Right, true},
		{core.Up, core.Down, false},
		{core.Left, core.Right, false},
		{core.Right, core.Left, false},
		{core.Down, core.Up, false},
		{core.Down, core.Left, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.facing)+"->"+string(tc.dir), func(t *testing.T) {
			s := SpawnSnake("p", core.C(5, 5), 4, tc.facing, "lime", "p")
			if got := s.CanFace(tc.dir); got != tc.expected {
				t.Errorf("CanFace(%s) = %v, expected %v", tc.dir, got, tc.expected)
			}
		})
	}
}

func TestSnakeAdvance(t *testing.T) {
	s := NewSnake("p", []core.Coord{core.C(2, 2), core.C(2, 3), core.C(2, 4)}, core.Up, "lime", "p")
	s.Advance()

	expected := []core.Coord{core.C(2, 1), core.C(2, 2), core.C(2, 3)}
	assertSegments(t, s.Segments(), expected)
}

func TestSnakeAdvanceUnfoldsSpawnStack(t *testing.T) {
	s := SpawnSnake("p", core.C(5, 5), 4, core.Right, "lime", "p")

	s.Advance()
	assertSegments(t, s.Segments(), []core.Coord{core.C(6, 5), core.C(5, 5), core.C(5, 5), core.C(5, 5)})

	s.Advance()
	s.Advance()
	assertSegments(t, s.Segments(), []core.Coord{core.C(8, 5), core.C(7, 5), core.C(6, 5), core.C(5, 5)})
}

func TestSnakeGrow(t *testing.T) {
	s := NewSnake("p", []core.Coord{core.C(2, 2), core.C(2, 3)}, core.Up, "lime", "p")
	s.Grow()

	if s.Len() != 3 {
		t.Fatalf("Len() = %d after Grow, expected 3", s.Len())
	}
	if s.Score() != 3 {
		t.Errorf("Score() = %d, expected segment count 3", s.Score())
	}
	assertSegments(t, s.Segments(), []core.Coord{core.C(2, 2), core.C(2, 3), core.C(2, 3)})

	// The grown tail follows on the next move
	s.Advance()
	assertSegments(t, s.Segments(), []core.Coord{core.C(2, 1), core.C(2, 2), core.C(2, 3)})
}

func TestSnakeOverlaps(t *testing.T) {
	s := NewSnake("p", []core.Coord{core.C(1, 1), core.C(1, 2), core.C(1, 3)}, core.Up, "lime", "p")

	if s.HeadOverlapsBody(core.C(1, 1)) {
		t.Error("HeadOverlapsBody should exclude the head")
	}
	if !s.HeadOverlapsBody(core.C(1, 3)) {
		t.Error("HeadOverlapsBody should include the tail")
	}
	if !s.BodyIncludes(core.C(1, 1)) {
		t.Error("BodyIncludes should include the head")
	}
	if s.BodyIncludes(core.C(2, 2)) {
		t.Error("BodyIncludes reported a free cell")
	}
}

func TestSnakeWithinBounds(t *testing.T) {
	b := Board{Width: 10, Height: 10}

	inside := NewSnake("p", []core.Coord{core.C(0, 0), core.C(0, 1)}, core.Up, "lime", "p")
	if !inside.WithinBounds(b) {
		t.Error("Snake on the board reported out of bounds")
	}

	outside := NewSnake("p", []core.Coord{core.C(0, -1), core.C(0, 0)}, core.Up, "lime", "p")
	if outside.WithinBounds(b) {
		t.Error("Snake with head off the board reported in bounds")
	}
}

func TestNewSnakeCopiesSegments(t *testing.T) {
	segs := []core.Coord{core.C(1, 1), core.C(1, 2)}
	s := NewSnake("p", segs, core.Up, "lime", "p")
	segs[0] = core.C(9, 9)

	if s.Head() != core.C(1, 1) {
		t.Error("NewSnake should not alias the caller's slice")
	}
}

func assertSegments(t *testing.T, got, expected []core.Coord) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("segments = %v, expected %v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("segments = %v, expected %v", got, expected)
		}
	}
}

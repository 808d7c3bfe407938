// Package game implements the authoritative multiplayer snake simulation:
// the board, snakes, consumable tiles, the per-tick update and the snapshot
// codec used to ship state to viewers.
//
// A Game is a synchronous state machine with a single owner. It performs
// no locking; callers must serialize SpawnPlayer, SetPlayerFacing and Tick
// through one goroutine (see multiplayer.Room).
package game

import "github.com/vovakirdan/snakearena/internal/core"

// Board holds the grid dimensions. It does not own entities.
type Board struct {
	Width  int
	Height int
}

// Contains reports whether c lies on the board.
func (b Board) Contains(c core.Coord) bool {
	return c.InBounds(b.Width, b.Height)
}

// Cells returns the number of cells on the board.
func (b Board) Cells() int {
	return b.Width * b.Height
}

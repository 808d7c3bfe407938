package game

import "github.com/vovakirdan/snakearena/internal/core"

// TileKind tags a consumable. Apples are the only kind.
type TileKind string

// TileApple grows the snake that collects it by one segment.
const TileApple TileKind = "tile:apple"

// Tile is a consumable item sitting on one cell of the board.
type Tile struct {
	Kind TileKind
	Pos  core.Coord
}

// NewApple creates an apple at pos.
func NewApple(pos core.Coord) Tile {
	return Tile{Kind: TileApple, Pos: pos}
}

package game

import "github.com/vovakirdan/snakearena/internal/core"

// Size mirrors the board dimensions on the wire.
type Size struct {
	Width  int `json:"width" msgpack:"width"`
	Height int `json:"height" msgpack:"height"`
}

// SnakeState is the serialized form of one snake.
type SnakeState struct {
	ID     string         `json:"id" msgpack:"id"`
	Score  int            `json:"score" msgpack:"score"`
	Color  string         `json:"color" msgpack:"color"`
	Pos    [][2]int       `json:"pos" msgpack:"pos"` // head first
	Facing core.Direction `json:"facing" msgpack:"facing"`
	Name   string         `json:"name" msgpack:"name"`
}

// TileState is the serialized form of one tile.
type TileState struct {
	Type string `json:"type" msgpack:"type"`
	Pos  [2]int `json:"pos" msgpack:"pos"`
}

// Snapshot is a self-contained copy of the world for one tick.
// It shares no memory with the Game it was taken from.
type Snapshot struct {
	Size   Size         `json:"size" msgpack:"size"`
	Snakes []SnakeState `json:"snakes" msgpack:"snakes"`
	Tiles  []TileState  `json:"tiles" msgpack:"tiles"`
}

// Snapshot projects the current state. It does not mutate the game.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Size:   Size{Width: g.board.Width, Height: g.board.Height},
		Snakes: make([]SnakeState, 0, len(g.order)),
		Tiles:  make([]TileState, 0, len(g.tiles)),
	}
	for _, id := range g.order {
		snap.Snakes = append(snap.Snakes, snakeState(g.snakes[id]))
	}
	for _, t := range g.tiles {
		snap.Tiles = append(snap.Tiles, TileState{Type: string(t.Kind), Pos: t.Pos.Pair()})
	}
	return snap
}

func snakeState(s *Snake) SnakeState {
	pos := make([][2]int, len(s.segments))
	for i, seg := range s.segments {
		pos[i] = seg.Pair()
	}
	return SnakeState{
		ID:     s.id,
		Score:  s.Score(),
		Color:  s.color,
		Pos:    pos,
		Facing: s.facing,
		Name:   s.name,
	}
}

// Snake looks up a snake by player id.
func (s Snapshot) Snake(id string) (SnakeState, bool) {
	for _, st := range s.Snakes {
		if st.ID == id {
			return st, true
		}
	}
	return SnakeState{}, false
}

// View is an observer-side reconstruction of a snapshot. It is read-only
// and never feeds back into a Game.
type View struct {
	Board  Board
	Snakes []*Snake
	Tiles  []Tile
}

// FromSnapshot rebuilds entities from a snapshot. Every tile entry becomes
// an apple, the only kind the engine produces.
func FromSnapshot(snap Snapshot) *View {
	v := &View{
		Board:  Board{Width: snap.Size.Width, Height: snap.Size.Height},
		Snakes: make([]*Snake, 0, len(snap.Snakes)),
		Tiles:  make([]Tile, 0, len(snap.Tiles)),
	}
	for _, st := range snap.Snakes {
		if len(st.Pos) == 0 {
			continue
		}
		segments := make([]core.Coord, len(st.Pos))
		for i, p := range st.Pos {
			segments[i] = core.FromPair(p)
		}
		v.Snakes = append(v.Snakes, NewSnake(st.ID, segments, st.Facing, st.Color, st.Name))
	}
	for _, t := range snap.Tiles {
		v.Tiles = append(v.Tiles, NewApple(core.FromPair(t.Pos)))
	}
	return v
}

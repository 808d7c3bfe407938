package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/snakearena/internal/core"
)

// DefaultInitialLength is the segment count of a freshly spawned snake.
const DefaultInitialLength = 4

// Game owns the live snakes and tiles and advances them tick by tick.
type Game struct {
	board         Board
	rng           *rand.Rand
	initialLength int

	// Live set. order keeps insertion order for iteration and snapshots.
	snakes map[string]*Snake
	order  []string
	tiles  []Tile

	// Players whose facing change was accepted during the current tick.
	turned map[string]struct{}

	listeners []DeathListener
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the random source used for placement.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithSeed seeds the random source. A zero seed uses the current time.
func WithSeed(seed int64) Option {
	return func(g *Game) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithInitialLength overrides the spawn length.
func WithInitialLength(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.initialLength = n
		}
	}
}

// New creates a game on a width x height board with no players and one apple.
func New(width, height int, opts ...Option) *Game {
	g := &Game{
		board:         Board{Width: width, Height: height},
		initialLength: DefaultInitialLength,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.init()
	return g
}

func (g *Game) init() {
	g.snakes = make(map[string]*Snake)
	g.order = nil
	g.tiles = nil
	g.turned = make(map[string]struct{})
	g.spawnApple()
}

// Board returns the board dimensions.
func (g *Game) Board() Board {
	return g.board
}

// OnDeath registers a listener called for every eliminated snake.
func (g *Game) OnDeath(l DeathListener) {
	g.listeners = append(g.listeners, l)
}

// HasPlayer reports whether id owns a live snake.
func (g *Game) HasPlayer(id string) bool {
	_, ok := g.snakes[id]
	return ok
}

// Player returns the live snake owned by id.
func (g *Game) Player(id string) (*Snake, bool) {
	s, ok := g.snakes[id]
	return s, ok
}

// Players returns the live snakes in insertion order.
func (g *Game) Players() []*Snake {
	out := make([]*Snake, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.snakes[id])
	}
	return out
}

// Tiles returns a copy of the live tiles.
func (g *Game) Tiles() []Tile {
	return append([]Tile(nil), g.tiles...)
}

// SpawnPlayer adds a snake for id at a random free cell, facing the
// direction with the longest unobstructed run. Duplicate ids must be
// filtered by the caller.
func (g *Game) SpawnPlayer(id, color, name string) {
	pos := g.randomFreeCell()
	facing := g.mostFreeDirection(pos)
	g.addSnake(SpawnSnake(id, pos, g.initialLength, facing, color, name))
}

func (g *Game) addSnake(s *Snake) {
	g.snakes[s.ID()] = s
	g.order = append(g.order, s.ID())
}

// SetPlayerFacing applies a turn request. Unknown players, a second turn in
// the same tick, a turn to the current facing and a reversal are ignored.
func (g *Game) SetPlayerFacing(id string, d core.Direction) {
	s, ok := g.snakes[id]
	if !ok {
		return
	}
	if _, turned := g.turned[id]; turned {
		return
	}
	if d == s.Facing() || !s.CanFace(d) {
		return
	}
	s.SetFacing(d)
	g.turned[id] = struct{}{}
}

// Tick advances the world by one step.
//
// Snakes move in insertion order. The first death ends the tick: snakes
// later in the order are neither moved nor checked until the next tick.
func (g *Game) Tick() {
	clear(g.turned)

	for _, id := range append([]string(nil), g.order...) {
		s := g.snakes[id]
		s.Advance()
		head := s.Head()

		if s.HeadOverlapsBody(head) {
			g.removePlayer(id, CauseSelfCollision)
			return
		}
		if g.hitsOtherSnake(s, head) {
			g.removePlayer(id, CauseKilled)
			return
		}
		if !s.WithinBounds(g.board) {
			g.removePlayer(id, CauseWall)
			return
		}

		g.collectTiles(s, head)
	}
}

func (g *Game) hitsOtherSnake(s *Snake, head core.Coord) bool {
	for _, otherID := range g.order {
		if otherID == s.ID() {
			continue
		}
		if g.snakes[otherID].BodyIncludes(head) {
			return true
		}
	}
	return false
}

// collectTiles consumes every tile under the head and respawns a
// replacement for each.
func (g *Game) collectTiles(s *Snake, head core.Coord) {
	kept := g.tiles[:0]
	eaten := 0
	for _, t := range g.tiles {
		if t.Pos == head && t.Kind == TileApple {
			s.Grow()
			eaten++
			continue
		}
		kept = append(kept, t)
	}
	g.tiles = kept
	for range eaten {
		g.spawnApple()
	}
}

// removePlayer destroys a live snake and notifies listeners. Removing an id
// that is not live is a logic error.
func (g *Game) removePlayer(id string, cause DeathCause) {
	s, ok := g.snakes[id]
	if !ok {
		panic(fmt.Sprintf("game: removePlayer: player %q not found", id))
	}

	delete(g.snakes, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	delete(g.turned, id)

	death := Death{
		PlayerID: s.ID(),
		Name:     s.Name(),
		Color:    s.Color(),
		Score:    s.Score(),
		Cause:    cause,
	}
	for _, l := range g.listeners {
		l(death)
	}
}

func (g *Game) spawnApple() {
	g.tiles = append(g.tiles, NewApple(g.randomFreeCell()))
}

// randomFreeCell samples cells uniformly until one is free of snakes and
// tiles. It does not terminate on a completely full board.
func (g *Game) randomFreeCell() core.Coord {
	for {
		c := core.C(g.rng.Intn(g.board.Width), g.rng.Intn(g.board.Height))
		if g.isFree(c) {
			return c
		}
	}
}

func (g *Game) isFree(c core.Coord) bool {
	if g.occupiedBySnake(c) {
		return false
	}
	for _, t := range g.tiles {
		if t.Pos == c {
			return false
		}
	}
	return true
}

func (g *Game) occupiedBySnake(c core.Coord) bool {
	for _, s := range g.snakes {
		if s.BodyIncludes(c) {
			return true
		}
	}
	return false
}

// freeRun counts the cells from pos in direction d before the board edge
// or a snake segment.
func (g *Game) freeRun(pos core.Coord, d core.Direction) int {
	n := 0
	for c := pos.Step(d); g.board.Contains(c) && !g.occupiedBySnake(c); c = c.Step(d) {
		n++
	}
	return n
}

// mostFreeDirection picks the direction with the longest free run.
// Ties resolve in the order UP, DOWN, LEFT, RIGHT.
func (g *Game) mostFreeDirection(pos core.Coord) core.Direction {
	best := core.Directions[0]
	bestRun := -1
	for _, d := range core.Directions {
		if run := g.freeRun(pos, d); run > bestRun {
			best, bestRun = d, run
		}
	}
	return best
}

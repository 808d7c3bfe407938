package game

// DeathCause tags why a snake was eliminated. The values are the wire format.
type DeathCause string

const (
	// CauseSelfCollision is when the head runs into the snake's own body.
	CauseSelfCollision DeathCause = "self-collision"
	// CauseKilled is when the head runs into any part of another snake.
	CauseKilled DeathCause = "killed-by-another-snake"
	// CauseWall is when the head leaves the board.
	CauseWall DeathCause = "wall-collision"
)

// Death is emitted once per eliminated snake.
type Death struct {
	PlayerID string     `json:"id" msgpack:"id"`
	Name     string     `json:"name" msgpack:"name"`
	Color    string     `json:"color" msgpack:"color"`
	Score    int        `json:"score" msgpack:"score"`
	Cause    DeathCause `json:"cause" msgpack:"cause"`
}

// DeathListener receives death notifications synchronously from Tick.
type DeathListener func(Death)

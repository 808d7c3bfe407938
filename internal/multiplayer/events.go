package multiplayer

import (
	"time"

	"github.com/vovakirdan/snakearena/internal/core"
	"github.com/vovakirdan/snakearena/internal/game"
)

// SessionEvent represents an event sent from the room to a session.
type SessionEvent interface {
	sessionEvent()
}

// SnapshotEvent carries the world state after a tick. The snapshot is shared
// between all sessions and must be treated as read-only.
type SnapshotEvent struct {
	Tick     uint64
	Snapshot game.Snapshot
}

func (SnapshotEvent) sessionEvent() {}

// DeathEvent is sent to every session when a snake is eliminated.
type DeathEvent struct {
	Tick  uint64
	Death game.Death
}

func (DeathEvent) sessionEvent() {}

// RoomMessage represents a message from a session to the room.
type RoomMessage interface {
	roomMessage()
}

// SpawnMsg asks for a snake for PlayerID. Ignored while the player is alive.
type SpawnMsg struct {
	PlayerID string
	Name     string
	Color    string
}

func (SpawnMsg) roomMessage() {}

// TurnMsg requests a facing change for PlayerID's snake.
type TurnMsg struct {
	PlayerID  string
	Direction core.Direction
}

func (TurnMsg) roomMessage() {}

// SetTickIntervalMsg changes the tick period.
type SetTickIntervalMsg struct {
	Interval time.Duration
}

func (SetTickIntervalMsg) roomMessage() {}

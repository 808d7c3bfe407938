package web

import (
	"github.com/vovakirdan/snakearena/internal/core"
	"github.com/vovakirdan/snakearena/internal/multiplayer"
)

// Envelope types.
const (
	TypeSpawn       = "spawn"
	TypeTurn        = "turn"
	TypePing        = "ping"
	TypeTick        = "tick"
	TypePlayerDeath = "playerDeath"
	TypePong        = "pong"
)

// ClientMessage is a frame received from a websocket client.
type ClientMessage struct {
	Type      string `json:"type" msgpack:"type"`
	Name      string `json:"name,omitempty" msgpack:"name,omitempty"`
	Color     string `json:"color,omitempty" msgpack:"color,omitempty"`
	Direction string `json:"direction,omitempty" msgpack:"direction,omitempty"`
}

// ServerMessage is a frame sent to a websocket client.
type ServerMessage struct {
	Type string `json:"type" msgpack:"type"`
	Tick uint64 `json:"tick,omitempty" msgpack:"tick,omitempty"`
	Data any    `json:"data,omitempty" msgpack:"data,omitempty"`
}

// roomMessage converts a client frame into room input for playerID.
// Returns false for frames the room does not handle or rejects outright.
func (m ClientMessage) roomMessage(playerID string) (multiplayer.RoomMessage, bool) {
	switch m.Type {
	case TypeSpawn:
		return multiplayer.SpawnMsg{PlayerID: playerID, Name: m.Name, Color: m.Color}, true
	case TypeTurn:
		d, ok := core.ParseDirection(m.Direction)
		if !ok {
			return nil, false
		}
		return multiplayer.TurnMsg{PlayerID: playerID, Direction: d}, true
	}
	return nil, false
}

// serverMessage converts a room event into its wire envelope.
func serverMessage(evt multiplayer.SessionEvent) (ServerMessage, bool) {
	switch e := evt.(type) {
	case multiplayer.SnapshotEvent:
		return ServerMessage{Type: TypeTick, Tick: e.Tick, Data: e.Snapshot}, true
	case multiplayer.DeathEvent:
		return ServerMessage{Type: TypePlayerDeath, Tick: e.Tick, Data: e.Death}, true
	}
	return ServerMessage{}, false
}

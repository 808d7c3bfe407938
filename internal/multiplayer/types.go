// Package multiplayer hosts the shared arena: a Room serializes every
// session's input onto one game engine and fans the results back out.
// Transports (SSH, websocket) only see SessionHandle and RoomMessage.
package multiplayer

import "github.com/google/uuid"

// SessionID uniquely identifies a connected client (SSH session or websocket).
type SessionID string

// NewSessionID returns a fresh random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// NewPlayerID returns a fresh random player identifier. Player ids are
// opaque to the engine; only uniqueness matters.
func NewPlayerID() string {
	return uuid.NewString()
}

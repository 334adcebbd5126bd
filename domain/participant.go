// Package domain contains core concepts of the chat relay.
// This file defines the Identity binding a connection to a (name, room) pair.
// No runtime, network, or UI logic should be added here.
package domain

// ConnectionID is the opaque token allocated by the transport for each
// accepted connection. It is never reused.
type ConnectionID string

// Identity is one live participant.
// At most one Identity exists per ConnectionID.
type Identity struct {
	ID   ConnectionID `json:"id"`
	Name string       `json:"name"`
	Room string       `json:"room"`
}

// InRoom reports whether the identity is a member of room.
func (i Identity) InRoom(room string) bool {
	return i.Room == room
}

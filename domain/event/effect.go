package event

import "chat-relay/domain"

// Scope selects who receives an emitted event.
type Scope int

const (
	ScopeConnection Scope = iota
	ScopeRoom
	ScopeRoomExcept
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeConnection:
		return "connection"
	case ScopeRoom:
		return "room"
	case ScopeRoomExcept:
		return "room_except"
	case ScopeAll:
		return "all"
	default:
		return "unknown"
	}
}

// Target addresses an emit. Room is set for room scopes, ConnectionID for
// the connection scope and for the excluded sender of ScopeRoomExcept.
type Target struct {
	Scope        Scope
	Room         string
	ConnectionID domain.ConnectionID
}

func ToConnection(id domain.ConnectionID) Target {
	return Target{Scope: ScopeConnection, ConnectionID: id}
}

func ToRoom(room string) Target {
	return Target{Scope: ScopeRoom, Room: room}
}

func ToRoomExcept(room string, id domain.ConnectionID) Target {
	return Target{Scope: ScopeRoomExcept, Room: room, ConnectionID: id}
}

func ToAll() Target {
	return Target{Scope: ScopeAll}
}

// Effect is one step the gateway must execute, in order, on behalf of the
// session coordinator.
type Effect interface {
	effect()
}

// JoinGroup subscribes a connection to the broadcast group of a room.
type JoinGroup struct {
	ID   domain.ConnectionID
	Room string
}

// LeaveGroup unsubscribes a connection from the broadcast group of a room.
type LeaveGroup struct {
	ID   domain.ConnectionID
	Room string
}

// Emit delivers an event to every connection selected by Target.
type Emit struct {
	Target Target
	Event  Event
}

// Release forgets a closed connection and all of its group memberships.
type Release struct {
	ID domain.ConnectionID
}

func (JoinGroup) effect()  {}
func (LeaveGroup) effect() {}
func (Emit) effect()       {}
func (Release) effect()    {}

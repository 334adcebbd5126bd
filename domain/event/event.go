package event

import (
	"chat-relay/domain"
)

// Wire names of the outbound events.
const (
	MessageName  = "message"
	UserListName = "userList"
	RoomListName = "roomList"
	ActivityName = "activity"
)

// Event is an outbound notification pushed through the gateway.
type Event interface {
	Name() string
}

type MessageSent struct {
	Message domain.Message
}

func (MessageSent) Name() string { return MessageName }

// UserListUpdated carries the roster of one room.
type UserListUpdated struct {
	Users []domain.Identity `json:"users"`
}

func (UserListUpdated) Name() string { return UserListName }

// RoomListUpdated carries every active room.
type RoomListUpdated struct {
	Rooms []string `json:"rooms"`
}

func (RoomListUpdated) Name() string { return RoomListName }

// ActivityNotified tells a room that someone is typing.
type ActivityNotified struct {
	User string
}

func (ActivityNotified) Name() string { return ActivityName }

// Payload returns the value serialised as the event data on the wire.
func Payload(e Event) any {
	switch evt := e.(type) {
	case MessageSent:
		return evt.Message
	case ActivityNotified:
		return evt.User
	default:
		return evt
	}
}

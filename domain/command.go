package domain

// Command is an inbound event bound to the connection it arrived on.
type Command interface {
	ConnectionID() ConnectionID
}

type ConnectCommand struct {
	ID ConnectionID
}

func (c ConnectCommand) ConnectionID() ConnectionID { return c.ID }

type EnterRoomCommand struct {
	ID   ConnectionID
	Name string `validate:"notblank"`
	Room string `validate:"notblank"`
}

func (c EnterRoomCommand) ConnectionID() ConnectionID { return c.ID }

type PostMessageCommand struct {
	ID   ConnectionID
	Name string
	Text string
}

func (c PostMessageCommand) ConnectionID() ConnectionID { return c.ID }

type ActivityCommand struct {
	ID   ConnectionID
	Name string
}

func (c ActivityCommand) ConnectionID() ConnectionID { return c.ID }

// LeaveRoomCommand drops the identity while keeping the connection open.
type LeaveRoomCommand struct {
	ID ConnectionID
}

func (c LeaveRoomCommand) ConnectionID() ConnectionID { return c.ID }

type DisconnectCommand struct {
	ID ConnectionID
}

func (c DisconnectCommand) ConnectionID() ConnectionID { return c.ID }

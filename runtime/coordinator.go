package runtime

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/projection"
	"chat-relay/repositories"
	stderrors "errors"
	"fmt"
	"log/slog"
)

// Censor rewrites chat text before it is broadcast.
type Censor interface {
	Censor(text string) (string, []string)
}

// Coordinator is the per-connection protocol state machine.
//
// Handle applies one command to the presence store and returns the effects
// the gateway must execute, in order. It never blocks and never touches the
// network, so it must only be called from one goroutine at a time: the
// session worker.
type Coordinator struct {
	log       *slog.Logger
	store     repositories.IPresenceRepository
	formatter domain.Formatter
	policy    domain.JoinPolicy
	censor    Censor
}

func NewCoordinator(log *slog.Logger, store repositories.IPresenceRepository,
	formatter domain.Formatter, policy domain.JoinPolicy, censor Censor) *Coordinator {
	return &Coordinator{
		log:       log,
		store:     store,
		formatter: formatter,
		policy:    policy,
		censor:    censor,
	}
}

func (c *Coordinator) Handle(cmd domain.Command) []event.Effect {
	switch cmd := cmd.(type) {
	case domain.ConnectCommand:
		return c.connect(cmd)
	case domain.EnterRoomCommand:
		return c.enterRoom(cmd)
	case domain.PostMessageCommand:
		return c.postMessage(cmd)
	case domain.ActivityCommand:
		return c.activity(cmd)
	case domain.LeaveRoomCommand:
		return c.leaveRoom(cmd)
	case domain.DisconnectCommand:
		return c.disconnect(cmd)
	default:
		c.log.Warn("Unsupported command", "type", fmt.Sprintf("%T", cmd))
		return nil
	}
}

func (c *Coordinator) connect(cmd domain.ConnectCommand) []event.Effect {
	return []event.Effect{
		c.adminTo(event.ToConnection(cmd.ID), domain.WelcomeText),
	}
}

func (c *Coordinator) enterRoom(cmd domain.EnterRoomCommand) []event.Effect {
	if err := c.policy.CheckJoin(cmd); err != nil {
		c.log.Warn("Join rejected", "connection_id", cmd.ID, "name", cmd.Name, "room", cmd.Room, "error", err)
		return []event.Effect{c.adminTo(event.ToConnection(cmd.ID), rejectionText(err))}
	}

	var effects []event.Effect
	identities := c.store.All()
	previous, hadRoom := projection.FindIdentity(identities, cmd.ID)

	if hadRoom {
		effects = append(effects,
			event.LeaveGroup{ID: cmd.ID, Room: previous.Room},
			c.adminTo(event.ToRoom(previous.Room), domain.HasLeftText(cmd.Name)),
		)
	}

	identity := domain.Identity{ID: cmd.ID, Name: cmd.Name, Room: cmd.Room}
	identities = append(projection.Without(identities, cmd.ID), identity)
	c.replace(identities)

	if hadRoom {
		effects = append(effects, event.Emit{
			Target: event.ToRoom(previous.Room),
			Event:  event.UserListUpdated{Users: projection.MembersOf(identities, previous.Room)},
		})
	}

	effects = append(effects,
		event.JoinGroup{ID: cmd.ID, Room: identity.Room},
		c.adminTo(event.ToConnection(cmd.ID), domain.JoinedText(identity.Room)),
		c.adminTo(event.ToRoomExcept(identity.Room, cmd.ID), domain.HasJoinedText(identity.Name)),
		event.Emit{
			Target: event.ToRoom(identity.Room),
			Event:  event.UserListUpdated{Users: projection.MembersOf(identities, identity.Room)},
		},
		c.roomList(identities),
	)
	c.log.Info("Participant joined", "connection_id", cmd.ID, "name", identity.Name, "room", identity.Room)
	return effects
}

func (c *Coordinator) postMessage(cmd domain.PostMessageCommand) []event.Effect {
	identity, ok := projection.FindIdentity(c.store.All(), cmd.ID)
	if !ok {
		c.log.Debug("Message dropped, connection has not joined", "connection_id", cmd.ID)
		return nil
	}
	if !c.policy.AllowsSender(cmd.Name) {
		c.log.Warn("Message dropped, reserved sender name", "connection_id", cmd.ID, "name", cmd.Name)
		return nil
	}

	text := cmd.Text
	if c.censor != nil {
		text, _ = c.censor.Censor(text)
	}
	return []event.Effect{
		event.Emit{
			Target: event.ToRoom(identity.Room),
			Event:  event.MessageSent{Message: c.formatter.Build(cmd.Name, text)},
		},
	}
}

func (c *Coordinator) activity(cmd domain.ActivityCommand) []event.Effect {
	identity, ok := projection.FindIdentity(c.store.All(), cmd.ID)
	if !ok {
		return nil
	}
	return []event.Effect{
		event.Emit{
			Target: event.ToRoomExcept(identity.Room, cmd.ID),
			Event:  event.ActivityNotified{User: cmd.Name},
		},
	}
}

func (c *Coordinator) leaveRoom(cmd domain.LeaveRoomCommand) []event.Effect {
	identities := c.store.All()
	identity, ok := projection.FindIdentity(identities, cmd.ID)
	if !ok {
		return nil
	}
	identities = projection.Without(identities, cmd.ID)
	c.replace(identities)

	c.log.Info("Participant left", "connection_id", cmd.ID, "name", identity.Name, "room", identity.Room)
	return append([]event.Effect{event.LeaveGroup{ID: cmd.ID, Room: identity.Room}},
		c.departure(identities, identity)...)
}

// disconnect removes the identity before any broadcast is computed, so a
// departing participant never appears in its own leave notifications.
func (c *Coordinator) disconnect(cmd domain.DisconnectCommand) []event.Effect {
	identities := c.store.All()
	identity, ok := projection.FindIdentity(identities, cmd.ID)
	identities = projection.Without(identities, cmd.ID)
	c.replace(identities)

	// The closed connection is released first: it must not receive its own
	// departure.
	effects := []event.Effect{event.Release{ID: cmd.ID}}
	if ok {
		c.log.Info("Participant disconnected", "connection_id", cmd.ID, "name", identity.Name, "room", identity.Room)
		effects = append(effects, c.departure(identities, identity)...)
	}
	return effects
}

func (c *Coordinator) departure(identities []domain.Identity, gone domain.Identity) []event.Effect {
	return []event.Effect{
		c.adminTo(event.ToRoom(gone.Room), domain.HasLeftText(gone.Name)),
		event.Emit{
			Target: event.ToRoom(gone.Room),
			Event:  event.UserListUpdated{Users: projection.MembersOf(identities, gone.Room)},
		},
		c.roomList(identities),
	}
}

func (c *Coordinator) replace(identities []domain.Identity) {
	c.store.SetAll(identities)
	c.log.Debug("Presence updated", "users", identities)
}

func (c *Coordinator) roomList(identities []domain.Identity) event.Emit {
	return event.Emit{
		Target: event.ToAll(),
		Event:  event.RoomListUpdated{Rooms: projection.ActiveRooms(identities)},
	}
}

func (c *Coordinator) adminTo(target event.Target, text string) event.Emit {
	return event.Emit{
		Target: target,
		Event:  event.MessageSent{Message: c.formatter.Build(domain.AdminLabel, text)},
	}
}

func rejectionText(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrReservedName):
		return "The name " + domain.AdminLabel + " is reserved"
	case stderrors.Is(err, errors.ErrBlankField):
		return "A name and a room are required"
	default:
		return "Unable to join the room"
	}
}

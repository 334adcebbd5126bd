package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"chat-relay/observability"
	"context"
	"fmt"
	"log/slog"
)

// Gateway executes effects against the broadcast groups of the registry.
//
// Effects are applied one after the other in the order they were produced,
// so a group change is always visible to the broadcasts that follow it.
// Delivery is fire-and-forget: sinks must not block, a sink that refuses an
// event is logged and skipped, the other recipients still receive it.
type Gateway struct {
	log        *slog.Logger
	registry   contract.IRegistry
	monitoring *observability.MonitoringManager
}

func NewGateway(log *slog.Logger, registry contract.IRegistry,
	monitoring *observability.MonitoringManager) *Gateway {
	return &Gateway{
		log:        log,
		registry:   registry,
		monitoring: monitoring,
	}
}

func (g *Gateway) Apply(ctx context.Context, effects []event.Effect) {
	for _, effect := range effects {
		switch e := effect.(type) {
		case event.JoinGroup:
			g.registry.Join(e.ID, e.Room)
		case event.LeaveGroup:
			g.registry.Leave(e.ID, e.Room)
		case event.Release:
			g.registry.Release(e.ID)
		case event.Emit:
			g.emit(ctx, e)
		default:
			g.log.Warn("Unsupported effect", "type", fmt.Sprintf("%T", effect))
		}
	}
}

func (g *Gateway) emit(ctx context.Context, e event.Emit) {
	for _, sink := range g.resolve(e.Target) {
		if err := sink.Consume(ctx, e.Event); err != nil {
			g.monitoring.IncrEventsDropped()
			g.log.Warn("Event not delivered",
				"event", e.Event.Name(),
				"scope", e.Target.Scope.String(),
				"room", e.Target.Room,
				"error", err)
			continue
		}
		g.monitoring.IncrEventsDelivered()
	}
}

func (g *Gateway) resolve(target event.Target) []contract.EventSink {
	switch target.Scope {
	case event.ScopeConnection:
		if sink, ok := g.registry.SinkFor(target.ConnectionID); ok {
			return []contract.EventSink{sink}
		}
		return nil
	case event.ScopeRoom:
		return g.registry.SinksForRoom(target.Room, "")
	case event.ScopeRoomExcept:
		return g.registry.SinksForRoom(target.Room, target.ConnectionID)
	case event.ScopeAll:
		return g.registry.AllSinks()
	default:
		return nil
	}
}

package workers

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/observability"
	"context"
	"log/slog"
)

var _ contract.Worker = (*SessionWorker)(nil)

// SessionWorker is the only goroutine touching the presence store.
// Each command is handled then its effects are applied before the next one
// is read, which keeps the effects of two commands from interleaving.
type SessionWorker struct {
	log         *slog.Logger
	commands    <-chan domain.Command
	coordinator contract.ICoordinator
	gateway     contract.IGateway
	monitoring  *observability.MonitoringManager
}

func NewSessionWorker(
	log *slog.Logger,
	commands <-chan domain.Command,
	coordinator contract.ICoordinator,
	gateway contract.IGateway,
	monitoring *observability.MonitoringManager) *SessionWorker {
	return &SessionWorker{
		log:         log,
		commands:    commands,
		coordinator: coordinator,
		gateway:     gateway,
		monitoring:  monitoring,
	}
}

func (w *SessionWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping session worker")
			return nil
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Command channel is closed")
				return nil
			}
			effects := w.coordinator.Handle(cmd)
			w.gateway.Apply(ctx, effects)
			w.monitoring.IncrCommandsHandled()
		}
	}
}

//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/observability"
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// IChatService is what a transport needs to drive the relay: one call per
// inbound event plus the connection lifecycle.
type IChatService interface {
	Connect(ctx context.Context, sink contract.EventSink) (domain.ConnectionID, error)
	EnterRoom(ctx context.Context, id domain.ConnectionID, name, room string) error
	PostMessage(ctx context.Context, id domain.ConnectionID, name, text string) error
	Activity(ctx context.Context, id domain.ConnectionID, name string) error
	LeaveRoom(ctx context.Context, id domain.ConnectionID) error
	Disconnect(ctx context.Context, id domain.ConnectionID) error
}

const disconnectRetryInterval = 50 * time.Millisecond

type ChatService struct {
	log           *slog.Logger
	orchestrator  contract.IOrchestrator
	monitoring    *observability.MonitoringManager
	retryInterval time.Duration
}

func NewChatService(log *slog.Logger, o contract.IOrchestrator, monitoring *observability.MonitoringManager) *ChatService {
	return &ChatService{log: log, orchestrator: o, monitoring: monitoring, retryInterval: disconnectRetryInterval}
}

// Connect allocates a connection id, binds sink to it and queues the
// welcome. The sink must be ready to receive before Connect is called.
func (s *ChatService) Connect(ctx context.Context, sink contract.EventSink) (domain.ConnectionID, error) {
	id := domain.ConnectionID(uuid.NewString())
	s.orchestrator.Register(id, sink)
	s.monitoring.IncrConnectionsOpened()
	s.log.Info("User connected", "connection_id", id)
	return id, s.orchestrator.Dispatch(ctx, domain.ConnectCommand{ID: id})
}

func (s *ChatService) EnterRoom(ctx context.Context, id domain.ConnectionID, name, room string) error {
	return s.orchestrator.Dispatch(ctx, domain.EnterRoomCommand{ID: id, Name: name, Room: room})
}

func (s *ChatService) PostMessage(ctx context.Context, id domain.ConnectionID, name, text string) error {
	return s.orchestrator.Dispatch(ctx, domain.PostMessageCommand{ID: id, Name: name, Text: text})
}

func (s *ChatService) Activity(ctx context.Context, id domain.ConnectionID, name string) error {
	return s.orchestrator.Dispatch(ctx, domain.ActivityCommand{ID: id, Name: name})
}

func (s *ChatService) LeaveRoom(ctx context.Context, id domain.ConnectionID) error {
	return s.orchestrator.Dispatch(ctx, domain.LeaveRoomCommand{ID: id})
}

// Disconnect must be called exactly once per connection, after its reader
// has stopped. A rejected dispatch is retried until ctx is done or the relay
// stops: a lost disconnect would leave the identity in the roster.
func (s *ChatService) Disconnect(ctx context.Context, id domain.ConnectionID) error {
	s.monitoring.IncrConnectionsClosed()
	s.log.Info("User disconnected", "connection_id", id)

	cmd := domain.DisconnectCommand{ID: id}
	for attempt := 1; ; attempt++ {
		err := s.orchestrator.Dispatch(ctx, cmd)
		if err == nil || ctx.Err() != nil || stderrors.Is(err, errors.ErrRelayStopped) {
			return err
		}
		s.log.Warn("Disconnect not dispatched, retrying", "connection_id", id, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryInterval):
		}
	}
}

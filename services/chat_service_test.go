package services

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/observability"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T) (*ChatService, *mocks.MockIOrchestrator, *observability.MonitoringManager) {
	ctrl := gomock.NewController(t)
	log := slog.New(slog.DiscardHandler)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)
	monitoring := observability.NewMonitoringManager(log, time.Second)
	return NewChatService(log, orchestrator, monitoring), orchestrator, monitoring
}

func TestChatService_Connect_Registers_Before_Dispatching(t *testing.T) {
	req := require.New(t)
	service, orchestrator, monitoring := newTestService(t)
	ctx := context.Background()
	sink := mocks.NewMockEventSink(gomock.NewController(t))

	var registered domain.ConnectionID
	gomock.InOrder(
		orchestrator.EXPECT().Register(gomock.Any(), sink).
			Do(func(id domain.ConnectionID, _ any) { registered = id }),
		orchestrator.EXPECT().Dispatch(ctx, gomock.AssignableToTypeOf(domain.ConnectCommand{})).
			DoAndReturn(func(_ context.Context, cmd domain.Command) error {
				req.Equal(registered, cmd.ConnectionID())
				return nil
			}),
	)

	id, err := service.Connect(ctx, sink)

	req.NoError(err)
	req.Equal(registered, id)
	_, parseErr := uuid.Parse(string(id))
	req.NoError(parseErr)
	req.Equal(uint64(1), monitoring.GetLatest().ConnectionsOpened)
}

func TestChatService_Forwards_Commands(t *testing.T) {
	req := require.New(t)
	service, orchestrator, monitoring := newTestService(t)
	ctx := context.Background()
	id := domain.ConnectionID("conn-1")

	gomock.InOrder(
		orchestrator.EXPECT().Dispatch(ctx, domain.EnterRoomCommand{ID: id, Name: "Alice", Room: "general"}),
		orchestrator.EXPECT().Dispatch(ctx, domain.PostMessageCommand{ID: id, Name: "Alice", Text: "hi"}),
		orchestrator.EXPECT().Dispatch(ctx, domain.ActivityCommand{ID: id, Name: "Alice"}),
		orchestrator.EXPECT().Dispatch(ctx, domain.LeaveRoomCommand{ID: id}),
		orchestrator.EXPECT().Dispatch(ctx, domain.DisconnectCommand{ID: id}),
	)

	req.NoError(service.EnterRoom(ctx, id, "Alice", "general"))
	req.NoError(service.PostMessage(ctx, id, "Alice", "hi"))
	req.NoError(service.Activity(ctx, id, "Alice"))
	req.NoError(service.LeaveRoom(ctx, id))
	req.NoError(service.Disconnect(ctx, id))
	req.Equal(uint64(1), monitoring.GetLatest().ConnectionsClosed)
}

func TestChatService_Returns_Dispatch_Error(t *testing.T) {
	req := require.New(t)
	service, orchestrator, _ := newTestService(t)
	ctx := context.Background()

	orchestrator.EXPECT().
		Dispatch(ctx, gomock.Any()).
		Return(context.Canceled)

	err := service.PostMessage(ctx, "conn-1", "Alice", "hi")
	req.ErrorIs(err, context.Canceled)
}

func TestChatService_Disconnect_Retries_Until_Dispatched(t *testing.T) {
	req := require.New(t)
	service, orchestrator, _ := newTestService(t)
	service.retryInterval = time.Millisecond
	ctx := context.Background()
	cmd := domain.DisconnectCommand{ID: "conn-1"}

	// Given a queue refusing the first disconnect
	gomock.InOrder(
		orchestrator.EXPECT().Dispatch(ctx, cmd).Return(context.DeadlineExceeded),
		orchestrator.EXPECT().Dispatch(ctx, cmd).Return(nil),
	)

	// When the connection goes away
	err := service.Disconnect(ctx, "conn-1")

	// Then the disconnect is dispatched again
	req.NoError(err)
}

func TestChatService_Disconnect_Stops_With_The_Relay(t *testing.T) {
	req := require.New(t)
	service, orchestrator, _ := newTestService(t)
	ctx := context.Background()

	orchestrator.EXPECT().
		Dispatch(ctx, domain.DisconnectCommand{ID: "conn-1"}).
		Return(errors.ErrRelayStopped).
		Times(1)

	err := service.Disconnect(ctx, "conn-1")
	req.ErrorIs(err, errors.ErrRelayStopped)
}

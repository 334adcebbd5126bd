package workers

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/mocks"
	"chat-relay/observability"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSessionWorker_Applies_Effects_In_Command_Order(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	monitoring := observability.NewMonitoringManager(log, time.Second)
	coordinator := mocks.NewMockICoordinator(ctrl)
	gateway := mocks.NewMockIGateway(ctrl)
	commands := make(chan domain.Command, 2)

	first := domain.ConnectCommand{ID: "a"}
	second := domain.DisconnectCommand{ID: "a"}
	firstEffects := []event.Effect{event.Emit{Target: event.ToConnection("a"), Event: event.ActivityNotified{User: "x"}}}
	secondEffects := []event.Effect{event.Release{ID: "a"}}

	// Given two commands handled one after the other
	gomock.InOrder(
		coordinator.EXPECT().Handle(first).Return(firstEffects),
		gateway.EXPECT().Apply(gomock.Any(), firstEffects),
		coordinator.EXPECT().Handle(second).Return(secondEffects),
		gateway.EXPECT().Apply(gomock.Any(), secondEffects),
	)
	commands <- first
	commands <- second
	close(commands)

	worker := NewSessionWorker(log, commands, coordinator, gateway, monitoring)

	// When the channel is drained and closed
	err := worker.Run(context.Background())

	// Then the worker ends cleanly after handling both commands
	req.NoError(err)
	req.Equal(uint64(2), monitoring.GetLatest().CommandsHandled)
}

func TestSessionWorker_Stops_On_Context_Done(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	worker := NewSessionWorker(log, make(chan domain.Command),
		mocks.NewMockICoordinator(ctrl), mocks.NewMockIGateway(ctrl), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req.NoError(worker.Run(ctx))
}

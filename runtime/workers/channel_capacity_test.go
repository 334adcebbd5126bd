package workers

import (
	"chat-relay/domain"
	"chat-relay/observability"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChannelCapacityWorker_Samples_Channels(t *testing.T) {
	req := require.New(t)
	log := slog.New(slog.DiscardHandler)
	monitoring := observability.NewMonitoringManager(log, time.Second)

	// Given a channel holding two commands out of four
	commands := make(chan domain.Command, 4)
	commands <- domain.ConnectCommand{ID: "a"}
	commands <- domain.ConnectCommand{ID: "b"}

	worker := NewChannelCapacityWorker(log, []NamedChannel{
		{Name: "commands", Channel: commands},
		{Name: "not a channel", Channel: 42},
	}, monitoring, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// Then the fill level shows in the stats
	req.Eventually(func() bool {
		_, ok := monitoring.GetLatest().Queues["commands"]
		return ok
	}, time.Second, 10*time.Millisecond)
	req.Equal(observability.QueueStats{Length: 2, Capacity: 4}, monitoring.GetLatest().Queues["commands"])
	req.NotContains(monitoring.GetLatest().Queues, "not a channel")

	cancel()
	req.NoError(<-done)
}

package observability

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestMonitoringManager_Counters_And_Providers(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager(logs.GetLoggerFromLevel(slog.LevelDebug), time.Second).
		WithProviders(
			func() (int, []string) { return 2, []string{"general"} },
			func() int { return 3 },
		)

	mm.IncrConnectionsOpened()
	mm.IncrConnectionsOpened()
	mm.IncrConnectionsClosed()
	mm.IncrCommandsHandled()
	mm.IncrEventsDelivered()
	mm.IncrEventsDelivered()
	mm.IncrEventsDropped()

	stats := mm.GetLatest()
	req.Equal(uint64(2), stats.ConnectionsOpened)
	req.Equal(uint64(1), stats.ConnectionsClosed)
	req.Equal(uint64(1), stats.CommandsHandled)
	req.Equal(uint64(2), stats.EventsDelivered)
	req.Equal(uint64(1), stats.EventsDropped)
	req.Equal(2, stats.Participants)
	req.Equal([]string{"general"}, stats.Rooms)
	req.Equal(3, stats.Connections)
}

func TestMonitoringManager_Nil_Is_Noop(t *testing.T) {
	var mm *MonitoringManager

	require.NotPanics(t, func() {
		mm.IncrConnectionsOpened()
		mm.IncrConnectionsClosed()
		mm.IncrCommandsHandled()
		mm.IncrEventsDelivered()
		mm.IncrEventsDropped()
	})
}

func TestMonitoringManager_Run_Refreshes_System_Metrics(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager(logs.GetLoggerFromLevel(slog.LevelDebug), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- mm.Run(ctx) }()

	req.Eventually(func() bool {
		return mm.GetLatest().RefreshedAt != ""
	}, time.Second, 10*time.Millisecond)

	cancel()
	req.NoError(<-done)
	req.Positive(mm.GetLatest().Goroutines)
	req.Equal([]string{}, mm.GetLatest().Rooms)
}

package observability

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// MonitoringStats aggregates the relay metrics served on /stats.
type MonitoringStats struct {
	// --- RELAY METRICS ---
	Connections       int      `json:"connections"`
	Participants      int      `json:"participants"`
	Rooms             []string `json:"rooms"`
	ConnectionsOpened uint64   `json:"connections_opened"`
	ConnectionsClosed uint64   `json:"connections_closed"`
	CommandsHandled   uint64   `json:"commands_handled"`
	EventsDelivered   uint64   `json:"events_delivered"`
	EventsDropped     uint64   `json:"events_dropped"`

	Queues map[string]QueueStats `json:"queues"`

	// --- SYSTEM METRICS ---
	AllocMemMb  uint64  `json:"alloc_mem_mb"`
	NumGC       uint32  `json:"num_gc"`
	Goroutines  int     `json:"goroutines"`
	RssMb       uint64  `json:"rss_mb"`
	CPUPercent  float64 `json:"cpu_percent"`
	UptimeSec   int64   `json:"uptime_sec"`
	RefreshedAt string  `json:"refreshed_at"`
}

// QueueStats is the last sampled fill level of a channel.
type QueueStats struct {
	Length   int `json:"length"`
	Capacity int `json:"capacity"`
}

// PresenceProvider reports the live participants and rooms.
type PresenceProvider func() (participants int, rooms []string)

// ConnectionProvider reports the number of open connections.
type ConnectionProvider func() int

// MonitoringManager collects relay counters and refreshes process metrics.
// Counters are safe for concurrent use; a nil manager ignores every call.
type MonitoringManager struct {
	log             *slog.Logger
	mu              sync.RWMutex
	latestStats     MonitoringStats
	startedAt       time.Time
	refreshInterval time.Duration
	presence        PresenceProvider
	connections     ConnectionProvider
	queues          map[string]QueueStats

	connectionsOpened atomic.Uint64
	connectionsClosed atomic.Uint64
	commandsHandled   atomic.Uint64
	eventsDelivered   atomic.Uint64
	eventsDropped     atomic.Uint64
}

func NewMonitoringManager(log *slog.Logger, refreshInterval time.Duration) *MonitoringManager {
	if refreshInterval <= 0 {
		refreshInterval = 5 * time.Second
	}
	return &MonitoringManager{
		log:             log,
		startedAt:       time.Now(),
		refreshInterval: refreshInterval,
		latestStats:     MonitoringStats{Rooms: []string{}},
		queues:          make(map[string]QueueStats),
	}
}

// WithProviders plugs the live presence and connection views.
func (mm *MonitoringManager) WithProviders(presence PresenceProvider, connections ConnectionProvider) *MonitoringManager {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.presence = presence
	mm.connections = connections
	return mm
}

func (mm *MonitoringManager) IncrConnectionsOpened() {
	if mm != nil {
		mm.connectionsOpened.Add(1)
	}
}

func (mm *MonitoringManager) IncrConnectionsClosed() {
	if mm != nil {
		mm.connectionsClosed.Add(1)
	}
}

func (mm *MonitoringManager) IncrCommandsHandled() {
	if mm != nil {
		mm.commandsHandled.Add(1)
	}
}

func (mm *MonitoringManager) IncrEventsDelivered() {
	if mm != nil {
		mm.eventsDelivered.Add(1)
	}
}

func (mm *MonitoringManager) IncrEventsDropped() {
	if mm != nil {
		mm.eventsDropped.Add(1)
	}
}

// RecordQueue keeps the last fill level sampled for a named channel.
func (mm *MonitoringManager) RecordQueue(name string, length, capacity int) {
	if mm == nil {
		return
	}
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.queues[name] = QueueStats{Length: length, Capacity: capacity}
}

// Run refreshes the process metrics until ctx is done.
func (mm *MonitoringManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(mm.refreshInterval)
	defer ticker.Stop()

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		mm.log.Warn("Process metrics unavailable", "error", err)
	}
	mm.refresh(proc)

	for {
		select {
		case <-ctx.Done():
			mm.log.Debug("Context done, stopping monitoring")
			return nil
		case <-ticker.C:
			mm.refresh(proc)
		}
	}
}

func (mm *MonitoringManager) refresh(proc *process.Process) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var rssMb uint64
	var cpu float64
	if proc != nil {
		if info, err := proc.MemoryInfo(); err == nil {
			rssMb = info.RSS / 1024 / 1024
		}
		if percent, err := proc.CPUPercent(); err == nil {
			cpu = percent
		}
	}

	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.latestStats.AllocMemMb = m.Alloc / 1024 / 1024
	mm.latestStats.NumGC = m.NumGC
	mm.latestStats.Goroutines = runtime.NumGoroutine()
	mm.latestStats.RssMb = rssMb
	mm.latestStats.CPUPercent = cpu
	mm.latestStats.RefreshedAt = time.Now().UTC().Format(time.RFC3339)

	mm.log.Debug("Stats refreshed",
		"mem_mb", mm.latestStats.AllocMemMb,
		"rss_mb", rssMb,
		"goroutines", mm.latestStats.Goroutines)
}

// GetLatest merges the live counters into the last system snapshot.
func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	stats := mm.latestStats
	presence, connections := mm.presence, mm.connections
	stats.Queues = maps.Clone(mm.queues)
	mm.mu.RUnlock()

	stats.ConnectionsOpened = mm.connectionsOpened.Load()
	stats.ConnectionsClosed = mm.connectionsClosed.Load()
	stats.CommandsHandled = mm.commandsHandled.Load()
	stats.EventsDelivered = mm.eventsDelivered.Load()
	stats.EventsDropped = mm.eventsDropped.Load()
	stats.UptimeSec = int64(time.Since(mm.startedAt).Seconds())
	stats.Rooms = []string{}
	if presence != nil {
		stats.Participants, stats.Rooms = presence()
	}
	if connections != nil {
		stats.Connections = connections()
	}
	return stats
}

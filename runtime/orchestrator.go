// Package runtime wires the relay: it routes connection commands to the
// session worker and turns the resulting effects into deliveries.
// It holds no protocol rule itself, those live in the Coordinator.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var _ contract.IOrchestrator = (*Orchestrator)(nil)

type Orchestrator struct {
	mu          sync.Mutex
	log         *slog.Logger
	supervisor  contract.ISupervisor
	registry    contract.IRegistry
	coordinator contract.ICoordinator
	gateway     contract.IGateway
	monitoring  *observability.MonitoringManager
	commands    chan domain.Command
	background  []contract.Worker
	stopped     chan struct{}
	stopOnce    sync.Once

	// zero disables the sampling of the command queue
	metricInterval time.Duration
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, coordinator contract.ICoordinator, gateway contract.IGateway,
	monitoring *observability.MonitoringManager, bufferSize int) *Orchestrator {
	return &Orchestrator{
		log:         log,
		supervisor:  supervisor,
		registry:    registry,
		coordinator: coordinator,
		gateway:     gateway,
		monitoring:  monitoring,
		commands:    make(chan domain.Command, bufferSize),
		stopped:     make(chan struct{}),
	}
}

// Add registers extra workers started alongside the session worker.
func (o *Orchestrator) Add(worker ...contract.Worker) *Orchestrator {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.background = append(o.background, worker...)
	return o
}

// SampleQueues reports the command queue fill level every interval.
func (o *Orchestrator) SampleQueues(interval time.Duration) *Orchestrator {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.metricInterval = interval
	return o
}

// Register binds a new connection to its sink. It must happen before the
// first command of that connection is dispatched.
func (o *Orchestrator) Register(id domain.ConnectionID, sink contract.EventSink) {
	o.registry.Register(id, sink)
	o.log.Debug("Connection registered", "connection_id", id)
}

// Dispatch enqueues a command for the session worker.
// Commands of one caller keep their order. Dispatch blocks while the queue
// is full. It gives up with the context error once ctx is done, or with
// ErrRelayStopped once the relay has stopped.
func (o *Orchestrator) Dispatch(ctx context.Context, cmd domain.Command) error {
	select {
	case o.commands <- cmd:
		return nil
	case <-o.stopped:
		o.log.Debug("Command not dispatched, relay stopped", "connection_id", cmd.ConnectionID(),
			"type", fmt.Sprintf("%T", cmd))
		return errors.ErrRelayStopped
	case <-ctx.Done():
		o.log.Warn("Command not dispatched", "connection_id", cmd.ConnectionID(),
			"type", fmt.Sprintf("%T", cmd), "error", ctx.Err())
		return ctx.Err()
	}
}

// Start runs the session worker and the background workers under the
// supervisor. It blocks until the context is done or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) error {
	defer o.markStopped()
	session := workers.NewSessionWorker(o.log, o.commands, o.coordinator, o.gateway, o.monitoring)

	o.mu.Lock()
	o.supervisor.Add(session)
	o.supervisor.Add(o.background...)
	if o.metricInterval > 0 {
		o.supervisor.Add(workers.NewChannelCapacityWorker(o.log,
			[]workers.NamedChannel{{Name: "commands", Channel: o.commands}},
			o.monitoring, o.metricInterval))
	}
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

// Stop initiates a graceful shutdown of the supervised workers.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.markStopped()
	o.supervisor.Stop()
}

func (o *Orchestrator) markStopped() {
	o.stopOnce.Do(func() { close(o.stopped) })
}

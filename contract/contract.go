//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives the events addressed to one connection.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// IRegistry tracks broadcast groups: which sink serves a connection and
// which connections belong to a room.
type IRegistry interface {
	Register(id domain.ConnectionID, sink EventSink)
	Release(id domain.ConnectionID)
	Join(id domain.ConnectionID, room string)
	Leave(id domain.ConnectionID, room string)
	SinkFor(id domain.ConnectionID) (EventSink, bool)
	SinksForRoom(room string, except domain.ConnectionID) []EventSink
	AllSinks() []EventSink
}

// IGateway executes the effects computed by the session coordinator.
type IGateway interface {
	Apply(ctx context.Context, effects []event.Effect)
}

// ICoordinator is the protocol state machine.
type ICoordinator interface {
	Handle(cmd domain.Command) []event.Effect
}

type IOrchestrator interface {
	Register(id domain.ConnectionID, sink EventSink)
	Dispatch(ctx context.Context, cmd domain.Command) error
	Start(ctx context.Context) error
	Stop()
}

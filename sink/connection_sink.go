package sink

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	"sync"
)

var _ contract.EventSink = (*ConnectionSink)(nil)

// ConnectionSink buffers the events of one connection until its writer
// takes them. The gateway calls Consume, the transport drains Events.
type ConnectionSink struct {
	events    chan event.Event
	closed    chan struct{}
	closeOnce sync.Once
}

func NewConnectionSink(bufferSize int) *ConnectionSink {
	return &ConnectionSink{
		events: make(chan event.Event, bufferSize),
		closed: make(chan struct{}),
	}
}

// Consume never waits: when the buffer is full the event is dropped and
// ErrSinkFull returned, so a client that stops reading can't stall the
// session worker. A closed sink rejects every event.
func (s *ConnectionSink) Consume(ctx context.Context, e event.Event) error {
	select {
	case <-s.closed:
		return errors.ErrSinkClosed
	default:
	}

	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.ErrSinkFull
	}
}

// Events is drained by the connection writer.
func (s *ConnectionSink) Events() <-chan event.Event {
	return s.events
}

// Done is closed once the sink is closed.
func (s *ConnectionSink) Done() <-chan struct{} {
	return s.closed
}

// Close is idempotent. Events still buffered are left to the writer.
func (s *ConnectionSink) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

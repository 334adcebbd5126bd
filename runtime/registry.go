package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"sync"
)

type Set map[domain.ConnectionID]struct{}

// Registry holds the broadcast groups of the gateway.
type Registry struct {
	mu          sync.RWMutex
	Sessions    map[domain.ConnectionID]contract.EventSink // map connection -> Sink
	RoomMembers map[string]Set                             // map room to connections
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:    make(map[domain.ConnectionID]contract.EventSink),
		RoomMembers: make(map[string]Set),
	}
}

// Register binds a connection to the sink delivering its events.
func (r *Registry) Register(id domain.ConnectionID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sessions[id] = sink
}

// Release forgets a connection and removes it from every group.
// Groups left empty are deleted to prevent leaks over time.
func (r *Registry) Release(id domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, id)
	for room, members := range r.RoomMembers {
		delete(members, id)
		if len(members) == 0 {
			delete(r.RoomMembers, room)
		}
	}
}

// Join adds a registered connection to the group of room.
// Unknown connections are ignored: they were released already.
func (r *Registry) Join(id domain.ConnectionID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Sessions[id]; !ok {
		return
	}
	if _, ok := r.RoomMembers[room]; !ok {
		r.RoomMembers[room] = make(Set)
	}
	r.RoomMembers[room][id] = struct{}{}
}

func (r *Registry) Leave(id domain.ConnectionID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.RoomMembers[room]; ok {
		delete(members, id)
		// If no one is left in the room, remove the room entry entirely
		if len(members) == 0 {
			delete(r.RoomMembers, room)
		}
	}
}

func (r *Registry) SinkFor(id domain.ConnectionID) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.Sessions[id]
	return sink, ok
}

// SinksForRoom resolves the members of a room into their sinks, skipping
// except. Returns nil if the room has no members.
func (r *Registry) SinksForRoom(room string, except domain.ConnectionID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.RoomMembers[room]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for id := range members {
		if id == except {
			continue
		}
		if sink, exists := r.Sessions[id]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

func (r *Registry) AllSinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks := make([]contract.EventSink, 0, len(r.Sessions))
	for _, sink := range r.Sessions {
		sinks = append(sinks, sink)
	}
	return sinks
}

// Counts returns the number of registered connections and non-empty groups.
func (r *Registry) Counts() (connections, groups int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Sessions), len(r.RoomMembers)
}

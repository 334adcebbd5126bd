//go:generate go run go.uber.org/mock/mockgen -source=presence.go -destination=../mocks/mock_presence_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain"
	"slices"
	"sync"
)

// IPresenceRepository holds the identities of every joined connection.
// There is no insert or delete: callers compose filter+append and replace the
// whole collection, so a snapshot is never half updated.
type IPresenceRepository interface {
	SetAll(identities []domain.Identity)
	All() []domain.Identity
}

type PresenceRepository struct {
	mu         sync.RWMutex
	identities []domain.Identity
}

func NewPresenceRepository() *PresenceRepository {
	return &PresenceRepository{identities: []domain.Identity{}}
}

// SetAll atomically replaces the stored identities with a copy of the input.
func (r *PresenceRepository) SetAll(identities []domain.Identity) {
	next := slices.Clone(identities)
	if next == nil {
		next = []domain.Identity{}
	}
	r.mu.Lock()
	r.identities = next
	r.mu.Unlock()
}

// All returns a snapshot the caller may keep or modify.
func (r *PresenceRepository) All() []domain.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.identities)
}

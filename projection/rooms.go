// Package projection derives room views from a presence snapshot.
// Every function is pure: the same snapshot always yields the same view.
// Rooms are never stored, they exist while an identity references them.
package projection

import (
	"chat-relay/domain"

	"github.com/samber/lo"
)

// MembersOf returns the identities of room in snapshot order.
func MembersOf(identities []domain.Identity, room string) []domain.Identity {
	members := lo.Filter(identities, func(item domain.Identity, _ int) bool {
		return item.InRoom(room)
	})
	if members == nil {
		return []domain.Identity{}
	}
	return members
}

// ActiveRooms returns the distinct rooms in first-seen order.
func ActiveRooms(identities []domain.Identity) []string {
	rooms := lo.Uniq(lo.Map(identities, func(item domain.Identity, _ int) string {
		return item.Room
	}))
	if rooms == nil {
		return []string{}
	}
	return rooms
}

func FindIdentity(identities []domain.Identity, id domain.ConnectionID) (domain.Identity, bool) {
	return lo.Find(identities, func(item domain.Identity) bool {
		return item.ID == id
	})
}

// Without returns the snapshot minus the identity of id.
func Without(identities []domain.Identity, id domain.ConnectionID) []domain.Identity {
	rest := lo.Reject(identities, func(item domain.Identity, _ int) bool {
		return item.ID == id
	})
	if rest == nil {
		return []domain.Identity{}
	}
	return rest
}

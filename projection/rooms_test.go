package projection

import (
	"chat-relay/domain"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var (
	alice = domain.Identity{ID: "x", Name: "Alice", Room: "general"}
	bob   = domain.Identity{ID: "y", Name: "Bob", Room: "general"}
	carol = domain.Identity{ID: "z", Name: "Carol", Room: "support"}
)

func TestMembersOf_Keeps_Snapshot_Order(t *testing.T) {
	req := require.New(t)
	snapshot := []domain.Identity{bob, carol, alice}

	req.Equal([]domain.Identity{bob, alice}, MembersOf(snapshot, "general"))
	req.Equal([]domain.Identity{carol}, MembersOf(snapshot, "support"))
}

func TestMembersOf_Unknown_Room_Is_Empty_Not_Nil(t *testing.T) {
	req := require.New(t)

	members := MembersOf([]domain.Identity{alice}, "random")

	req.NotNil(members)
	req.Empty(members)
	req.NotNil(MembersOf(nil, "general"))
}

func TestActiveRooms_Distinct_First_Seen(t *testing.T) {
	req := require.New(t)

	req.Equal([]string{"general", "support"}, ActiveRooms([]domain.Identity{alice, carol, bob}))
	req.Equal([]string{"support", "general"}, ActiveRooms([]domain.Identity{carol, alice, bob}))
	req.Equal([]string{}, ActiveRooms(nil))
}

// Derivations must agree with a plain filter of the snapshot.
func TestDerivations_Match_Snapshot(t *testing.T) {
	req := require.New(t)
	snapshots := [][]domain.Identity{
		{},
		{alice},
		{alice, bob},
		{carol, alice, bob},
		{{ID: "e", Name: "", Room: ""}, alice},
	}

	for _, snapshot := range snapshots {
		rooms := ActiveRooms(snapshot)
		req.ElementsMatch(lo.Uniq(lo.Map(snapshot, func(i domain.Identity, _ int) string { return i.Room })), rooms)
		for _, room := range rooms {
			for _, member := range MembersOf(snapshot, room) {
				req.Equal(room, member.Room)
			}
			req.Len(MembersOf(snapshot, room), lo.CountBy(snapshot, func(i domain.Identity) bool { return i.Room == room }))
		}
	}
}

func TestFindIdentity(t *testing.T) {
	req := require.New(t)
	snapshot := []domain.Identity{alice, carol}

	found, ok := FindIdentity(snapshot, "z")
	req.True(ok)
	req.Equal(carol, found)

	_, ok = FindIdentity(snapshot, "unknown")
	req.False(ok)
}

func TestWithout(t *testing.T) {
	req := require.New(t)

	req.Equal([]domain.Identity{alice, bob}, Without([]domain.Identity{alice, carol, bob}, "z"))
	req.Equal([]domain.Identity{}, Without([]domain.Identity{carol}, "z"))
	req.Equal([]domain.Identity{alice}, Without([]domain.Identity{alice}, "unknown"))
}

package world

import (
	"testing"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartyJoinCap(t *testing.T) {
	m := NewPartyManager()
	p := m.Create("leader")
	require.NotNil(t, p)

	assert.Nil(t, m.Create("leader"), "one party per agent")

	assert.True(t, m.Join(p, "m1"))
	assert.True(t, m.Join(p, "m2"))
	assert.True(t, m.Join(p, "m3"))
	assert.Len(t, p.Members, data.MaxPartySize)
	assert.False(t, m.Join(p, "m4"))

	assert.False(t, m.Join(p, "m1"), "member of another party cannot rejoin")
	assert.Same(t, p, m.Of("m2"))
}

func TestPartyLeaveTransfersLeadership(t *testing.T) {
	m := NewPartyManager()
	p := m.Create("leader")
	m.Join(p, "m1")
	m.Join(p, "m2")

	out := m.Leave("leader")
	require.Same(t, p, out)
	assert.Equal(t, "m1", p.Leader)
	assert.Nil(t, m.Of("leader"))

	m.Leave("m1")
	assert.Nil(t, m.Leave("m2"), "emptied party is deleted")
	assert.Zero(t, m.Count())
	assert.Nil(t, m.Get(p.ID))
}

func TestPartyInviteExpiry(t *testing.T) {
	m := NewPartyManager()
	p := m.Create("leader")
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	m.Invite(p, "guest", now)
	assert.True(t, m.InviteValid(p, "guest", now.Add(data.PartyInviteSec*time.Second)))

	assert.False(t, m.InviteValid(p, "guest", now.Add((data.PartyInviteSec+1)*time.Second)))
	_, still := p.Invites["guest"]
	assert.False(t, still, "stale invite is pruned on read")
}

func TestPartyRestoreRebuildsIndex(t *testing.T) {
	m := NewPartyManager()
	p := &Party{
		ID:      "p1",
		Leader:  "a",
		Members: []string{"a", "b"},
		Invites: map[string]time.Time{},
		Status:  PartyForming,
	}
	m.Restore(p)

	assert.Same(t, p, m.Of("b"))
	assert.Equal(t, 1, m.Count())
}

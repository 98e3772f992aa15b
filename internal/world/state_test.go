package world

import (
	"testing"

	"github.com/reefgo/server/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	catalog, err := data.LoadCatalog()
	require.NoError(t, err)
	return NewState(catalog)
}

func TestCreateAgentIndexes(t *testing.T) {
	s := newTestState(t)
	a := s.CreateAgent("0xabc", "Brine", "hash1")

	assert.Same(t, a, s.Agent(a.ID))
	assert.Same(t, a, s.AgentByName("brine"))
	assert.Same(t, a, s.AgentByKeyHash("hash1"))
	assert.Equal(t, data.StartZone, a.Location)
	assert.Equal(t, data.StartShells, a.Shells)
	assert.True(t, a.IsAlive)
}

func TestInventorySlotCap(t *testing.T) {
	s := newTestState(t)
	a := s.CreateAgent("0xabc", "Brine", "hash1")
	a.InventorySlots = 5

	assert.Equal(t, 3, s.AddToInventory(a, "kelp_fiber", 3))
	assert.Equal(t, 2, s.AddToInventory(a, "coral_shards", 4), "overflow truncates to free slots")
	assert.Equal(t, 0, s.AddToInventory(a, "moonstone", 1))

	assert.False(t, s.RemoveFromInventory(a.ID, "kelp_fiber", 4))
	assert.True(t, s.RemoveFromInventory(a.ID, "kelp_fiber", 3))
	assert.Zero(t, s.InventoryOf(a.ID)["kelp_fiber"])
}

func TestAdvanceTickRegeneratesNodes(t *testing.T) {
	s := newTestState(t)
	node := s.ZoneResource("shallows", "kelp_fiber")
	node.Current = node.Max - 5

	tick := s.AdvanceTick()
	assert.Equal(t, int64(1), tick)
	assert.Equal(t, node.Max-5+node.RespawnRate, node.Current)

	node.Current = node.Max
	s.AdvanceTick()
	assert.Equal(t, node.Max, node.Current, "regen never overfills")
}

func TestEventsSinceSupportsIncrementalFlush(t *testing.T) {
	s := newTestState(t)
	s.LogEvent("one", "first", "")
	s.LogEvent("two", "second", "")

	all := s.EventsSince(0)
	require.Len(t, all, 2)
	assert.Empty(t, s.EventsSince(2))

	s.LogEvent("three", "third", "")
	rest := s.EventsSince(2)
	require.Len(t, rest, 1)
	assert.Equal(t, "three", rest[0].Type)
	assert.Equal(t, 3, s.EventCount())
}

func TestMessagesForFiltersAudience(t *testing.T) {
	s := newTestState(t)
	s.AddMessage(Message{From: "x", To: "a", Type: "dm", Body: "psst"})
	s.AddMessage(Message{From: "y", Zone: "shallows", Type: "broadcast", Body: "hello reef"})
	s.AddMessage(Message{From: "y", Zone: "deep_trench", Type: "broadcast", Body: "down here"})

	msgs := s.MessagesFor("a", "shallows", 10)
	require.Len(t, msgs, 2)
	msgs = s.MessagesFor("b", "deep_trench", 10)
	require.Len(t, msgs, 1)
	assert.Equal(t, "down here", msgs[0].Body)
}

func TestAgentsInZoneSkipsDead(t *testing.T) {
	s := newTestState(t)
	a := s.CreateAgent("0x1", "Brine", "h1")
	b := s.CreateAgent("0x2", "Coil", "h2")
	b.IsAlive = false
	_ = a

	assert.Len(t, s.AgentsInZone(data.StartZone), 1)
	assert.Equal(t, 1, s.AliveAgentCount())
	assert.Equal(t, 2, s.AgentCount())
}

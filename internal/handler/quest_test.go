package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestContractsAreRepeatable(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "shallows")
	a.Shells = 0
	s.AddToInventory(a, "kelp_fiber", 20)

	res := HandleQuest(e, a, &Command{Action: "quest", Target: "accept", Item: "kelp_courier"})
	require.True(t, res.Success)

	// Only one copy of a contract at a time.
	res = HandleQuest(e, a, &Command{Action: "quest", Target: "accept", Item: "kelp_courier"})
	assert.False(t, res.Success)

	res = HandleQuest(e, a, &Command{Action: "quest", Target: "complete", Item: "kelp_courier"})
	require.True(t, res.Success)
	assert.Equal(t, 50, a.Shells)
	assert.Equal(t, 10, s.InventoryOf(a.ID)["kelp_fiber"])

	// A fulfilled contract goes back on the board for the same agent.
	res = HandleQuest(e, a, &Command{Action: "quest", Target: "accept", Item: "kelp_courier"})
	require.True(t, res.Success)
	res = HandleQuest(e, a, &Command{Action: "quest", Target: "complete", Item: "kelp_courier"})
	require.True(t, res.Success)
	assert.Equal(t, 100, a.Shells)
	assert.Zero(t, s.InventoryOf(a.ID)["kelp_fiber"])
}

func TestQuestCompleteRequiresMaterials(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "shallows")

	res := HandleQuest(e, a, &Command{Action: "quest", Target: "accept", Item: "kelp_courier"})
	require.True(t, res.Success)

	res = HandleQuest(e, a, &Command{Action: "quest", Target: "complete", Item: "kelp_courier"})
	assert.False(t, res.Success)

	res = HandleQuest(e, a, &Command{Action: "quest", Target: "complete", Item: "no_such_quest"})
	assert.False(t, res.Success)

	// Never-accepted contracts cannot be turned in even with the goods.
	s.AddToInventory(a, "coral_shards", 5)
	res = HandleQuest(e, a, &Command{Action: "quest", Target: "complete", Item: "shard_tribute"})
	assert.False(t, res.Success)
}

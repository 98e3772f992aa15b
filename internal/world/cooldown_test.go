package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownExpiresLazily(t *testing.T) {
	b := NewCooldownBook()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	b.StartCooldown("a", CooldownRest, now, time.Minute)

	on, left := b.OnCooldown("a", CooldownRest, now.Add(30*time.Second))
	assert.True(t, on)
	assert.Equal(t, 30*time.Second, left)

	on, _ = b.OnCooldown("a", CooldownRest, now.Add(time.Minute))
	assert.False(t, on)
}

func TestDailyCounterResetsAtUTCMidnight(t *testing.T) {
	b := NewCooldownBook()
	evening := time.Date(2026, 3, 14, 23, 50, 0, 0, time.UTC)

	assert.Equal(t, 1, b.IncrDaily("a", CounterDungeon, evening))
	assert.Equal(t, 2, b.IncrDaily("a", CounterDungeon, evening.Add(time.Minute)))
	assert.Equal(t, 2, b.DailyCount("a", CounterDungeon, evening.Add(2*time.Minute)))

	// Five past midnight the counter is fresh.
	pastMidnight := time.Date(2026, 3, 15, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, 0, b.DailyCount("a", CounterDungeon, pastMidnight))
	assert.Equal(t, 1, b.IncrDaily("a", CounterDungeon, pastMidnight))
}

func TestDailyCounterLocalTimeDoesNotLeak(t *testing.T) {
	b := NewCooldownBook()
	offset := time.FixedZone("UTC+9", 9*3600)

	// 23:50 UTC expressed in another zone still resets at UTC midnight.
	evening := time.Date(2026, 3, 15, 8, 50, 0, 0, offset)
	b.IncrDaily("a", CounterDungeon, evening)

	sameUTCDay := time.Date(2026, 3, 15, 8, 55, 0, 0, offset)
	assert.Equal(t, 1, b.DailyCount("a", CounterDungeon, sameUTCDay))

	nextUTCDay := time.Date(2026, 3, 15, 9, 5, 0, 0, offset)
	assert.Equal(t, 0, b.DailyCount("a", CounterDungeon, nextUTCDay))
}

func TestCooldownSnapshotRoundTrip(t *testing.T) {
	b := NewCooldownBook()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	b.StartCooldown("a", CooldownRest, now, time.Hour)
	b.IncrDaily("a", CounterDungeon, now)
	b.IncrDaily("b", CounterMoveXP, now)

	snap := b.Snapshot()
	restored := NewCooldownBook()
	for agent, entries := range snap {
		restored.Restore(agent, entries)
	}

	on, _ := restored.OnCooldown("a", CooldownRest, now.Add(30*time.Minute))
	assert.True(t, on)
	assert.Equal(t, 1, restored.DailyCount("a", CounterDungeon, now))
	assert.Equal(t, 1, restored.DailyCount("b", CounterMoveXP, now))
}

package treasury

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mon(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad wei literal " + s)
	}
	return v
}

func TestShareHybridSplit(t *testing.T) {
	pool := mon("10000000000000000000") // 10 MON

	// Two slayers at 60/40 damage: 6000/2 + 4000×share basis points each.
	assert.Equal(t, mon("5400000000000000000"), Share(pool, 3000+2400))
	assert.Equal(t, mon("4600000000000000000"), Share(pool, 3000+1600))

	assert.Equal(t, pool, Share(pool, 10000))
	assert.Zero(t, Share(pool, 0).Sign())
}

func TestShareTruncatesDust(t *testing.T) {
	assert.Equal(t, big.NewInt(2), Share(big.NewInt(10), 2500))
	assert.Zero(t, Share(big.NewInt(3), 3333).Sign())
}

func TestEqualSplit(t *testing.T) {
	pool := mon("10000000000000000000")
	assert.Equal(t, mon("3333333333333333333"), EqualSplit(pool, 3))
	assert.Zero(t, EqualSplit(pool, 0).Sign())
}

func TestDevSeasonAndEntry(t *testing.T) {
	d := NewDev()
	info, err := d.SeasonInfo(context.Background())
	require.NoError(t, err)
	assert.True(t, info.Active)
	assert.Equal(t, mon("10000000000000000000"), info.PrizePoolWei)

	entered, err := d.HasEntered(context.Background(), "0xanyone")
	require.NoError(t, err)
	assert.True(t, entered)
}

func TestDevDistributeDrainsPool(t *testing.T) {
	d := NewDev()
	hashes, err := d.Distribute(context.Background(), KindLeviathan, []Payout{
		{Wallet: "0x1", AmountWei: mon("4000000000000000000")},
		{Wallet: "0x2", AmountWei: big.NewInt(0)},
		{Wallet: "0x3", AmountWei: mon("1000000000000000000")},
	})
	require.NoError(t, err)
	require.Len(t, hashes, 3)
	assert.Regexp(t, "^0x[0-9a-f]{64}$", hashes[0])
	assert.Empty(t, hashes[1], "zero payouts are skipped")
	assert.NotEqual(t, hashes[0], hashes[2])

	info, err := d.SeasonInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mon("5000000000000000000"), info.PrizePoolWei)
}

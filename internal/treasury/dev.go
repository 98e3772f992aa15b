package treasury

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strconv"
	"sync"
)

// Dev is the no-chain treasury used when DEV_MODE is set: everyone has
// entered, the pool is a fixed 10 MON, and payouts return deterministic
// pseudo hashes.
type Dev struct {
	mu   sync.Mutex
	seq  int
	pool *big.Int
}

func NewDev() *Dev {
	// 10 MON in wei
	pool, _ := new(big.Int).SetString("10000000000000000000", 10)
	return &Dev{pool: pool}
}

func (d *Dev) SeasonInfo(ctx context.Context) (*SeasonInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return &SeasonInfo{
		SeasonID:     1,
		Active:       true,
		EntryFeeWei:  big.NewInt(0),
		PrizePoolWei: new(big.Int).Set(d.pool),
	}, nil
}

func (d *Dev) HasEntered(ctx context.Context, wallet string) (bool, error) {
	return true, nil
}

func (d *Dev) Distribute(ctx context.Context, kind string, payouts []Payout) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	hashes := make([]string, len(payouts))
	for i, p := range payouts {
		if p.AmountWei == nil || p.AmountWei.Sign() <= 0 {
			continue
		}
		d.seq++
		sum := sha256.Sum256([]byte(kind + p.Wallet + p.AmountWei.String() + strconv.Itoa(d.seq)))
		hashes[i] = "0x" + hex.EncodeToString(sum[:])
		d.pool.Sub(d.pool, p.AmountWei)
		if d.pool.Sign() < 0 {
			d.pool.SetInt64(0)
		}
	}
	return hashes, nil
}

// Package treasury is the glue between the world engine and the on-chain
// season contract holding the MON prize pool. The engine only ever reads
// season state synchronously; payouts are fire-and-forget and reconciled
// through the transaction log.
package treasury

import (
	"context"
	"math/big"
)

// SeasonInfo mirrors the contract's season view.
type SeasonInfo struct {
	SeasonID     uint64   `json:"seasonId"`
	Active       bool     `json:"active"`
	EntryFeeWei  *big.Int `json:"entryFeeWei"`
	PrizePoolWei *big.Int `json:"prizePoolWei"`
}

// Payout is one recipient's share of a distribution.
type Payout struct {
	Wallet    string
	AmountWei *big.Int
}

// Distribution kinds recorded in transaction_logs.
const (
	KindLeviathan  = "leviathan"
	KindNull       = "null"
	KindTournament = "tournament"
)

// Client is the treasury surface the engine depends on.
type Client interface {
	// SeasonInfo returns the current season, fee and pool.
	SeasonInfo(ctx context.Context) (*SeasonInfo, error)
	// HasEntered reports whether the wallet paid this season's entry fee.
	HasEntered(ctx context.Context, wallet string) (bool, error)
	// Distribute sends one payout transaction per recipient and returns the
	// tx hash for each (empty string on per-recipient failure). Callers run
	// this on a background goroutine and log outcomes to transaction_logs.
	Distribute(ctx context.Context, kind string, payouts []Payout) ([]string, error)
}

// Share returns bps basis points of total, in wei.
func Share(total *big.Int, bps int64) *big.Int {
	out := new(big.Int).Mul(total, big.NewInt(bps))
	return out.Div(out, big.NewInt(10000))
}

// EqualSplit divides total across n recipients, truncating dust.
func EqualSplit(total *big.Int, n int) *big.Int {
	if n <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Div(total, big.NewInt(int64(n)))
}

package handler

import (
	"context"
	"time"

	"github.com/reefgo/server/internal/persist"
	"github.com/reefgo/server/internal/treasury"
	"go.uber.org/zap"
)

const payoutTimeout = 2 * time.Minute

// PayoutShare is one recipient's cut of the season pool in basis points. The
// chain stays authoritative for MON amounts; handlers only ever compute
// proportions.
type PayoutShare struct {
	Wallet string
	Bps    int64
}

// DistributePayouts fires an on-chain distribution without blocking the
// triggering action: the season pool read, the wei math and the send all run
// on a background goroutine. Every attempt lands in transaction_logs;
// operators reconcile from there, the engine never retries.
func (e *Engine) DistributePayouts(kind string, shares []PayoutShare) {
	if len(shares) == 0 {
		return
	}
	log := e.deps.Log
	client := e.deps.Treasury
	txlog := e.deps.TxLogRepo
	m := e.deps.Metrics

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), payoutTimeout)
		defer cancel()

		info, err := client.SeasonInfo(ctx)
		if err != nil {
			log.Warn("season lookup failed, skipping distribution",
				zap.String("kind", kind), zap.Error(err))
			return
		}

		payouts := make([]treasury.Payout, 0, len(shares))
		for _, sh := range shares {
			if sh.Wallet == "" || sh.Bps <= 0 {
				continue
			}
			payouts = append(payouts, treasury.Payout{
				Wallet:    sh.Wallet,
				AmountWei: treasury.Share(info.PrizePoolWei, sh.Bps),
			})
		}
		if len(payouts) == 0 {
			return
		}

		hashes, err := client.Distribute(ctx, kind, payouts)
		for i, p := range payouts {
			hash := ""
			if i < len(hashes) {
				hash = hashes[i]
			}
			status, errMsg := persist.TxStatusSent, ""
			if hash == "" {
				status = persist.TxStatusFailed
				if err != nil {
					errMsg = err.Error()
				}
			}
			if lerr := txlog.Record(ctx, kind, p.Wallet, p.AmountWei.String(), hash, status, errMsg); lerr != nil {
				log.Error("transaction log write failed",
					zap.String("kind", kind),
					zap.String("wallet", p.Wallet),
					zap.Error(lerr))
			}
			m.Payouts.WithLabelValues(kind, status).Inc()
		}
		if err != nil {
			log.Warn("treasury distribution incomplete",
				zap.String("kind", kind),
				zap.Int("recipients", len(payouts)),
				zap.Error(err))
		}
	}()
}

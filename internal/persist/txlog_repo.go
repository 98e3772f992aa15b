package persist

import "context"

// Transaction log statuses.
const (
	TxStatusSent   = "sent"
	TxStatusFailed = "failed"
)

// TxLogRepo records on-chain payout attempts. Payouts are fire-and-forget;
// this table is the audit trail operators reconcile against.
type TxLogRepo struct {
	db *DB
}

func NewTxLogRepo(db *DB) *TxLogRepo {
	return &TxLogRepo{db: db}
}

func (r *TxLogRepo) Record(ctx context.Context, kind, recipient, amountWei, txHash, status, errMsg string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO transaction_logs (kind, recipient, amount_wei, tx_hash, status, error)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		kind, recipient, amountWei, txHash, status, errMsg)
	return err
}

package persist

import (
	"context"
	"encoding/json"

	"github.com/reefgo/server/internal/world"
)

// MarketRepo is the authoritative store for prediction markets: the in-memory
// copies are a cache rebuilt from these rows at boot.
type MarketRepo struct {
	db *DB
}

func NewMarketRepo(db *DB) *MarketRepo {
	return &MarketRepo{db: db}
}

func (r *MarketRepo) Upsert(ctx context.Context, m *world.Market) error {
	options, err := json.Marshal(m.Options)
	if err != nil {
		return err
	}
	odds, err := json.Marshal(m.Odds)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO markets (id, question, options, odds, total_pool, outcome, resolved, expires_at_tick, category, reference_id)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (id) DO UPDATE SET
			total_pool = EXCLUDED.total_pool,
			outcome = EXCLUDED.outcome,
			resolved = EXCLUDED.resolved`,
		m.ID, m.Question, options, odds, m.TotalPool, m.Outcome, m.Resolved,
		m.ExpiresAtTick, m.Category, m.ReferenceID)
	return err
}

func (r *MarketRepo) LoadAll(ctx context.Context) ([]*world.Market, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, question, options, odds, total_pool, outcome, resolved, expires_at_tick, category, reference_id
		 FROM markets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*world.Market
	for rows.Next() {
		m := &world.Market{}
		var options, odds []byte
		if err := rows.Scan(&m.ID, &m.Question, &options, &odds, &m.TotalPool,
			&m.Outcome, &m.Resolved, &m.ExpiresAtTick, &m.Category, &m.ReferenceID); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(options, &m.Options); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(odds, &m.Odds); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *MarketRepo) UpsertBet(ctx context.Context, b *world.Bet) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO bets (market_id, agent_id, option_index, amount, potential_win, paid_out)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (market_id, agent_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			potential_win = EXCLUDED.potential_win,
			paid_out = EXCLUDED.paid_out`,
		b.MarketID, b.AgentID, b.OptionIndex, b.Amount, b.PotentialWin, b.PaidOut)
	return err
}

func (r *MarketRepo) LoadBets(ctx context.Context) ([]*world.Bet, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT market_id, agent_id, option_index, amount, potential_win, paid_out FROM bets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*world.Bet
	for rows.Next() {
		b := &world.Bet{}
		if err := rows.Scan(&b.MarketID, &b.AgentID, &b.OptionIndex, &b.Amount,
			&b.PotentialWin, &b.PaidOut); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

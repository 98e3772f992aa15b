package persist

import (
	"context"
	"encoding/json"

	"github.com/reefgo/server/internal/world"
)

type TradeRepo struct {
	db *DB
}

func NewTradeRepo(db *DB) *TradeRepo {
	return &TradeRepo{db: db}
}

func (r *TradeRepo) UpsertTrade(ctx context.Context, t *world.TradeOffer) error {
	offering, err := json.Marshal(t.Offering)
	if err != nil {
		return err
	}
	requesting, err := json.Marshal(t.Requesting)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO trades (id, from_id, to_id, offering, requesting, status, created_tick)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status`,
		t.ID, t.From, t.To, offering, requesting, t.Status, t.CreatedTick)
	return err
}

func (r *TradeRepo) LoadOpenTrades(ctx context.Context) ([]*world.TradeOffer, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, from_id, to_id, offering, requesting, status, created_tick
		 FROM trades WHERE status = 'pending' ORDER BY created_tick`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*world.TradeOffer
	for rows.Next() {
		t := &world.TradeOffer{}
		var offering, requesting []byte
		if err := rows.Scan(&t.ID, &t.From, &t.To, &offering, &requesting, &t.Status, &t.CreatedTick); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(offering, &t.Offering); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(requesting, &t.Requesting); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *TradeRepo) UpsertListing(ctx context.Context, l *world.Listing) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO listings (id, seller_id, seller_name, resource, quantity, price_shells, status, created_tick)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (id) DO UPDATE SET quantity = EXCLUDED.quantity, status = EXCLUDED.status`,
		l.ID, l.SellerID, l.SellerName, l.Resource, l.Quantity, l.PriceShells, l.Status, l.CreatedTick)
	return err
}

func (r *TradeRepo) LoadActiveListings(ctx context.Context) ([]*world.Listing, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, seller_id, seller_name, resource, quantity, price_shells, status, created_tick
		 FROM listings WHERE status = 'active' ORDER BY created_tick`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*world.Listing
	for rows.Next() {
		l := &world.Listing{}
		if err := rows.Scan(&l.ID, &l.SellerID, &l.SellerName, &l.Resource, &l.Quantity,
			&l.PriceShells, &l.Status, &l.CreatedTick); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

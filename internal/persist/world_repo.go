package persist

import (
	"context"

	"github.com/reefgo/server/internal/world"
)

type WorldRepo struct {
	db *DB
}

func NewWorldRepo(db *DB) *WorldRepo {
	return &WorldRepo{db: db}
}

// SaveMeta stores the global clock and ambience.
func (r *WorldRepo) SaveMeta(ctx context.Context, tick int64, dayCycle, weather string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE world_meta SET tick = $1, day_cycle = $2, weather = $3, updated_at = NOW() WHERE id = 1`,
		tick, dayCycle, weather)
	return err
}

// LoadMeta returns the persisted clock and ambience.
func (r *WorldRepo) LoadMeta(ctx context.Context) (tick int64, dayCycle, weather string, err error) {
	err = r.db.Pool.QueryRow(ctx,
		`SELECT tick, day_cycle, weather FROM world_meta WHERE id = 1`,
	).Scan(&tick, &dayCycle, &weather)
	return
}

// AppendEvents inserts world events newer than sinceID, returning the highest
// id written so the caller can advance its watermark.
func (r *WorldRepo) AppendEvents(ctx context.Context, events []world.WorldEvent) error {
	for _, e := range events {
		if _, err := r.db.Pool.Exec(ctx,
			`INSERT INTO world_events (tick, type, zone, message) VALUES ($1,$2,$3,$4)`,
			e.Tick, e.Type, e.Zone, e.Description); err != nil {
			return err
		}
	}
	return nil
}

// RecentEvents returns the latest limit events, oldest first.
func (r *WorldRepo) RecentEvents(ctx context.Context, limit int) ([]world.WorldEvent, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT tick, type, zone, message FROM
		   (SELECT id, tick, type, zone, message FROM world_events ORDER BY id DESC LIMIT $1) sub
		 ORDER BY id`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []world.WorldEvent
	for rows.Next() {
		var e world.WorldEvent
		if err := rows.Scan(&e.Tick, &e.Type, &e.Zone, &e.Description); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// AppendMessage stores one chat line (say, broadcast or dm).
func (r *WorldRepo) AppendMessage(ctx context.Context, m *world.Message) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO messages (from_id, to_id, channel, zone, content, tick)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		m.From, m.To, m.Type, m.Zone, m.Body, m.Tick)
	return err
}
